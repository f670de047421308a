package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2026, time.October, 19, 10, 15, 30, 0, time.UTC)

func TestItemComponent_AllDayEvent(t *testing.T) {
	item := &Item{
		ID:      "gcalquick-1",
		Kind:    KindEvent,
		Summary: "Trip",
		Start:   time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}

	comp, err := itemComponent(item, stamp)
	require.NoError(t, err)
	assert.Equal(t, ical.CompEvent, comp.Name)

	start := comp.Props.Get(ical.PropDateTimeStart)
	require.NotNil(t, start)
	assert.Equal(t, ical.ValueDate, start.ValueType())
	assert.Equal(t, "20261020", start.Value)
	assert.Equal(t, "20261026", comp.Props.Get(ical.PropDateTimeEnd).Value)
	assert.Equal(t, "CONFIRMED", getTextProp(comp.Props, ical.PropStatus))
	assert.Nil(t, comp.Props.Get(ical.PropDescription))

	back, err := itemFromComponent(comp)
	require.NoError(t, err)
	assert.Equal(t, "gcalquick-1", back.ID)
	assert.Equal(t, KindEvent, back.Kind)
	assert.True(t, back.AllDay)
	assert.Equal(t, "2026-10-20", back.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-10-26", back.End.Format("2006-01-02"))
	assert.Equal(t, "confirmed", back.Status)
}

func TestItemComponent_TimedTodo(t *testing.T) {
	item := &Item{
		ID:          "gcalquick-2",
		Kind:        KindTodo,
		Summary:     "Report",
		Description: "quarterly numbers",
		Start:       time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
		Due:         time.Date(2026, time.October, 20, 17, 0, 0, 0, time.UTC),
		Recurrence:  "FREQ=WEEKLY;COUNT=3",
	}

	comp, err := itemComponent(item, stamp)
	require.NoError(t, err)
	assert.Equal(t, ical.CompToDo, comp.Name)
	assert.Equal(t, "20261020T170000Z", comp.Props.Get(ical.PropDue).Value)
	assert.Nil(t, comp.Props.Get(ical.PropDateTimeEnd))
	assert.Equal(t, "NEEDS-ACTION", getTextProp(comp.Props, ical.PropStatus))
	assert.Equal(t, "quarterly numbers", getTextProp(comp.Props, ical.PropDescription))

	rule := comp.Props.Get(ical.PropRecurrenceRule)
	require.NotNil(t, rule)
	assert.Contains(t, rule.Value, "FREQ=WEEKLY")

	back, err := itemFromComponent(comp)
	require.NoError(t, err)
	assert.Equal(t, KindTodo, back.Kind)
	assert.False(t, back.AllDay)
	assert.True(t, item.Due.Equal(back.Due))
	assert.True(t, item.Start.Equal(back.Start))
	assert.Contains(t, back.Recurrence, "COUNT=3")
}

func TestItemComponent_BadRecurrence(t *testing.T) {
	_, err := itemComponent(&Item{ID: "x", Kind: KindEvent, Summary: "x", Recurrence: "FREQ=NEVER"}, stamp)
	assert.ErrorContains(t, err, "invalid recurrence rule")
}

func TestItemCalendar_Encode(t *testing.T) {
	item := &Item{
		ID:      "gcalquick-3",
		Kind:    KindTodo,
		Summary: "Pay rent",
		Due:     time.Date(2026, time.October, 24, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}
	cal, err := itemCalendar(item, stamp)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ical.NewEncoder(&buf).Encode(cal))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+caldavProductID)
	assert.Contains(t, out, "BEGIN:VTODO")
	assert.Contains(t, out, "DUE;VALUE=DATE:20261024")
	assert.Contains(t, out, "UID:gcalquick-3")
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "VEVENT", componentName(KindEvent))
	assert.Equal(t, "VTODO", componentName(KindTodo))
}
