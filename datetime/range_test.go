package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var refDay = Date{Year: 2026, Month: time.October, Day: 19}

func TestDate_AddMonths(t *testing.T) {
	tests := []struct {
		from   Date
		months int
		want   Date
	}{
		{Date{2026, time.January, 31}, 1, Date{2026, time.February, 28}},
		{Date{2024, time.January, 31}, 1, Date{2024, time.February, 29}},
		{Date{2026, time.October, 19}, 2, Date{2026, time.December, 19}},
		{Date{2026, time.October, 19}, 3, Date{2027, time.January, 19}},
		{Date{2026, time.January, 15}, -1, Date{2025, time.December, 15}},
		{Date{2026, time.January, 15}, -13, Date{2024, time.December, 15}},
		{Date{2026, time.March, 31}, -1, Date{2026, time.February, 28}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.AddMonths(tt.months))
		})
	}

	assert.Equal(t, Date{2025, time.February, 28}, Date{2024, time.February, 29}.AddYears(1))
	assert.Equal(t, Date{2028, time.February, 29}, Date{2024, time.February, 29}.AddYears(4))
	assert.Equal(t, Date{2027, time.January, 1}, Date{2026, time.December, 31}.AddDays(1))
}

func TestDate_OutOfRange(t *testing.T) {
	assert.False(t, refDay.AddYears(MaxYear).IsValid())
	assert.False(t, refDay.AddYears(-3000).IsValid())
	assert.False(t, refDay.AddMonths(1<<40).IsValid())
	assert.False(t, refDay.AddDays(1<<40).IsValid())
	assert.False(t, Date{MaxYear + 1, time.January, 1}.IsValid())
	assert.Equal(t, Date{MaxYear, time.December, 31}, Date{MaxYear, time.December, 30}.AddDays(1))

	r := PointRange(DateTimeValue(refDay, Clock{Hour: 12}))
	r.AddSecs(1<<40, Start)
	assert.Equal(t, Invalid, r.Start.Kind())
	assert.Equal(t, DateTime, r.Finish.Kind())
}

func TestValue_Equal(t *testing.T) {
	d := Date{2026, time.October, 19}
	noon := Clock{Hour: 12}

	assert.True(t, Value{}.Equal(Value{}))
	assert.True(t, DateValue(d).Equal(DateValue(d)))
	assert.True(t, DateTimeValue(d, noon).Equal(DateTimeValue(d, noon)))

	assert.False(t, DateValue(d).Equal(DateTimeValue(d, Clock{})), "date-only differs from midnight")
	assert.False(t, DateValue(d).Equal(Value{}))
	assert.False(t, DateTimeValue(d, noon).Equal(DateTimeValue(d, Clock{Hour: 13})))
}

func TestValue_In(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)

	v := DateTimeValue(Date{2009, time.October, 21}, Clock{Hour: 14, Minute: 30})
	assert.Equal(t, time.Date(2009, time.October, 21, 14, 30, 0, 0, loc), v.In(loc))

	v = DateValue(Date{2009, time.October, 21})
	assert.Equal(t, time.Date(2009, time.October, 21, 0, 0, 0, 0, loc), v.In(loc))
	assert.Equal(t, "2009-10-21", v.String())

	assert.True(t, Value{}.In(loc).IsZero())
	assert.Equal(t, "unset", Value{}.String())
}

func TestRange_SetDate(t *testing.T) {
	var r Range
	r.SetDate(Date{2009, time.October, 21}, Start)
	assert.Equal(t, DateOnly, r.Start.Kind())
	assert.Equal(t, Unset, r.Finish.Kind())

	// the time of day survives a new date
	noon := Clock{Hour: 12}
	r.SetTime(&noon, Start, refDay)
	r.SetDate(Date{2010, time.May, 1}, Start)
	assert.True(t, r.Start.Equal(DateTimeValue(Date{2010, time.May, 1}, noon)))

	// a zero date changes nothing
	before := r
	r.SetDate(Date{}, Both)
	assert.Equal(t, before, r)

	r.SetDate(Date{2010, time.May, 32}, Finish)
	assert.Equal(t, Invalid, r.Finish.Kind())
	r.SetDate(Date{2010, time.May, 2}, Finish)
	assert.Equal(t, Invalid, r.Finish.Kind(), "invalid sides stay invalid")
}

func TestRange_SetTime(t *testing.T) {
	var r Range
	r.SetTime(nil, Both, refDay)
	assert.False(t, r.Start.IsSet())

	nine := Clock{Hour: 9}
	r.SetTime(&nine, Finish, refDay)
	assert.Equal(t, Unset, r.Start.Kind())
	assert.True(t, r.Finish.Equal(DateTimeValue(refDay, nine)))

	r = PointRange(DateValue(Date{2009, time.October, 21}))
	r.SetTime(&nine, Both, refDay)
	assert.True(t, r.IsPoint())
	assert.True(t, r.Start.Equal(DateTimeValue(Date{2009, time.October, 21}, nine)))

	bad := Clock{Hour: 24}
	r.SetTime(&bad, Start, refDay)
	assert.Equal(t, Invalid, r.Start.Kind())
	assert.False(t, r.IsPoint())
}

func TestRange_Add(t *testing.T) {
	r := Range{
		Start:  DateTimeValue(Date{2026, time.October, 19}, Clock{Hour: 23, Minute: 30}),
		Finish: DateValue(Date{2026, time.October, 19}),
	}

	r.AddSecs(3600, Start)
	assert.True(t, r.Start.Equal(DateTimeValue(Date{2026, time.October, 20}, Clock{Minute: 30})))

	r.AddSecs(3600, Finish)
	assert.True(t, r.Finish.Equal(DateValue(Date{2026, time.October, 19})), "less than a day does not move a date")
	r.AddSecs(-2*86400, Finish)
	assert.True(t, r.Finish.Equal(DateValue(Date{2026, time.October, 17})))

	r.AddDays(7, Both)
	r.AddMonths(1, Both)
	r.AddYears(-1, Both)
	assert.Equal(t, Date{2025, time.November, 27}, r.Start.Date())
	assert.Equal(t, Date{2025, time.November, 24}, r.Finish.Date())

	var empty Range
	empty.AddDays(3, Both)
	empty.AddSecs(60, Both)
	empty.AddMonths(1, Both)
	empty.AddYears(1, Both)
	assert.False(t, empty.Start.IsSet())
	assert.False(t, empty.Finish.IsSet())
}

func TestRange_IsPoint(t *testing.T) {
	assert.True(t, Range{}.IsPoint())
	assert.True(t, PointRange(DateValue(refDay)).IsPoint())
	assert.False(t, Range{Start: DateValue(refDay)}.IsPoint())
	assert.False(t, Range{Start: DateValue(refDay), Finish: DateValue(refDay.AddDays(1))}.IsPoint())
}
