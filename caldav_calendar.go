package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const caldavProductID = "-//gcalquick//gcalquick//EN"

type CalDAVProvider struct {
	client    *caldav.Client
	ctx       context.Context
	serverURL string
}

func NewCalDAVProvider(ctx context.Context, serverURL, username, password string) (*CalDAVProvider, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	var httpClient webdav.HTTPClient = http.DefaultClient
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	return &CalDAVProvider{
		client:    c,
		ctx:       ctx,
		serverURL: serverURL,
	}, nil
}

// GetCalendar checks that the collection exists and accepts the kind of
// component we are going to store in it.
func (c *CalDAVProvider) GetCalendar(calendarID string, kind ItemKind) error {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return fmt.Errorf("invalid calendar URL: %w", err)
	}

	// The calendar home set is usually the parent path
	homeSetPath := "/"
	if calURL.Path != "" {
		parts := strings.Split(strings.TrimRight(calURL.Path, "/"), "/")
		if len(parts) > 1 {
			homeSetPath = strings.Join(parts[:len(parts)-1], "/") + "/"
		}
	}

	calendars, err := c.client.FindCalendars(c.ctx, homeSetPath)
	if err != nil {
		return fmt.Errorf("failed to find calendars: %w", err)
	}

	want := componentName(kind)
	for _, cal := range calendars {
		if strings.TrimRight(cal.Path, "/") != strings.TrimRight(calURL.Path, "/") {
			continue
		}
		if len(cal.SupportedComponentSet) == 0 {
			return nil
		}
		for _, comp := range cal.SupportedComponentSet {
			if strings.EqualFold(comp, want) {
				return nil
			}
		}
		return fmt.Errorf("calendar %s does not accept %s components", calURL.Path, want)
	}

	return fmt.Errorf("calendar not found at path: %s", calURL.Path)
}

func (c *CalDAVProvider) AddItem(calendarID string, item *Item) (string, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return "", fmt.Errorf("invalid calendar URL: %w", err)
	}

	if item.ID == "" {
		item.ID = "gcalquick-" + uuid.NewString()
	}
	cal, err := itemCalendar(item, time.Now())
	if err != nil {
		return "", err
	}

	_, err = c.client.PutCalendarObject(c.ctx, objectPath(calURL, item.ID), cal)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", item.Kind.label(), err)
	}

	return item.ID, nil
}

func (c *CalDAVProvider) GetItem(calendarID string, kind ItemKind, itemID string) (*Item, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar URL: %w", err)
	}

	object, err := c.client.GetCalendarObject(c.ctx, objectPath(calURL, itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", kind.label(), err)
	}

	want := componentName(kind)
	for _, comp := range object.Data.Children {
		if comp.Name == want {
			return itemFromComponent(comp)
		}
	}
	return nil, fmt.Errorf("no %s component found in calendar object", want)
}

func (c *CalDAVProvider) DeleteItem(calendarID string, kind ItemKind, itemID string) error {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return fmt.Errorf("invalid calendar URL: %w", err)
	}

	err = c.client.Client.RemoveAll(c.ctx, objectPath(calURL, itemID))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind.label(), err)
	}

	return nil
}

func objectPath(calURL *url.URL, itemID string) string {
	return strings.TrimRight(calURL.Path, "/") + "/" + itemID + ".ics"
}

func componentName(kind ItemKind) string {
	if kind == KindTodo {
		return ical.CompToDo
	}
	return ical.CompEvent
}

// itemCalendar wraps the item component into a VCALENDAR ready to be PUT.
func itemCalendar(item *Item, stamp time.Time) (*ical.Calendar, error) {
	comp, err := itemComponent(item, stamp)
	if err != nil {
		return nil, err
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, caldavProductID)
	cal.Children = append(cal.Children, comp)
	return cal, nil
}

func itemComponent(item *Item, stamp time.Time) (*ical.Component, error) {
	comp := ical.NewComponent(componentName(item.Kind))
	comp.Props.SetText(ical.PropUID, item.ID)
	comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	comp.Props.SetText(ical.PropSummary, item.Summary)
	if item.Description != "" {
		comp.Props.SetText(ical.PropDescription, item.Description)
	}

	setTime := func(name string, t time.Time) {
		if t.IsZero() {
			return
		}
		if item.AllDay {
			comp.Props.SetDate(name, t)
		} else {
			comp.Props.SetDateTime(name, t)
		}
	}

	status := item.Status
	switch item.Kind {
	case KindTodo:
		setTime(ical.PropDateTimeStart, item.Start)
		setTime(ical.PropDue, item.Due)
		if status == "" {
			status = "NEEDS-ACTION"
		}
	default:
		setTime(ical.PropDateTimeStart, item.Start)
		setTime(ical.PropDateTimeEnd, item.End)
		if status == "" {
			status = "CONFIRMED"
		}
	}
	comp.Props.SetText(ical.PropStatus, strings.ToUpper(status))

	if item.Recurrence != "" {
		rule, err := rrule.StrToROption(item.Recurrence)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrence rule %q: %w", item.Recurrence, err)
		}
		comp.Props.SetRecurrenceRule(rule)
	}

	return comp, nil
}

func itemFromComponent(comp *ical.Component) (*Item, error) {
	item := &Item{
		ID:          getTextProp(comp.Props, ical.PropUID),
		Summary:     getTextProp(comp.Props, ical.PropSummary),
		Description: getTextProp(comp.Props, ical.PropDescription),
		Status:      strings.ToLower(getTextProp(comp.Props, ical.PropStatus)),
	}
	if comp.Name == ical.CompToDo {
		item.Kind = KindTodo
	} else {
		item.Kind = KindEvent
	}

	for name, dst := range map[string]*time.Time{
		ical.PropDateTimeStart: &item.Start,
		ical.PropDateTimeEnd:   &item.End,
		ical.PropDue:           &item.Due,
	} {
		prop := comp.Props.Get(name)
		if prop == nil {
			continue
		}
		t, err := prop.DateTime(time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = t
		if prop.ValueType() == ical.ValueDate {
			item.AllDay = true
		}
	}

	if rule := comp.Props.Get(ical.PropRecurrenceRule); rule != nil {
		item.Recurrence = rule.Value
	}

	return item, nil
}

func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}
