package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

const googleDateFormat = "2006-01-02"

// GoogleCalendarProvider keeps events in Google Calendar and to-dos in
// Google Tasks; for to-dos the calendar ID is a task list ID.
type GoogleCalendarProvider struct {
	service          *calendar.Service
	tasks            *tasks.Service
	ctx              context.Context
	disableReminders bool
}

func NewGoogleCalendarProvider(ctx context.Context, client *http.Client, disableReminders bool) (*GoogleCalendarProvider, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	tasksService, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &GoogleCalendarProvider{
		service:          service,
		tasks:            tasksService,
		ctx:              ctx,
		disableReminders: disableReminders,
	}, nil
}

func (g *GoogleCalendarProvider) GetCalendar(calendarID string, kind ItemKind) error {
	if kind == KindTodo {
		if _, err := g.tasks.Tasklists.Get(calendarID).Context(g.ctx).Do(); err != nil {
			return fmt.Errorf("failed to get task list: %w", err)
		}
		return nil
	}
	_, err := g.service.CalendarList.Get(calendarID).Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	return nil
}

func (g *GoogleCalendarProvider) AddItem(calendarID string, item *Item) (string, error) {
	if item.Kind == KindTodo {
		if item.Recurrence != "" {
			return "", fmt.Errorf("recurring to-dos are not supported by Google Tasks")
		}
		created, err := g.tasks.Tasks.Insert(calendarID, googleTask(item)).Context(g.ctx).Do()
		if err != nil {
			return "", fmt.Errorf("failed to create task: %w", err)
		}
		return created.Id, nil
	}

	createdEvent, err := g.service.Events.Insert(calendarID, googleEvent(item, g.disableReminders)).Context(g.ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return createdEvent.Id, nil
}

func (g *GoogleCalendarProvider) GetItem(calendarID string, kind ItemKind, itemID string) (*Item, error) {
	if kind == KindTodo {
		task, err := g.tasks.Tasks.Get(calendarID, itemID).Context(g.ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get task: %w", err)
		}
		due, _ := time.Parse(time.RFC3339, task.Due)
		return &Item{
			ID:          task.Id,
			Kind:        KindTodo,
			Summary:     task.Title,
			Description: task.Notes,
			Due:         due,
			AllDay:      true,
			Status:      task.Status,
		}, nil
	}

	event, err := g.service.Events.Get(calendarID, itemID).Context(g.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	start, allDay := fromEventDateTime(event.Start)
	end, _ := fromEventDateTime(event.End)

	return &Item{
		ID:          event.Id,
		Kind:        KindEvent,
		Summary:     event.Summary,
		Description: event.Description,
		Start:       start,
		End:         end,
		AllDay:      allDay,
		Status:      event.Status,
	}, nil
}

func (g *GoogleCalendarProvider) DeleteItem(calendarID string, kind ItemKind, itemID string) error {
	if kind == KindTodo {
		if err := g.tasks.Tasks.Delete(calendarID, itemID).Context(g.ctx).Do(); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	}
	err := g.service.Events.Delete(calendarID, itemID).Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func googleEvent(item *Item, disableReminders bool) *calendar.Event {
	event := &calendar.Event{
		Summary:     item.Summary,
		Description: item.Description,
		Start:       toEventDateTime(item.Start, item.AllDay),
		End:         toEventDateTime(item.End, item.AllDay),
	}
	if item.Recurrence != "" {
		event.Recurrence = []string{"RRULE:" + item.Recurrence}
	}
	if disableReminders {
		event.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		}
	}
	return event
}

// googleTask builds a task. Google Tasks keeps only the date of a due
// time, so the due date is sent as midnight UTC of the local date.
func googleTask(item *Item) *tasks.Task {
	task := &tasks.Task{
		Title: item.Summary,
		Notes: item.Description,
	}
	if !item.Due.IsZero() {
		y, m, d := item.Due.Date()
		task.Due = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	}
	return task
}

func toEventDateTime(t time.Time, allDay bool) *calendar.EventDateTime {
	if allDay {
		return &calendar.EventDateTime{Date: t.Format(googleDateFormat)}
	}
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: t.Location().String(),
	}
}

func fromEventDateTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.Date != "" {
		t, _ := time.ParseInLocation(googleDateFormat, edt.Date, time.Local)
		return t, true
	}
	t, _ := time.Parse(time.RFC3339, edt.DateTime)
	return t, false
}
