package main

import (
	"fmt"
	"time"
)

type ItemKind string

const (
	KindEvent ItemKind = "event"
	KindTodo  ItemKind = "todo"
)

func parseItemKind(s string) (ItemKind, error) {
	switch ItemKind(s) {
	case KindEvent, "events", "":
		return KindEvent, nil
	case KindTodo, "todos":
		return KindTodo, nil
	}
	return "", fmt.Errorf("unsupported item kind: %s (must be 'event' or 'todo')", s)
}

func (k ItemKind) label() string {
	if k == KindTodo {
		return "to-do"
	}
	return "event"
}

type CalendarProvider interface {
	GetCalendar(calendarID string, kind ItemKind) error
	AddItem(calendarID string, item *Item) (string, error)
	GetItem(calendarID string, kind ItemKind, itemID string) (*Item, error)
	DeleteItem(calendarID string, kind ItemKind, itemID string) error
}

// Item is an event or a to-do. Events use Start and End; to-dos use Due
// and, for ranged to-dos, Start. With AllDay set only the dates count.
type Item struct {
	ID          string
	Kind        ItemKind
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Due         time.Time
	AllDay      bool
	Recurrence  string
	Status      string
}
