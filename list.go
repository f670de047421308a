package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"
)

func listItems() {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	calendars, err := getCalendarsFromDB(db)
	if err != nil {
		log.Fatalf("❌ Error retrieving calendars from database: %v", err)
	}
	items, err := listCreatedItems(db)
	if err != nil {
		log.Fatalf("❌ Error retrieving created items from database: %v", err)
	}

	writeCalendars(os.Stdout, calendars)
	writeCreatedItems(os.Stdout, items)
}

func writeCalendars(w io.Writer, calendars map[string][]CalendarInfo) {
	fmt.Fprintln(w, "📋 Registered calendars:")
	accounts := make([]string, 0, len(calendars))
	for accountName := range calendars {
		accounts = append(accounts, accountName)
	}
	sort.Strings(accounts)
	for _, accountName := range accounts {
		for _, calInfo := range calendars[accountName] {
			fmt.Fprintf(w, "  👤 %s (📅 %s) - %s %ss\n", accountName, calInfo.ID, calInfo.ProviderType, calInfo.Kind.label())
		}
	}
}

func writeCreatedItems(w io.Writer, items []CreatedItem) {
	fmt.Fprintln(w, "🗒  Created items:")
	for _, item := range items {
		when := formatItemTime(item.Start, item.AllDay)
		if !item.Finish.IsZero() {
			if when != "" {
				when += " → "
			}
			when += formatItemTime(item.Finish, item.AllDay)
		}
		fmt.Fprintf(w, "  %s %q %s [%s] (📅 %s)\n", item.Kind.label(), item.Summary, when, item.ID, item.CalendarID)
	}
}

func formatItemTime(t time.Time, allDay bool) string {
	if t.IsZero() {
		return ""
	}
	if allDay {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}
