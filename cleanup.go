package main

import (
	"context"
	"fmt"
	"log"
)

func cleanupItems(config *Config) {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	items, err := listCreatedItems(db)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	calendarFactory := NewCalendarFactory(context.Background(), config, db)
	failed := 0
	for _, item := range items {
		if err := removeCreatedItem(db, calendarFactory, item); err != nil {
			log.Printf("Warning: could not delete %s %q: %v", item.Kind.label(), item.Summary, err)
			failed++
			continue
		}
		printVerbosely(2, "  🗑  %s %q\n", item.Kind.label(), item.Summary)
	}

	if failed > 0 {
		log.Fatalf("Error: %d of %d items could not be deleted", failed, len(items))
	}
	fmt.Printf("✅ %d items cleaned up successfully\n", len(items))
}
