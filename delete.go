package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
)

func deleteItem(config *Config, itemID string) {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Println("🚀 Starting item deletion...")

	if itemID == "" {
		fmt.Print("🗒  Enter item ID to delete: ")
		fmt.Scanln(&itemID)
	}

	item, err := getCreatedItem(db, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Printf("❌ Item %s was not created by gcalquick\n", itemID)
		return
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	calendarFactory := NewCalendarFactory(context.Background(), config, db)
	provider, err := providerForItem(db, calendarFactory, *item)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	remote, err := provider.GetItem(item.CalendarID, item.Kind, item.ID)
	if err != nil {
		log.Printf("Warning: %s %s not found in calendar %s: %v", item.Kind.label(), item.ID, item.CalendarID, err)
	} else {
		printVerbosely(2, "  📄 %q (%s) %s\n", remote.Summary, remote.Status, formatItemTime(remote.Start, remote.AllDay))
	}

	fmt.Printf("⚠️  Are you sure you want to delete %s %q? (y/N): ", item.Kind.label(), item.Summary)
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		fmt.Println("❌ Item deletion cancelled")
		return
	}

	if err := removeCreatedItem(db, calendarFactory, *item); err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("✅ %s %q deleted successfully\n", item.Kind.label(), item.Summary)
}

// removeCreatedItem deletes an item from its calendar and forgets it.
func removeCreatedItem(db *sql.DB, calendarFactory *CalendarFactory, item CreatedItem) error {
	provider, err := providerForItem(db, calendarFactory, item)
	if err != nil {
		return err
	}
	if err := provider.DeleteItem(item.CalendarID, item.Kind, item.ID); err != nil {
		return err
	}
	printVerbosely(4, "  🗑  Deleted %s %s from %s\n", item.Kind.label(), item.ID, item.CalendarID)
	return deleteCreatedItem(db, item.CalendarID, item.ID)
}

func providerForItem(db *sql.DB, calendarFactory *CalendarFactory, item CreatedItem) (CalendarProvider, error) {
	calInfo, err := findCalendar(db, item.Kind, item.AccountName, item.CalendarID)
	if err != nil {
		return nil, err
	}
	provider, err := calendarFactory.ProviderFor(calInfo)
	if err != nil {
		return nil, fmt.Errorf("error creating calendar provider: %w", err)
	}
	return provider, nil
}

func removeCalendar(config *Config) {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Println("🚀 Starting calendar removal...")

	fmt.Print("👤 Enter account name: ")
	var accountName string
	fmt.Scanln(&accountName)

	fmt.Print("📅 Enter calendar ID to remove: ")
	var calendarID string
	fmt.Scanln(&calendarID)

	fmt.Print("⚠️  Items created in this calendar will be deleted too. Continue? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		fmt.Println("❌ Calendar removal cancelled")
		return
	}

	items, err := listCreatedItems(db)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	calendarFactory := NewCalendarFactory(context.Background(), config, db)
	for _, item := range items {
		if item.AccountName != accountName || item.CalendarID != calendarID {
			continue
		}
		if err := removeCreatedItem(db, calendarFactory, item); err != nil {
			log.Fatalf("Error deleting %s %s: %v", item.Kind.label(), item.ID, err)
		}
	}

	n, err := deleteCalendarFromDB(db, accountName, calendarID)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if n == 0 {
		fmt.Printf("❌ Calendar %s does not exist\n", calendarID)
		return
	}

	fmt.Printf("✅ Calendar %s removed successfully\n", calendarID)
}
