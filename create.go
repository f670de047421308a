package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/jessevdk/go-flags"
)

type createOptions struct {
	Account     string `short:"a" long:"account" description:"Account owning the calendar"`
	Calendar    string `short:"c" long:"calendar" description:"Calendar ID or URL (default: first calendar registered for the item kind)"`
	Description string `short:"d" long:"description" description:"Item description"`
	Repeat      string `short:"r" long:"repeat" description:"Recurrence rule, e.g. FREQ=WEEKLY;COUNT=4"`
	DryRun      bool   `short:"n" long:"dry-run" description:"Print the item as iCalendar instead of creating it"`
}

func createItem(config *Config, kind ItemKind, args []string) {
	var opts createOptions
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS] <summary> [@ <when>]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			return
		}
		log.Fatalf("Error parsing arguments: %v", err)
	}

	runner, err := newRunnerFromConfig(config)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	keyword := config.General.EventKeyword
	if kind == KindTodo {
		keyword = config.General.TodoKeyword
	}
	query := keyword + " " + strings.Join(rest, " ")
	match, ok := runner.Match(query)
	if !ok || match.Kind != kind {
		log.Fatalf("Error: %q is not a %s request (expected '<summary> @ <when>' with a summary of at least %d characters)",
			strings.Join(rest, " "), kind.label(), minSummaryLength)
	}
	printVerbosely(2, "🔎 %s\n", match.Text)

	if opts.DryRun {
		if err := printItem(runner, match, opts); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	calInfo, err := findCalendar(db, kind, opts.Account, opts.Calendar)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	printVerbosely(4, "  📅 Using %s calendar %s of account %s\n", calInfo.ProviderType, calInfo.ID, calInfo.AccountName)

	calendarFactory := NewCalendarFactory(context.Background(), config, db)
	provider, err := calendarFactory.ProviderFor(calInfo)
	if err != nil {
		log.Fatalf("Error creating calendar provider: %v", err)
	}

	item, err := runner.Run(provider, calInfo.ID, match, opts.Description, opts.Repeat)
	if err != nil {
		log.Fatalf("Error creating %s: %v", kind.label(), err)
	}

	created := CreatedItem{
		ID:          item.ID,
		CalendarID:  calInfo.ID,
		AccountName: calInfo.AccountName,
		Kind:        kind,
		Summary:     item.Summary,
		Start:       item.Start,
		Finish:      item.End,
		AllDay:      item.AllDay,
		CreatedAt:   time.Now(),
	}
	if kind == KindTodo {
		created.Finish = item.Due
	}
	if err := saveCreatedItem(db, created); err != nil {
		log.Printf("Warning: %s created but not recorded: %v", kind.label(), err)
	}

	fmt.Printf("✅ %s (id %s)\n", match.Text, item.ID)
}

func printItem(runner *Runner, match *Match, opts createOptions) error {
	item, err := runner.Item(match)
	if err != nil {
		return err
	}
	item.ID = "dry-run"
	item.Description = opts.Description
	if item.Recurrence, err = normalizeRecurrence(opts.Repeat); err != nil {
		return err
	}

	cal, err := itemCalendar(item, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(match.Text)
	return ical.NewEncoder(os.Stdout).Encode(cal)
}
