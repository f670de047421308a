package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bobuk/gcalquick/datetime"
	"github.com/jessevdk/go-flags"
)

type parseOptions struct {
	TimeFormats []string `short:"t" long:"time-format" description:"Extra time format, may be repeated"`
	DateFormats []string `short:"D" long:"date-format" description:"Extra date format, may be repeated"`
	Now         string   `long:"now" description:"Reference time in RFC 3339 instead of the current time"`
}

func parsePhrase(config *Config, args []string) {
	var opts parseOptions
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS] <phrase>"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			return
		}
		log.Fatalf("Error parsing arguments: %v", err)
	}

	extra := []datetime.Option{
		datetime.WithTimeFormats(opts.TimeFormats...),
		datetime.WithDateFormats(opts.DateFormats...),
	}
	if opts.Now != "" {
		now, err := time.Parse(time.RFC3339, opts.Now)
		if err != nil {
			log.Fatalf("Error parsing --now: %v", err)
		}
		extra = append(extra, datetime.WithClock(func() time.Time { return now }))
	}

	p, err := config.newParser(extra...)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	printVerbosely(5, "time formats: %s\ndate formats: %s\n",
		strings.Join(p.TimeFormats(), ", "), strings.Join(p.DateFormats(), ", "))

	writeRange(os.Stdout, p.ParseRange(strings.Join(rest, " ")))
}

func writeRange(w io.Writer, r datetime.Range) {
	fmt.Fprintf(w, "start:  %s\n", r.Start)
	fmt.Fprintf(w, "finish: %s\n", r.Finish)
	fmt.Fprintf(w, "point:  %t\n", r.IsPoint())
}
