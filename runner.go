package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobuk/gcalquick/datetime"
	"github.com/teambition/rrule-go"
)

const (
	minQueryLength   = 8
	minSummaryLength = 3
	matchRelevance   = 0.8
	whenSeparator    = " @ "

	describeDateFormat     = "Mon 2 Jan 2006"
	describeDateTimeFormat = "Mon 2 Jan 2006 15:04"
)

// Match is a query recognised as a request to create an item.
type Match struct {
	Kind      ItemKind
	Summary   string
	When      string
	Range     datetime.Range
	Text      string
	Relevance float64
}

type Runner struct {
	parser          *datetime.Parser
	eventKeyword    string
	todoKeyword     string
	defaultDuration time.Duration
}

func NewRunner(parser *datetime.Parser, eventKeyword, todoKeyword string, defaultDuration time.Duration) *Runner {
	return &Runner{
		parser:          parser,
		eventKeyword:    eventKeyword,
		todoKeyword:     todoKeyword,
		defaultDuration: defaultDuration,
	}
}

func newRunnerFromConfig(config *Config) (*Runner, error) {
	parser, err := config.newParser()
	if err != nil {
		return nil, err
	}
	duration, err := config.defaultDuration()
	if err != nil {
		return nil, err
	}
	return NewRunner(parser, config.General.EventKeyword, config.General.TodoKeyword, duration), nil
}

// Match recognises "<keyword> <summary> [@ <when>]" queries.
func (r *Runner) Match(query string) (*Match, bool) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return nil, false
	}

	var kind ItemKind
	var rest string
	switch {
	case strings.HasPrefix(query, r.eventKeyword+" "):
		kind, rest = KindEvent, query[len(r.eventKeyword)+1:]
	case strings.HasPrefix(query, r.todoKeyword+" "):
		kind, rest = KindTodo, query[len(r.todoKeyword)+1:]
	default:
		return nil, false
	}

	summary, when, _ := strings.Cut(rest, whenSeparator)
	summary = strings.TrimSpace(summary)
	when = strings.TrimSpace(when)
	if len([]rune(summary)) < minSummaryLength {
		return nil, false
	}

	m := &Match{
		Kind:      kind,
		Summary:   summary,
		When:      when,
		Range:     r.parser.ParseRange(when),
		Relevance: matchRelevance,
	}
	m.Text = r.describe(m)
	return m, true
}

func (r *Runner) describe(m *Match) string {
	text := fmt.Sprintf("Create %s %q", m.Kind.label(), m.Summary)
	rng := m.Range
	for _, side := range []struct {
		name string
		v    datetime.Value
	}{{"start", rng.Start}, {"finish", rng.Finish}} {
		if side.v.Kind() == datetime.Invalid {
			return text + " (invalid " + side.name + ")"
		}
	}

	switch {
	case rng.IsPoint() && !rng.Start.IsSet():
		if m.Kind == KindEvent {
			return text + " now"
		}
		return text
	case rng.IsPoint():
		if m.Kind == KindTodo {
			return text + " due " + describeValue(rng.Start)
		}
		return text + " at " + describeValue(rng.Start)
	case !rng.Finish.IsSet():
		return text + " from " + describeValue(rng.Start)
	case !rng.Start.IsSet():
		if m.Kind == KindTodo {
			return text + " due " + describeValue(rng.Finish)
		}
		return text + " until " + describeValue(rng.Finish)
	}
	return text + " from " + describeValue(rng.Start) + " to " + describeValue(rng.Finish)
}

func describeValue(v datetime.Value) string {
	if v.IsDateOnly() {
		return v.In(time.UTC).Format(describeDateFormat)
	}
	return v.In(time.UTC).Format(describeDateTimeFormat)
}

// Item converts a match into a calendar item. Ranges with an invalid side
// are rejected.
func (r *Runner) Item(m *Match) (*Item, error) {
	rng := m.Range
	if rng.Start.Kind() == datetime.Invalid {
		return nil, fmt.Errorf("invalid start in %q", m.When)
	}
	if rng.Finish.Kind() == datetime.Invalid {
		return nil, fmt.Errorf("invalid finish in %q", m.When)
	}

	item := &Item{Kind: m.Kind, Summary: m.Summary}
	loc := r.parser.Location()

	if m.Kind == KindTodo {
		due := rng.Finish
		if !due.IsSet() {
			due = rng.Start
		}
		if !due.IsSet() {
			return item, nil
		}
		item.Due = due.In(loc)
		item.AllDay = due.IsDateOnly()
		if rng.IsPoint() || !rng.Start.IsSet() || !rng.Finish.IsSet() {
			return item, nil
		}

		// start and due share one value type; a date-only due next to a
		// timed start covers the whole day
		item.Start = rng.Start.In(loc)
		item.AllDay = rng.Start.IsDateOnly() && due.IsDateOnly()
		if !item.AllDay && due.IsDateOnly() {
			item.Due = item.Due.AddDate(0, 0, 1)
		}
		return item, nil
	}

	if !rng.Start.IsSet() && !rng.Finish.IsSet() {
		rng = datetime.PointRange(datetime.ValueOf(r.parser.Now()))
	}
	start := rng.Start
	if !start.IsSet() {
		start = datetime.ValueOf(r.parser.Now())
	}
	item.Start = start.In(loc)

	finish := rng.Finish
	if rng.IsPoint() || !finish.IsSet() {
		if start.IsDateOnly() {
			item.AllDay = true
			item.End = item.Start.AddDate(0, 0, 1)
		} else {
			item.End = item.Start.Add(r.defaultDuration)
		}
		return item, nil
	}

	// a date-only finish covers the whole day
	item.End = finish.In(loc)
	if finish.IsDateOnly() {
		item.End = item.End.AddDate(0, 0, 1)
	}
	item.AllDay = start.IsDateOnly() && finish.IsDateOnly()
	if !item.End.After(item.Start) {
		return nil, fmt.Errorf("finish %s is not after start %s", finish, start)
	}
	return item, nil
}

// Run creates the matched item in a calendar and returns it with the ID
// assigned by the provider.
func (r *Runner) Run(provider CalendarProvider, calendarID string, m *Match, description, repeat string) (*Item, error) {
	item, err := r.Item(m)
	if err != nil {
		return nil, err
	}
	item.Description = description
	if item.Recurrence, err = normalizeRecurrence(repeat); err != nil {
		return nil, err
	}

	id, err := provider.AddItem(calendarID, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

// normalizeRecurrence validates an RRULE value and returns it without the
// "RRULE:" prefix.
func normalizeRecurrence(rule string) (string, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return "", nil
	}
	rule = strings.TrimPrefix(rule, "RRULE:")
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return "", fmt.Errorf("invalid recurrence rule %q: %w", rule, err)
	}
	if _, err := rrule.NewRRule(*opt); err != nil {
		return "", fmt.Errorf("invalid recurrence rule %q: %w", rule, err)
	}
	return opt.RRuleString(), nil
}
