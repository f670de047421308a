// Package datetime turns short phrases such as "tomorrow 14:30",
// "in 3 days" or "from today to in 2 weeks" into calendar values.
//
// The grammar is small and closed: the keywords now, today, tomorrow and
// yesterday, relative offsets of the form "in <n> <unit>", and literal
// dates and times in registered formats. Phrases are read left to right;
// "from" and "to" select which side of the range the following elements
// apply to. Unrecognised trailing text is ignored.
package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Keywords is the vocabulary recognised by a Parser.
type Keywords struct {
	Now       string `toml:"now"`
	Today     string `toml:"today"`
	Tomorrow  string `toml:"tomorrow"`
	Yesterday string `toml:"yesterday"`
	From      string `toml:"from"`
	To        string `toml:"to"`
}

// DefaultKeywords returns the English vocabulary.
func DefaultKeywords() Keywords {
	return Keywords{
		Now:       "now",
		Today:     "today",
		Tomorrow:  "tomorrow",
		Yesterday: "yesterday",
		From:      "from",
		To:        "to",
	}
}

// withDefaults fills empty words from the English vocabulary.
func (k Keywords) withDefaults() Keywords {
	def := DefaultKeywords()
	return Keywords{
		Now:       orDefault(k.Now, def.Now),
		Today:     orDefault(k.Today, def.Today),
		Tomorrow:  orDefault(k.Tomorrow, def.Tomorrow),
		Yesterday: orDefault(k.Yesterday, def.Yesterday),
		From:      orDefault(k.From, def.From),
		To:        orDefault(k.To, def.To),
	}
}

func orDefault(word, def string) string {
	if word = strings.TrimSpace(word); word == "" {
		return def
	}
	return word
}

const (
	DefaultTimeFormat = "h:mm"
	DefaultDateFormat = "d.M.yyyy"
)

type unit int

const (
	unitMinutes unit = iota
	unitHours
	unitDays
	unitWeeks
	unitMonths
	unitYears
)

type offsetRule struct {
	re   *regexp.Regexp
	unit unit
}

func offsetRules(from string) []offsetRule {
	anchor := `(?:(?:after|` + regexp.QuoteMeta(from) + `)\s+)?`
	names := []string{"minutes", "hours", "days", "weeks", "months", "years"}
	rules := make([]offsetRule, len(names))
	for i, name := range names {
		// the plural "s" is optional so that "in 1 day" reads naturally
		singular := strings.TrimSuffix(name, "s")
		rules[i] = offsetRule{
			re:   regexp.MustCompile(`^in\s*([+-]?\d+)\s*` + singular + `s?\s*` + anchor),
			unit: unit(i),
		}
	}
	return rules
}

// Parser reads phrases into Ranges. Formats must only be registered
// before the parser is shared; parsing itself does not modify it.
type Parser struct {
	keywords    Keywords
	from, to    string
	offsets     []offsetRule
	timeFormats FormatMap
	dateFormats FormatMap
	loc         *time.Location
	now         func() time.Time
}

type Option func(*Parser)

// WithKeywords replaces the vocabulary. Empty words keep their English
// default.
func WithKeywords(k Keywords) Option {
	return func(p *Parser) {
		p.keywords = k.withDefaults()
	}
}

// WithLocation sets the location "now" and "today" are taken in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

func WithTimeFormats(templates ...string) Option {
	return func(p *Parser) {
		for _, t := range templates {
			p.AddTimeFormat(t)
		}
	}
}

func WithDateFormats(templates ...string) Option {
	return func(p *Parser) {
		for _, t := range templates {
			p.AddDateFormat(t)
		}
	}
}

// NewParser returns a parser knowing the "h:mm" time format and the
// "d.M.yyyy" date format, followed by any formats added through options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		keywords: DefaultKeywords(),
		loc:      time.Local,
		now:      time.Now,
	}
	p.AddTimeFormat(DefaultTimeFormat)
	p.AddDateFormat(DefaultDateFormat)
	for _, opt := range opts {
		opt(p)
	}
	p.from = p.keywords.From + " "
	p.to = p.keywords.To + " "
	p.offsets = offsetRules(p.keywords.From)
	return p
}

// AddTimeFormat registers a time of day template. Templates already known
// are ignored; the rest are tried in registration order.
func (p *Parser) AddTimeFormat(template string) {
	if template == "" || p.timeFormats.Has(template) {
		return
	}
	p.timeFormats.add(CompileTimeFormat(template))
}

// AddDateFormat registers a calendar date template, like AddTimeFormat.
func (p *Parser) AddDateFormat(template string) {
	if template == "" || p.dateFormats.Has(template) {
		return
	}
	p.dateFormats.add(CompileDateFormat(template))
}

func (p *Parser) TimeFormats() []string { return p.timeFormats.Templates() }

func (p *Parser) DateFormats() []string { return p.dateFormats.Templates() }

func (p *Parser) Keywords() Keywords { return p.keywords }

func (p *Parser) Location() *time.Location { return p.loc }

// Now returns the current time in the parser's location.
func (p *Parser) Now() time.Time {
	return p.now().In(p.loc)
}

// Parse returns the start of the range described by s.
func (p *Parser) Parse(s string) Value {
	return p.ParseRange(s).Start
}

// ParseRange reads s into a range. Elements apply to both sides until a
// "from" or "to" connector selects one. Parsing stops at the first text
// that is not understood.
func (p *Parser) ParseRange(s string) Range {
	var (
		r         Range
		now       = p.Now()
		remaining = strings.TrimSpace(s)
		elems     = Both
	)
	for remaining != "" {
		switch {
		case strings.HasPrefix(remaining, p.from):
			elems = Start
			remaining = strings.TrimSpace(remaining[len(p.from):])
		case strings.HasPrefix(remaining, p.to):
			elems = Finish
			remaining = strings.TrimSpace(remaining[len(p.to):])
		default:
			remaining = p.parseElement(remaining, &r, elems, now, Date{}, nil)
		}
	}
	return r
}

func (p *Parser) startsConnector(s string) bool {
	return strings.HasPrefix(s, p.from) || strings.HasPrefix(s, p.to)
}

// parseElement consumes one element from the front of s, applies it to the
// selected sides of r and returns what is left. When nothing is
// recognised the defaults are applied and the rest of s is dropped.
func (p *Parser) parseElement(s string, r *Range, elems Elements, now time.Time, defDate Date, defTime *Clock) string {
	today := DateOf(now)

	switch {
	case strings.HasPrefix(s, p.keywords.Now):
		clock := ClockOf(now)
		r.SetDate(today, elems)
		r.SetTime(&clock, elems, today)
		return strings.TrimSpace(s[len(p.keywords.Now):])
	case strings.HasPrefix(s, p.keywords.Today):
		r.SetDate(today, elems)
		return strings.TrimSpace(s[len(p.keywords.Today):])
	case strings.HasPrefix(s, p.keywords.Tomorrow):
		r.SetDate(today.AddDays(1), elems)
		return strings.TrimSpace(s[len(p.keywords.Tomorrow):])
	case strings.HasPrefix(s, p.keywords.Yesterday):
		r.SetDate(today.AddDays(-1), elems)
		return strings.TrimSpace(s[len(p.keywords.Yesterday):])
	}

	for _, rule := range p.offsets {
		m := rule.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// too many digits; leave it to the formats and the fallback
			break
		}
		rest := strings.TrimSpace(s[len(m[0]):])

		// The anchor is resolved first so the delta applies to it.
		anchorDate, anchorTime := today, (*Clock)(nil)
		if rule.unit == unitMinutes || rule.unit == unitHours {
			clock := ClockOf(now)
			anchorDate, anchorTime = Date{}, &clock
		}
		res := rest
		if p.startsConnector(rest) {
			// "in 2 days to in 5 days": the offset has no anchor of its own
			r.SetDate(anchorDate, elems)
			r.SetTime(anchorTime, elems, today)
		} else {
			res = p.parseElement(rest, r, elems, now, anchorDate, anchorTime)
		}

		if n > maxSpanSecs || n < -maxSpanSecs {
			// no unit can move a date that far; keep n*3600 from wrapping
			r.invalidate(elems)
			return res
		}
		switch rule.unit {
		case unitMinutes:
			r.AddSecs(n*60, elems)
		case unitHours:
			r.AddSecs(n*3600, elems)
		case unitDays:
			r.AddDays(n, elems)
		case unitWeeks:
			r.AddDays(n*7, elems)
		case unitMonths:
			r.AddMonths(n, elems)
		case unitYears:
			r.AddYears(n, elems)
		}
		return res
	}

	if f, n, ok := p.timeFormats.match(s); ok {
		clock := f.DecodeTime(s[:n])
		r.SetTime(&clock, elems, today)
		return strings.TrimSpace(s[n:])
	}

	if f, n, ok := p.dateFormats.match(s); ok {
		r.SetDate(f.DecodeDate(s[:n], today), elems)
		return strings.TrimSpace(s[n:])
	}

	r.SetDate(defDate, elems)
	r.SetTime(defTime, elems, today)
	return ""
}
