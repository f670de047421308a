package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type field int

const (
	fieldHour field = iota
	fieldMinute
	fieldSecond
	fieldMillisecond
	fieldMeridiem
	fieldDay
	fieldWeekdayShort
	fieldWeekdayLong
	fieldMonth
	fieldMonthShort
	fieldMonthLong
	fieldYear2
	fieldYear4
)

type token struct {
	text  string
	expr  string
	field field
}

// Longer tokens come first so that "hh" is never read as two "h".
var timeTokens = []token{
	{"zzz", `\d\d\d`, fieldMillisecond},
	{"hh", `\d\d`, fieldHour},
	{"mm", `\d\d`, fieldMinute},
	{"ss", `\d\d`, fieldSecond},
	{"AP", `AM|PM`, fieldMeridiem},
	{"ap", `am|pm`, fieldMeridiem},
	{"h", `\d\d?`, fieldHour},
	{"m", `\d\d?`, fieldMinute},
	{"s", `\d\d?`, fieldSecond},
	{"z", `\d\d?\d?`, fieldMillisecond},
}

var dateTokens = []token{
	{"dddd", `\w+`, fieldWeekdayLong},
	{"MMMM", `\w+`, fieldMonthLong},
	{"yyyy", `\d\d\d\d`, fieldYear4},
	{"ddd", `Mon|Tue|Wed|Thu|Fri|Sat|Sun`, fieldWeekdayShort},
	{"MMM", `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`, fieldMonthShort},
	{"dd", `\d\d`, fieldDay},
	{"MM", `\d\d`, fieldMonth},
	{"yy", `\d\d`, fieldYear2},
	{"d", `\d\d?`, fieldDay},
	{"M", `\d\d?`, fieldMonth},
}

var (
	weekdayShort = map[string]time.Weekday{}
	weekdayLong  = map[string]time.Weekday{}
	monthShort   = map[string]time.Month{}
	monthLong    = map[string]time.Month{}
)

func init() {
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdayShort[d.String()[:3]] = d
		weekdayLong[strings.ToLower(d.String())] = d
	}
	for m := time.January; m <= time.December; m++ {
		monthShort[m.String()[:3]] = m
		monthLong[strings.ToLower(m.String())] = m
	}
}

var (
	invalidClock = Clock{Hour: -1}
	invalidDate  = Date{Year: -1}
)

// Format is a compiled date or time pattern template such as "d.M.yyyy"
// or "h:mm". It recognises literals at the start of a text and decodes
// them back into a Date or Clock.
type Format struct {
	template string
	prefix   *regexp.Regexp
	exact    *regexp.Regexp
	fields   []field
}

// CompileTimeFormat compiles a time of day template. Known placeholders
// are h, hh, m, mm, s, ss, z, zzz, AP and ap; anything else is literal.
func CompileTimeFormat(template string) *Format {
	return compile(template, timeTokens)
}

// CompileDateFormat compiles a calendar date template. Known placeholders
// are d, dd, ddd, dddd, M, MM, MMM, MMMM, yy and yyyy; anything else is
// literal.
func CompileDateFormat(template string) *Format {
	return compile(template, dateTokens)
}

func compile(template string, tokens []token) *Format {
	var (
		body    strings.Builder
		literal strings.Builder
		fields  []field
	)
	flush := func() {
		if literal.Len() > 0 {
			body.WriteString(regexp.QuoteMeta(literal.String()))
			literal.Reset()
		}
	}
	for i := 0; i < len(template); {
		tok, ok := tokenAt(template[i:], tokens)
		if !ok {
			literal.WriteByte(template[i])
			i++
			continue
		}
		flush()
		body.WriteString("(" + tok.expr + ")")
		fields = append(fields, tok.field)
		i += len(tok.text)
	}
	flush()
	expr := body.String()
	return &Format{
		template: template,
		prefix:   regexp.MustCompile(`^(?:` + expr + `)`),
		exact:    regexp.MustCompile(`^(?:` + expr + `)$`),
		fields:   fields,
	}
}

func tokenAt(s string, tokens []token) (token, bool) {
	for _, tok := range tokens {
		if strings.HasPrefix(s, tok.text) {
			return tok, true
		}
	}
	return token{}, false
}

func (f *Format) Template() string {
	return f.template
}

// Expr returns the regular expression the template compiled to.
func (f *Format) Expr() string {
	return f.prefix.String()
}

// Match reports whether a literal of this format starts text, and how many
// bytes it spans.
func (f *Format) Match(text string) (int, bool) {
	loc := f.prefix.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

func (f *Format) submatches(literal string) ([]string, bool) {
	m := f.exact.FindStringSubmatch(literal)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// DecodeTime decodes a literal matched by a time format. Missing fields are
// zero. The result is invalid when the literal does not fit the template or
// a field is out of range.
func (f *Format) DecodeTime(literal string) Clock {
	values, ok := f.submatches(literal)
	if !ok {
		return invalidClock
	}
	var (
		c        Clock
		meridiem string
	)
	for i, v := range values {
		switch f.fields[i] {
		case fieldHour:
			c.Hour = atoi(v)
		case fieldMinute:
			c.Minute = atoi(v)
		case fieldSecond:
			c.Second = atoi(v)
		case fieldMillisecond:
			c.Nanosecond = atoi(v) * int(time.Millisecond)
		case fieldMeridiem:
			meridiem = strings.ToLower(v)
		}
	}
	if meridiem != "" {
		if c.Hour < 1 || c.Hour > 12 {
			return invalidClock
		}
		c.Hour %= 12
		if meridiem == "pm" {
			c.Hour += 12
		}
	}
	if !c.IsValid() {
		return invalidClock
	}
	return c
}

// DecodeDate decodes a literal matched by a date format. A missing year is
// taken from ref, a missing month or day is 1. Two digit years follow the
// time package: 69-99 are 19xx, 00-68 are 20xx. A weekday name must fall on
// the decoded date, otherwise the date is invalid.
func (f *Format) DecodeDate(literal string, ref Date) Date {
	values, ok := f.submatches(literal)
	if !ok {
		return invalidDate
	}
	d := Date{Year: ref.Year, Month: time.January, Day: 1}
	weekday := time.Weekday(-1)
	for i, v := range values {
		switch f.fields[i] {
		case fieldDay:
			d.Day = atoi(v)
		case fieldMonth:
			d.Month = time.Month(atoi(v))
		case fieldMonthShort:
			d.Month = monthShort[v]
		case fieldMonthLong:
			m, ok := monthLong[strings.ToLower(v)]
			if !ok {
				return invalidDate
			}
			d.Month = m
		case fieldWeekdayShort:
			wd, ok := weekdayShort[v]
			if !ok {
				return invalidDate
			}
			weekday = wd
		case fieldWeekdayLong:
			wd, ok := weekdayLong[strings.ToLower(v)]
			if !ok {
				return invalidDate
			}
			weekday = wd
		case fieldYear2:
			y := atoi(v)
			if y >= 69 {
				d.Year = 1900 + y
			} else {
				d.Year = 2000 + y
			}
		case fieldYear4:
			d.Year = atoi(v)
		}
	}
	if !d.IsValid() {
		return invalidDate
	}
	if weekday >= 0 && d.Weekday() != weekday {
		return invalidDate
	}
	return d
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// FormatMap holds compiled formats keyed by template, in registration
// order. Registration order is the order literals are tried in.
type FormatMap struct {
	order      []*Format
	byTemplate map[string]*Format
}

// add registers f unless its template is already known.
func (m *FormatMap) add(f *Format) bool {
	if m.byTemplate == nil {
		m.byTemplate = make(map[string]*Format)
	}
	if _, ok := m.byTemplate[f.template]; ok {
		return false
	}
	m.byTemplate[f.template] = f
	m.order = append(m.order, f)
	return true
}

func (m *FormatMap) Has(template string) bool {
	_, ok := m.byTemplate[template]
	return ok
}

func (m *FormatMap) Len() int {
	return len(m.order)
}

// Templates returns the registered templates in scan order.
func (m *FormatMap) Templates() []string {
	templates := make([]string, 0, len(m.order))
	for _, f := range m.order {
		templates = append(templates, f.template)
	}
	return templates
}

// match returns the first format matching a non-empty prefix of text.
func (m *FormatMap) match(text string) (*Format, int, bool) {
	for _, f := range m.order {
		if n, ok := f.Match(text); ok && n > 0 {
			return f, n, true
		}
	}
	return nil, 0, false
}
