package datetime

import (
	"fmt"
	"time"
)

const (
	// MaxYear is the last year a Date can hold; four digit year formats
	// cannot express more.
	MaxYear = 9999

	maxSpanDays = MaxYear * 366
	maxSpanSecs = maxSpanDays * 86400
)

// Date is a calendar date without a time of day. The zero Date is null:
// it means "no date" and is ignored by the range mutators.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// IsValid reports whether d names an existing day.
func (d Date) IsValid() bool {
	if d.Year < 1 || d.Year > MaxYear || d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return d.Day <= daysIn(d.Year, d.Month)
}

// AddDays moves d by n days. Shifts beyond the supported years give an
// invalid date.
func (d Date) AddDays(n int) Date {
	if n > maxSpanDays || n < -maxSpanDays {
		return invalidDate
	}
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// AddMonths moves d by n calendar months. The day is clamped to the last
// day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func (d Date) AddMonths(n int) Date {
	if n > MaxYear*12 || n < -MaxYear*12 {
		return invalidDate
	}
	total := d.Year*12 + int(d.Month-1) + n
	y, r := total/12, total%12
	if r < 0 {
		y, r = y-1, r+12
	}
	m := time.Month(r + 1)
	day := d.Day
	if last := daysIn(y, m); day > last {
		day = last
	}
	return Date{Year: y, Month: m, Day: day}
}

func (d Date) AddYears(n int) Date {
	if n > MaxYear || n < -MaxYear {
		return invalidDate
	}
	return d.AddMonths(n * 12)
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Clock is a time of day.
type Clock struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

func (c Clock) IsValid() bool {
	return c.Hour >= 0 && c.Hour < 24 &&
		c.Minute >= 0 && c.Minute < 60 &&
		c.Second >= 0 && c.Second < 60 &&
		c.Nanosecond >= 0 && c.Nanosecond < int(time.Second)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Kind tells what a Value holds.
type Kind int

const (
	Unset Kind = iota
	DateOnly
	DateTime
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Unset:
		return "unset"
	case DateOnly:
		return "date"
	case DateTime:
		return "date+time"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one side of a Range: unset, a date, a date with a time of
// day, or the invalid result of decoding an out of range literal.
// Values are plain local calendar values; In attaches a location.
type Value struct {
	kind  Kind
	date  Date
	clock Clock
}

// DateValue returns a date-only value, or an invalid one if d is not a
// real day.
func DateValue(d Date) Value {
	if !d.IsValid() {
		return Value{kind: Invalid, date: d}
	}
	return Value{kind: DateOnly, date: d}
}

// DateTimeValue returns a date+time value.
func DateTimeValue(d Date, c Clock) Value {
	if !d.IsValid() || !c.IsValid() {
		return Value{kind: Invalid, date: d, clock: c}
	}
	return Value{kind: DateTime, date: d, clock: c}
}

// ValueOf returns the date+time value of t in t's location.
func ValueOf(t time.Time) Value {
	return DateTimeValue(DateOf(t), ClockOf(t))
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsSet() bool { return v.kind != Unset }

// IsValid reports whether v holds a usable date or date+time.
func (v Value) IsValid() bool { return v.kind == DateOnly || v.kind == DateTime }

func (v Value) IsDateOnly() bool { return v.kind == DateOnly }

func (v Value) Date() Date { return v.date }

// Clock returns the time of day; it is midnight for date-only values.
func (v Value) Clock() Clock {
	if v.kind != DateTime {
		return Clock{}
	}
	return v.clock
}

// Equal reports whether v and o hold the same calendar value with the
// same date-only-ness.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Unset:
		return true
	case DateOnly:
		return v.date == o.date
	}
	return v.date == o.date && v.clock == o.clock
}

// In returns v as a time.Time in loc. Date-only values map to midnight.
// The zero time is returned for unset and invalid values.
func (v Value) In(loc *time.Location) time.Time {
	if !v.IsValid() {
		return time.Time{}
	}
	c := v.Clock()
	return time.Date(v.date.Year, v.date.Month, v.date.Day, c.Hour, c.Minute, c.Second, c.Nanosecond, loc)
}

func (v Value) String() string {
	switch v.kind {
	case DateOnly:
		return v.date.String()
	case DateTime:
		return v.date.String() + " " + v.clock.String()
	}
	return v.kind.String()
}

func (v Value) withDate(d Date) Value {
	switch v.kind {
	case DateTime:
		return DateTimeValue(d, v.clock)
	default:
		return DateValue(d)
	}
}

func (v Value) addSecs(secs int) Value {
	switch v.kind {
	case DateOnly:
		// whole days only, the value has no time of day to carry the rest
		return DateValue(v.date.AddDays(secs / 86400))
	case DateTime:
		if secs > maxSpanSecs || secs < -maxSpanSecs {
			return v.invalid()
		}
		// time.Duration overflows after ~292 years, normalise through time.Date
		c := v.clock
		t := time.Date(v.date.Year, v.date.Month, v.date.Day+secs/86400,
			c.Hour, c.Minute, c.Second+secs%86400, c.Nanosecond, time.UTC)
		return DateTimeValue(DateOf(t), ClockOf(t))
	}
	return v
}

func (v Value) invalid() Value {
	return Value{kind: Invalid, date: v.date, clock: v.clock}
}

func (v Value) mapDate(f func(Date) Date) Value {
	if !v.IsValid() {
		return v
	}
	return v.withDate(f(v.date))
}
