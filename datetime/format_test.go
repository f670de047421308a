package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTimeFormat_Expr(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"h:mm", `^(?:(\d\d?):(\d\d))`},
		{"hh:mm:ss", `^(?:(\d\d):(\d\d):(\d\d))`},
		{"h:m:s.zzz", `^(?:(\d\d?):(\d\d?):(\d\d?)\.(\d\d\d))`},
		{"h.mm z", `^(?:(\d\d?)\.(\d\d) (\d\d?\d?))`},
		{"h:mm AP", `^(?:(\d\d?):(\d\d) (AM|PM))`},
		{"h:mm ap", `^(?:(\d\d?):(\d\d) (am|pm))`},
		{"(h)", `^(?:\((\d\d?)\))`},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			f := CompileTimeFormat(tt.template)
			assert.Equal(t, tt.want, f.Expr())
			assert.Equal(t, tt.template, f.Template())
		})
	}
}

func TestCompileDateFormat_Expr(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"d.M.yyyy", `^(?:(\d\d?)\.(\d\d?)\.(\d\d\d\d))`},
		{"dd/MM/yy", `^(?:(\d\d)/(\d\d)/(\d\d))`},
		{"ddd d MMM", `^(?:(Mon|Tue|Wed|Thu|Fri|Sat|Sun) (\d\d?) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec))`},
		{"dddd MMMM", `^(?:(\w+) (\w+))`},
		{"yyyy+M", `^(?:(\d\d\d\d)\+(\d\d?))`},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileDateFormat(tt.template).Expr())
		})
	}
}

func TestFormat_Match(t *testing.T) {
	f := CompileTimeFormat("h:mm")

	n, ok := f.Match("9:30 tomorrow")
	require.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = f.Match("12:30")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = f.Match("at 9:30")
	assert.False(t, ok, "only prefixes match")

	_, ok = f.Match("9.30")
	assert.False(t, ok)

	// a bare "h" backtracks to one digit when two would starve "mm"
	f = CompileTimeFormat("hmm")
	n, ok = f.Match("930")
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, Clock{Hour: 9, Minute: 30}, f.DecodeTime("930"))
	assert.Equal(t, Clock{Hour: 12, Minute: 30}, f.DecodeTime("1230"))

	// metacharacters in the template are literals
	f = CompileDateFormat("d.M")
	_, ok = f.Match("3x4")
	assert.False(t, ok)
}

func TestFormat_TimeRoundTrip(t *testing.T) {
	tests := []struct {
		template string
		literal  string
		want     Clock
	}{
		{"h:mm", "9:05", Clock{Hour: 9, Minute: 5}},
		{"h:mm", "23:59", Clock{Hour: 23, Minute: 59}},
		{"hh:mm:ss", "08:07:06", Clock{Hour: 8, Minute: 7, Second: 6}},
		{"hh:mm:ss.zzz", "08:07:06.123", Clock{Hour: 8, Minute: 7, Second: 6, Nanosecond: 123000000}},
		{"h:m:s.z", "1:2:3.5", Clock{Hour: 1, Minute: 2, Second: 3, Nanosecond: 5000000}},
		{"h:mm ap", "9:05 pm", Clock{Hour: 21, Minute: 5}},
		{"h:mm ap", "12:00 am", Clock{Hour: 0}},
		{"h:mm ap", "12:15 pm", Clock{Hour: 12, Minute: 15}},
		{"h:mm AP", "7:45 AM", Clock{Hour: 7, Minute: 45}},
	}

	for _, tt := range tests {
		t.Run(tt.template+"/"+tt.literal, func(t *testing.T) {
			f := CompileTimeFormat(tt.template)
			n, ok := f.Match(tt.literal + " and more")
			require.True(t, ok)
			assert.Equal(t, len(tt.literal), n)

			got := f.DecodeTime(tt.literal)
			assert.True(t, got.IsValid())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_DateRoundTrip(t *testing.T) {
	ref := Date{Year: 2026, Month: time.October, Day: 19}

	tests := []struct {
		template string
		literal  string
		want     Date
	}{
		{"d.M.yyyy", "21.10.2009", Date{2009, time.October, 21}},
		{"d.M.yyyy", "1.2.2010", Date{2010, time.February, 1}},
		{"dd/MM/yy", "05/03/24", Date{2024, time.March, 5}},
		{"dd/MM/yy", "05/03/99", Date{1999, time.March, 5}},
		{"yyyy-MM-dd", "2009-10-21", Date{2009, time.October, 21}},
		{"ddd d MMM yyyy", "Tue 20 Oct 2026", Date{2026, time.October, 20}},
		{"dddd, MMMM d yyyy", "Tuesday, October 20 2026", Date{2026, time.October, 20}},
		{"d MMMM", "3 may", Date{2026, time.May, 3}},
		{"d.M.", "3.4.", Date{2026, time.April, 3}},
		{"MMM yyyy", "Feb 2028", Date{2028, time.February, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.template+"/"+tt.literal, func(t *testing.T) {
			f := CompileDateFormat(tt.template)
			n, ok := f.Match(tt.literal + " 9:00")
			require.True(t, ok)
			assert.Equal(t, len(tt.literal), n)

			got := f.DecodeDate(tt.literal, ref)
			assert.True(t, got.IsValid())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_DecodeInvalid(t *testing.T) {
	ref := Date{Year: 2026, Month: time.October, Day: 19}

	assert.False(t, CompileDateFormat("d.M.yyyy").DecodeDate("32.1.2009", ref).IsValid())
	assert.False(t, CompileDateFormat("d.M.yyyy").DecodeDate("1.13.2009", ref).IsValid())
	assert.False(t, CompileDateFormat("d.M.yyyy").DecodeDate("0.1.2009", ref).IsValid())
	assert.False(t, CompileDateFormat("dddd d").DecodeDate("Funday 3", ref).IsValid())
	assert.False(t, CompileDateFormat("ddd d MMM yyyy").DecodeDate("Mon 20 Oct 2026", ref).IsValid(), "20 Oct 2026 is a Tuesday")
	assert.False(t, CompileDateFormat("dddd, MMMM d yyyy").DecodeDate("Monday, October 20 2026", ref).IsValid())
	assert.True(t, CompileDateFormat("dddd d").DecodeDate("Saturday 24", ref).IsValid(), "24 Jan 2026 is a Saturday")
	assert.False(t, CompileDateFormat("dddd d").DecodeDate("Friday 24", ref).IsValid())
	assert.False(t, CompileDateFormat("d MMMM").DecodeDate("3 Smarch", ref).IsValid())
	assert.False(t, CompileDateFormat("d.M.yyyy").DecodeDate("not a date", ref).IsValid())

	assert.False(t, CompileTimeFormat("h:mm").DecodeTime("24:00").IsValid())
	assert.False(t, CompileTimeFormat("h:mm").DecodeTime("9:60").IsValid())
	assert.False(t, CompileTimeFormat("h:mm ap").DecodeTime("13:00 pm").IsValid())
	assert.False(t, CompileTimeFormat("h:mm ap").DecodeTime("0:30 am").IsValid())
}

func TestFormat_EmptyTemplate(t *testing.T) {
	f := CompileDateFormat("")
	n, ok := f.Match("anything")
	assert.True(t, ok)
	assert.Zero(t, n)

	var m FormatMap
	m.add(f)
	_, _, ok = m.match("anything")
	assert.False(t, ok, "empty matches never consume input")
}
