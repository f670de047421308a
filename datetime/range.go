package datetime

// Elements selects which side(s) of a Range a mutation touches.
type Elements int

const (
	Start Elements = 1 << iota
	Finish
	Both = Start | Finish
)

func (e Elements) String() string {
	switch e {
	case Start:
		return "start"
	case Finish:
		return "finish"
	case Both:
		return "both"
	}
	return "none"
}

// Range is the result of parsing a phrase. Each side is set
// independently; a range with equal sides is a point.
type Range struct {
	Start  Value
	Finish Value
}

// PointRange returns a range with both sides set to v.
func PointRange(v Value) Range {
	return Range{Start: v, Finish: v}
}

func (r Range) IsPoint() bool {
	return r.Start.Equal(r.Finish)
}

func (r *Range) each(elems Elements, f func(Value) Value) {
	if elems&Start != 0 {
		r.Start = f(r.Start)
	}
	if elems&Finish != 0 {
		r.Finish = f(r.Finish)
	}
}

// SetDate sets the date of the selected sides. A side holding a time of
// day keeps it; an unset side becomes date-only. A zero Date is ignored,
// an invalid one marks the sides invalid.
func (r *Range) SetDate(d Date, elems Elements) {
	if d.IsZero() {
		return
	}
	r.each(elems, func(v Value) Value {
		switch v.kind {
		case Invalid:
			return v
		case Unset:
			return DateValue(d)
		}
		return v.withDate(d)
	})
}

// SetTime sets the time of day of the selected sides, turning them into
// date+time values. Unset sides take today as their date. A nil clock is
// ignored, an invalid one marks the sides invalid.
func (r *Range) SetTime(c *Clock, elems Elements, today Date) {
	if c == nil {
		return
	}
	r.each(elems, func(v Value) Value {
		switch v.kind {
		case Invalid:
			return v
		case Unset:
			return DateTimeValue(today, *c)
		}
		return DateTimeValue(v.date, *c)
	})
}

// invalidate marks the selected sides invalid. Unset sides stay unset.
func (r *Range) invalidate(elems Elements) {
	r.each(elems, func(v Value) Value {
		if v.kind == Unset {
			return v
		}
		return v.invalid()
	})
}

// AddSecs, AddDays, AddMonths and AddYears shift the selected sides.
// Unset and invalid sides are left alone.
func (r *Range) AddSecs(secs int, elems Elements) {
	r.each(elems, func(v Value) Value { return v.addSecs(secs) })
}

func (r *Range) AddDays(days int, elems Elements) {
	r.each(elems, func(v Value) Value {
		return v.mapDate(func(d Date) Date { return d.AddDays(days) })
	})
}

func (r *Range) AddMonths(months int, elems Elements) {
	r.each(elems, func(v Value) Value {
		return v.mapDate(func(d Date) Date { return d.AddMonths(months) })
	})
}

func (r *Range) AddYears(years int, elems Elements) {
	r.each(elems, func(v Value) Value {
		return v.mapDate(func(d Date) Date { return d.AddYears(years) })
	})
}
