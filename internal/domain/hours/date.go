package hours

import (
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day with no zone attached.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Display formats the day the way leaderboards print it.
func (d Date) Display() string {
	return d.t.Format("02/01/2006")
}

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) IsZero() bool       { return d.t.IsZero() }

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Window is an inclusive range of days.
type Window struct {
	Start Date
	End   Date
}

func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// WeekOf returns the Monday to Sunday week containing d.
func WeekOf(d Date) Window {
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDays(-offset)
	return Window{Start: monday, End: monday.AddDays(6)}
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Window {
	first := NewDate(d.t.Year(), d.t.Month(), 1)
	return Window{Start: first, End: Date{t: first.t.AddDate(0, 1, -1)}}
}

// LastNDays returns the n days ending on today. n below 1 is treated as 1.
func LastNDays(today Date, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{Start: today.AddDays(-(n - 1)), End: today}
}
