// Package calendar derives the HR calendar views: the visible week, the department
// filter and the attendance grid. Everything here is a pure function of its inputs
// except Loader, which fetches one week of team schedules.
package calendar

import (
	"errors"
	"time"
)

const (
	DateLayout = "2006-01-02"

	monthsBack    = 2
	monthsForward = 3
	daysInWeek    = 7
)

var (
	ErrInvalidDate = errors.New("invalid date, expected format YYYY-MM-DD")
	ErrOutOfRange  = errors.New("selected date is outside the allowed range")
)

// DateOf truncates t to its calendar date in t's own location. The result is midnight UTC
// so day arithmetic never crosses a DST change.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddMonths moves t by n months, clamping the day to the end of the target month
// (31 Aug - 2 months is 30 Jun, not 1 Jul).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// Range is an inclusive date range.
type Range struct {
	Min time.Time
	Max time.Time
}

// AllowedRange is [today - 2 months, today + 3 months].
func AllowedRange(today time.Time) Range {
	today = DateOf(today)
	return Range{
		Min: AddMonths(today, -monthsBack),
		Max: AddMonths(today, monthsForward),
	}
}

func (r Range) Contains(d time.Time) bool {
	return !d.Before(r.Min) && !d.After(r.Max)
}

// IntersectsWeekOf reports whether any date of d's week lies inside the range.
func (r Range) IntersectsWeekOf(d time.Time) bool {
	for _, day := range WeekOf(d) {
		if r.Contains(day) {
			return true
		}
	}
	return false
}

// WeekStart returns the Sunday starting d's week.
func WeekStart(d time.Time) time.Time {
	d = DateOf(d)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func WeekOf(d time.Time) [daysInWeek]time.Time {
	var week [daysInWeek]time.Time
	start := WeekStart(d)
	for i := range week {
		week[i] = start.AddDate(0, 0, i)
	}
	return week
}

// Window is the calendar's visible week for an anchor date.
type Window struct {
	Anchor time.Time
	Today  time.Time
	Range  Range
	Week   [daysInWeek]time.Time
	// Dates are the days of Week inside Range and not before Anchor. May be empty.
	Dates []time.Time
}

func NewWindow(anchor time.Time, today time.Time) Window {
	anchor = DateOf(anchor)
	today = DateOf(today)
	w := Window{
		Anchor: anchor,
		Today:  today,
		Range:  AllowedRange(today),
		Week:   WeekOf(anchor),
	}
	for _, day := range w.Week {
		if day.Before(anchor) || !w.Range.Contains(day) {
			continue
		}
		w.Dates = append(w.Dates, day)
	}
	return w
}

func (w Window) Empty() bool {
	return len(w.Dates) == 0
}

func (w Window) DateStrings() []string {
	dates := make([]string, 0, len(w.Dates))
	for _, d := range w.Dates {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

func (w Window) WeekStart() time.Time {
	return w.Week[0]
}

func (w Window) WeekEnd() time.Time {
	return w.Week[daysInWeek-1]
}

func (w Window) Prev() time.Time {
	return w.Anchor.AddDate(0, 0, -daysInWeek)
}

func (w Window) Next() time.Time {
	return w.Anchor.AddDate(0, 0, daysInWeek)
}

// CanGoBack is false when the previous week lies entirely outside the allowed range.
func (w Window) CanGoBack() bool {
	return w.Range.IntersectsWeekOf(w.Prev())
}

// CanGoForward is false when the next week lies entirely outside the allowed range.
func (w Window) CanGoForward() bool {
	return w.Range.IntersectsWeekOf(w.Next())
}

// ResolveAnchor turns a raw date parameter into an anchor. An empty value means today.
// A value that does not parse, or whose week lies entirely outside the allowed range,
// falls back to today and returns the reason.
func ResolveAnchor(raw string, today time.Time) (time.Time, error) {
	today = DateOf(today)
	if raw == "" {
		return today, nil
	}
	anchor, err := ParseDate(raw)
	if err != nil {
		return today, err
	}
	if !AllowedRange(today).IntersectsWeekOf(anchor) {
		return today, ErrOutOfRange
	}
	return anchor, nil
}
