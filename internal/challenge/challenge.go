// Package challenge holds the fixed challenge period and the date pickers
// derived from it. The window bounds are the contract with the mobile and web
// clients and must not drift.
package challenge

import (
	"fmt"
	"time"
)

var (
	// WindowStart and WindowEnd bound the challenge period, both inclusive.
	WindowStart = time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)
)

type Window struct {
	Start time.Time
	End   time.Time
}

// CurrentWindow returns the active challenge period.
func CurrentWindow() Window {
	return Window{Start: WindowStart, End: WindowEnd}
}

// Contains reports whether the calendar day of t falls inside the window.
// Only the date part matters; time-of-day and zone are discarded.
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(w.Start)) && !d.After(Day(w.End))
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// DateOption is one selectable date for the admin pickers: a stable ISO
// identity plus a human label.
type DateOption struct {
	ISO   string `json:"iso"`
	Label string `json:"label"`
}

// IsSessionDay reports whether attendance can be taken on this weekday.
// Sessions run Monday through Friday.
func IsSessionDay(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// IsWeighInDay reports whether weigh-ins happen on this weekday.
// Scales come out on Mondays and Fridays only.
func IsWeighInDay(d time.Weekday) bool {
	return d == time.Monday || d == time.Friday
}

// Dates enumerates every day in the window, inclusive of both ends, whose
// weekday satisfies include. Pure function of the window bounds.
func (w Window) Dates(include func(time.Weekday) bool) []DateOption {
	out := []DateOption{}
	for d := Day(w.Start); !d.After(Day(w.End)); d = d.AddDate(0, 0, 1) {
		if !include(d.Weekday()) {
			continue
		}
		out = append(out, DateOption{
			ISO:   d.Format("2006-01-02"),
			Label: d.Format("Mon, Jan 2"),
		})
	}
	return out
}

// AttendanceDates lists the Mon-Fri dates admins can take attendance on.
func (w Window) AttendanceDates() []DateOption {
	return w.Dates(IsSessionDay)
}

// WeighInDates lists the Mon/Fri dates admins can record weigh-ins on.
func (w Window) WeighInDates() []DateOption {
	return w.Dates(IsWeighInDay)
}
