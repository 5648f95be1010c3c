// Package time contains UTC calendar helpers
package time

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// StartOfDay truncates t to 00:00:00.000 UTC of its UTC calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay is 23:59:59.999 UTC of t's UTC calendar day
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// Yesterday is the start of the UTC day before t
func Yesterday(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -1)
}

// Window is an inclusive [Start, End] range
type Window struct {
	Start time.Time
	End   time.Time
}

// Today returns the UTC calendar day containing t
func Today(t time.Time) Window {
	return Window{Start: StartOfDay(t), End: EndOfDay(t)}
}

// Contains reports Start <= t <= End
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
