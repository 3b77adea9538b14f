package window

import (
	"time"

	"NewsDesk/internal/domain"
)

const boundaryHour = 10

// Window bounds the publication interval articles must fall into, inclusive
// on both ends.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Compute returns the collection window for a run at the given time:
// yesterday 10:00 through today 10:00 in now's location. On Mondays the
// start moves back to Friday 10:00 to cover the weekend gap.
func Compute(now time.Time) (Window, error) {
	if now.IsZero() {
		return Window{}, &domain.ConfigError{Field: "window", Message: "zero reference time"}
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), boundaryHour, 0, 0, 0, now.Location())

	lookback := 1
	if now.Weekday() == time.Monday {
		lookback = 3
	}

	return Window{Start: end.AddDate(0, 0, -lookback), End: end}, nil
}
