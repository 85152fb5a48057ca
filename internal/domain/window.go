package domain

import "time"

// Window is a closed date interval over which transactions are aggregated
// for one evaluation. Both bounds are inclusive and compared at calendar-day
// granularity in UTC.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a validated window from its bounds.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: dateOf(start), End: dateOf(end)}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// MonthWindow returns the window covering a full calendar month.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Window{Start: start, End: end}
}

// CurrentMonthWindow returns the window for the calendar month containing now.
func CurrentMonthWindow(now time.Time) Window {
	return MonthWindow(now.UTC().Year(), now.UTC().Month())
}

// Validate reports whether the window is well-formed.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if dateOf(w.End).Before(dateOf(w.Start)) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains reports whether the given calendar date falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(dateOf(w.Start)) && !d.After(dateOf(w.End))
}

// Days returns the number of calendar days the window spans, inclusive.
func (w Window) Days() int {
	return int(dateOf(w.End).Sub(dateOf(w.Start)).Hours()/24) + 1
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
