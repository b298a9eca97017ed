package ledger

import "time"

// =============================================================================
// DAY & WINDOW HELPERS - Shared by the reporting engine and debt due dates
// =============================================================================
//
// Business dates enter the system as bare YYYY-MM-DD values and are stored
// at UTC midnight. Every helper here therefore works on the UTC calendar,
// regardless of the clock's location - otherwise a server west of UTC would
// put "today" before the stored dates and drop them from today's metrics.

// StartOfDay truncates t to UTC midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the first instant of the next day. "Today" filters use
// the half-open range [StartOfDay, EndOfDay).
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.YearDay() == bu.YearDay()
}

// DayKey formats t as a calendar-day key for grouping.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Window is an inclusive calendar range used by periodic reports.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the window covering the last n days up to now,
// bounded to whole days: [startOfDay(now-n), endOfDay(now)).
func TrailingWindow(now time.Time, days int) Window {
	return Window{
		Start: StartOfDay(now.AddDate(0, 0, -days)),
		End:   EndOfDay(now),
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns every calendar day in the window, oldest first. Dense: no
// gaps, so daily series report 0 for quiet days.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
