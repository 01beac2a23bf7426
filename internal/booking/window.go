package booking

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
	datetimeLayout = "2006-01-02 15:04"
)

// Window is a candidate reservation interval: a calendar date plus wall-clock
// start and end expressed in minutes since midnight. The interval is half-open,
// [Start, End).
type Window struct {
	Date  string
	Start int
	End   int
}

// ParseWindow builds a Window from wire-format fields (YYYY-MM-DD, HH:MM).
func ParseWindow(date, startTime, endTime string) (Window, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Window{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Date: date, Start: start, End: end}, nil
}

// Duration returns the window length in minutes.
func (w Window) Duration() int {
	return w.End - w.Start
}

// Overlaps reports whether two half-open intervals on the same date intersect.
func (w Window) Overlaps(other Window) bool {
	if w.Date != other.Date {
		return false
	}
	return w.Start < other.End && other.Start < w.End
}

// StartInstant returns the wall-clock moment the window begins in loc.
func (w Window) StartInstant(loc *time.Location) time.Time {
	t, _ := time.ParseInLocation(datetimeLayout, w.Date+" "+FormatClock(w.Start), loc)
	return t
}

// EndInstant returns the wall-clock moment the window ends in loc.
func (w Window) EndInstant(loc *time.Location) time.Time {
	t, _ := time.ParseInLocation(datetimeLayout, w.Date+" "+FormatClock(w.End), loc)
	return t
}

// ParseClock parses an HH:MM wall-clock value into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
