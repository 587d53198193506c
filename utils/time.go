package utils

import (
	"fmt"
	"time"
)

// ClockMinutes parses an "HH:MM" wall-clock string into minutes since
// midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AtMinutes anchors a minutes-since-midnight offset onto a calendar date in
// loc. Going through time.Date keeps the arithmetic wall-clock based, so a
// DST shift on that date cannot move slots off their configured times.
func AtMinutes(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, loc)
}

// StartOfDay returns local midnight for t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
