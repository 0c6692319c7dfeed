package model

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Civil is a wall-clock date and time with no location attached.
type Civil struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// In anchors the civil value in loc.
func (c Civil) In(loc *time.Location) time.Time {
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, 0, 0, loc)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Civil, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Civil{}, false
	}
	return Civil{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

// ParseClock parses HH:MM (seconds, if present, are ignored).
func ParseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// Due returns the item's naive due date/time. A missing or unparseable time
// means midnight; an unparseable date means no due date.
func (it *Item) Due() (Civil, bool) {
	c, ok := ParseDate(it.DueDate)
	if !ok {
		return Civil{}, false
	}
	if h, m, ok := ParseClock(it.DueTime); ok {
		c.Hour, c.Minute = h, m
	}
	return c, true
}
