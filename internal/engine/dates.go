package engine

import (
	"time"

	"github.com/lazypower/orbit/internal/model"
)

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EffectiveDate returns when a dated item occurs relative to now. Non-recurring
// items occur on their due date, past or not. Recurring items occur on the
// next yearly anniversary that is not before today; Feb 29 falls on Feb 28 in
// common years. Items without a due date have no effective date.
func EffectiveDate(it *model.Item, now time.Time) (time.Time, bool) {
	due, ok := it.Due()
	if !ok {
		return time.Time{}, false
	}
	loc := now.Location()
	if !it.Recurring() {
		return due.In(loc), true
	}

	today := Midnight(now)
	next := anniversary(due, today.Year(), loc)
	if next.Before(today) {
		next = anniversary(due, today.Year()+1, loc)
	}
	return next, true
}

func anniversary(c model.Civil, year int, loc *time.Location) time.Time {
	c.Year = year
	if c.Month == time.February && c.Day == 29 && !isLeap(year) {
		c.Day = 28
	}
	return c.In(loc)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// civilDays returns the number of calendar days from a to b, counting
// wall-clock time so DST transitions don't shorten or stretch a day. The
// result is fractional when the times of day differ.
func civilDays(a, b time.Time) float64 {
	return wall(b).Sub(wall(a)).Hours() / 24
}

func wall(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
