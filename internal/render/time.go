package render

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Ago describes t relative to now, e.g. "3 weeks ago".
func Ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// CreatedAgo describes a unix-millisecond creation time; 0 means unknown.
func CreatedAgo(millis int64, now time.Time) string {
	if millis == 0 {
		return "unknown"
	}
	return Ago(time.UnixMilli(millis), now)
}

// ShortDate formats a preview date like "Mar 5".
func ShortDate(t time.Time) string {
	return t.Format("Jan 2")
}

// When formats an effective date, with the time of day when it isn't
// midnight.
func When(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("Mon Jan 2 2006")
	}
	return t.Format("Mon Jan 2 2006 15:04")
}
