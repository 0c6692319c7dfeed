package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/lazypower/orbit/internal/model"
)

// Drift is how far a contact is past its catch-up interval. Days is positive
// when overdue.
type Drift struct {
	Days        int       `json:"days"`
	Freq        int       `json:"freq"`
	LastContact time.Time `json:"lastContact"`
}

// Overdue reports whether the contact needs reaching out to.
func (d Drift) Overdue() bool { return d.Days > 0 }

// Status is the label shown on an overdue contact, or "" when on schedule.
func (d Drift) Status() string {
	if !d.Overdue() {
		return ""
	}
	return fmt.Sprintf("Drifting (%dd)", d.Days)
}

// DriftDays scores a contact against its catch-up frequency. ok is false when
// the contact has no frequency; such contacts never drift.
//
// The last contact is the latest dated history detail, else the contact's
// creation time, else today.
func DriftDays(contact *model.Item, children []*model.Item, now time.Time) (d Drift, ok bool) {
	freq, ok := contact.CatchUpFreq()
	if !ok {
		return Drift{}, false
	}
	today := Midnight(now)
	last, found := lastContact(children, today.Location())
	if !found {
		if contact.CreatedAt != 0 {
			last = time.UnixMilli(contact.CreatedAt).In(today.Location())
		} else {
			last = today
		}
	}
	days := int(math.Ceil(math.Abs(civilDays(last, today))))
	return Drift{Days: days - freq, Freq: freq, LastContact: last}, true
}

func lastContact(children []*model.Item, loc *time.Location) (time.Time, bool) {
	var last time.Time
	found := false
	for _, c := range children {
		if c.Type != model.TypeHistory {
			continue
		}
		date, ok := model.ParseDate(c.DueDate)
		if !ok {
			continue
		}
		t := date.In(loc)
		if !found || t.After(last) {
			last, found = t, true
		}
	}
	return last, found
}

// StatusOf is the drift label for any item; only contacts with a policy can
// be drifting.
func StatusOf(it *model.Item, children []*model.Item, now time.Time) string {
	d, ok := DriftDays(it, children, now)
	if !ok {
		return ""
	}
	return d.Status()
}
