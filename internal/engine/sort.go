package engine

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
)

// SortMode selects how a view is ordered.
type SortMode string

const (
	SortManual   SortMode = "manual"
	SortUpcoming SortMode = "upcoming"
	SortDrift    SortMode = "drift"
)

// ParseSortMode parses a sort mode name; "" is manual.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortManual:
		return SortManual, nil
	case SortUpcoming, SortDrift:
		return SortMode(s), nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want manual, upcoming or drift)", s)
}

// window is the inclusive range of days counted as upcoming.
type window struct {
	start time.Time // today, midnight
	end   time.Time // midnight after the last day
}

func newWindow(now time.Time, days int) window {
	today := Midnight(now)
	return window{start: today, end: today.AddDate(0, 0, days+1)}
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// upcomingEvents returns a contact's active dated events whose effective
// date is inside w, earliest first.
func upcomingEvents(snap *records.Snapshot, contact model.ID, now time.Time, w window) []datedItem {
	var out []datedItem
	for _, ev := range datedEvents(snap, contact, now) {
		if w.contains(ev.at) {
			out = append(out, ev)
		}
	}
	return out
}

type datedItem struct {
	item *model.Item
	at   time.Time
}

// datedEvents returns a contact's active events that have a due date, in
// effective-date order.
func datedEvents(snap *records.Snapshot, contact model.ID, now time.Time) []datedItem {
	var out []datedItem
	for _, c := range snap.Children(contact) {
		if c.Type != model.TypeEvents || c.Completed {
			continue
		}
		if at, ok := EffectiveDate(c, now); ok {
			out = append(out, datedItem{item: c, at: at})
		}
	}
	slices.SortStableFunc(out, func(a, b datedItem) int { return a.at.Compare(b.at) })
	return out
}

// Sort orders filtered items. Contacts without an upcoming event are dropped
// in upcoming mode; details are never dropped. Drift only reorders contacts.
func Sort(snap *records.Snapshot, items []*model.Item, mode SortMode, contact *model.ID, now time.Time, upcomingDays int) []*model.Item {
	out := slices.Clone(items)
	switch mode {
	case SortUpcoming:
		if contact == nil {
			return sortContactsByNextEvent(snap, out, now, newWindow(now, upcomingDays))
		}
		dates := make(map[model.ID]*time.Time, len(out))
		for _, it := range out {
			dates[it.ID] = effective(it, now)
		}
		slices.SortStableFunc(out, func(a, b *model.Item) int {
			return compareOptional(dates[a.ID], dates[b.ID])
		})
	case SortDrift:
		if contact != nil {
			return out
		}
		scores := make(map[model.ID]*Drift, len(out))
		for _, it := range out {
			if d, ok := DriftDays(it, snap.Children(it.ID), now); ok {
				scores[it.ID] = &d
			}
		}
		slices.SortStableFunc(out, func(a, b *model.Item) int {
			da, db := scores[a.ID], scores[b.ID]
			switch {
			case da == nil && db == nil:
				return 0
			case da == nil:
				return 1
			case db == nil:
				return -1
			}
			return cmp.Compare(db.Days, da.Days)
		})
	}
	return out
}

func sortContactsByNextEvent(snap *records.Snapshot, contacts []*model.Item, now time.Time, w window) []*model.Item {
	var dated []datedItem
	for _, c := range contacts {
		if evs := upcomingEvents(snap, c.ID, now, w); len(evs) > 0 {
			dated = append(dated, datedItem{item: c, at: evs[0].at})
		}
	}
	slices.SortStableFunc(dated, func(a, b datedItem) int { return a.at.Compare(b.at) })
	out := make([]*model.Item, len(dated))
	for i, d := range dated {
		out[i] = d.item
	}
	return out
}

func effective(it *model.Item, now time.Time) *time.Time {
	if t, ok := EffectiveDate(it, now); ok {
		return &t
	}
	return nil
}

// compareOptional orders present times ascending and absent ones last.
func compareOptional(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
