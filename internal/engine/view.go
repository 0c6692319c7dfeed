package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
)

// maxPreview caps the events previewed on a contact row.
const maxPreview = 3

// Row is one item of a view plus the fields derived for display.
type Row struct {
	Item     *model.Item `json:"item"`
	Title    string      `json:"title"`
	Category string      `json:"category"`

	Effective *time.Time `json:"effectiveDate,omitempty"`
	Drift     *Drift     `json:"drift,omitempty"`
	Status    string     `json:"status,omitempty"`

	// Link is the contact a connection row opens. Dangling connections have
	// none.
	Link     *model.ID `json:"link,omitempty"`
	Dangling bool      `json:"dangling,omitempty"`

	Preview *Preview `json:"preview,omitempty"`
}

// Preview lists a few of a contact's events on its row.
type Preview struct {
	Label  string         `json:"label"`
	Events []PreviewEvent `json:"events"`
}

type PreviewEvent struct {
	ID    model.ID  `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// View is a rendered query.
type View struct {
	Query Query `json:"query"`
	// Contact is the contact whose details are shown, if any.
	Contact    *model.Item      `json:"contact,omitempty"`
	Rows       []Row            `json:"rows"`
	Empty      string           `json:"empty,omitempty"`
	Draggable  bool             `json:"draggable"`
	Categories []model.Category `json:"categories"`
	Counts     map[string]int   `json:"counts"`
}

// View filters, sorts and decorates the records for a query.
func (e *Engine) View(snap *records.Snapshot, q Query) View {
	now := e.Now()
	q.Search = strings.TrimSpace(q.Search)
	v := View{
		Query:      q,
		Rows:       []Row{},
		Draggable:  q.Draggable(),
		Categories: snap.Categories(q.Contact),
		Counts:     snap.CategoryCounts(q.Contact),
	}
	if q.Contact != nil {
		if c, ok := snap.Item(*q.Contact); ok {
			v.Contact = c
		}
	}
	for _, it := range e.Items(snap, q) {
		v.Rows = append(v.Rows, e.row(snap, it, q.Sort, now))
	}
	if len(v.Rows) == 0 {
		v.Empty = e.emptyMessage(q)
	}
	return v
}

func (e *Engine) row(snap *records.Snapshot, it *model.Item, mode SortMode, now time.Time) Row {
	r := Row{
		Item:     it,
		Title:    it.Title,
		Category: snap.CategoryName(it),
	}
	if at, ok := EffectiveDate(it, now); ok {
		r.Effective = &at
	}
	switch it.Role() {
	case model.RoleContact:
		if d, ok := DriftDays(it, snap.Children(it.ID), now); ok {
			r.Drift = &d
			r.Status = d.Status()
		}
		r.Preview = e.preview(snap, it.ID, mode, now)
	case model.RoleConnection:
		title, ok := ConnectionTitle(snap, it)
		r.Title = title
		r.Dangling = !ok
		if ok {
			id, _ := it.TargetID()
			r.Link = &id
		}
	}
	return r
}

// preview picks up to three events: those inside the upcoming window when
// sorting by upcoming, otherwise those falling in the current month.
func (e *Engine) preview(snap *records.Snapshot, contact model.ID, mode SortMode, now time.Time) *Preview {
	var events []datedItem
	label := "This Month"
	if mode == SortUpcoming {
		label = "Upcoming"
		events = upcomingEvents(snap, contact, now, newWindow(now, e.upcomingDays))
	} else {
		for _, ev := range datedEvents(snap, contact, now) {
			if ev.at.Year() == now.Year() && ev.at.Month() == now.Month() {
				events = append(events, ev)
			}
		}
	}
	if len(events) == 0 {
		return nil
	}
	p := &Preview{Label: label}
	for _, ev := range events[:min(len(events), maxPreview)] {
		p.Events = append(p.Events, PreviewEvent{ID: ev.item.ID, Title: ev.item.Title, Date: ev.at})
	}
	return p
}

func (e *Engine) emptyMessage(q Query) string {
	switch {
	case q.Search != "":
		return "No matches found."
	case q.Contact != nil:
		return "No details recorded yet."
	case q.Sort == SortUpcoming:
		return fmt.Sprintf("No upcoming events in the next %d days.", e.upcomingDays)
	}
	return "Orbit empty."
}

// Describe decorates a single item the way a manual-sort view would. ok is
// false when the item doesn't exist.
func (e *Engine) Describe(snap *records.Snapshot, id model.ID) (Row, bool) {
	it, ok := snap.Item(id)
	if !ok {
		return Row{}, false
	}
	return e.row(snap, it, SortManual, e.Now()), true
}
