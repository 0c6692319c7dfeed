// Package engine turns stored records into ordered, filtered, time-aware
// views and applies manual reordering back to the store.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
)

// DefaultUpcomingDays is how many days ahead the upcoming sort looks.
const DefaultUpcomingDays = 30

// ErrReorderRejected is returned when the visible order isn't the manual
// order, so a drag has no meaning.
var ErrReorderRejected = errors.New("reorder needs manual sort and no search")

// Snapshotter provides read-only record snapshots.
type Snapshotter interface {
	Snapshot() *records.Snapshot
}

// Reorderer is the store side of a manual reorder.
type Reorderer interface {
	Snapshotter
	ReorderItems(visible []model.ID) error
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Now          func() time.Time
	Location     *time.Location
	UpcomingDays int
	Logger       *slog.Logger
}

// Engine computes views against a clock and location.
type Engine struct {
	now          func() time.Time
	loc          *time.Location
	upcomingDays int
	log          *slog.Logger
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// New creates a new Engine.
func New(opts Options) *Engine {
	e := &Engine{
		now:          opts.Now,
		loc:          opts.Location,
		upcomingDays: opts.UpcomingDays,
		log:          opts.Logger,
		stopCh:       make(chan struct{}),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.upcomingDays <= 0 {
		e.upcomingDays = DefaultUpcomingDays
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Now is the current time in the engine's location.
func (e *Engine) Now() time.Time { return e.now().In(e.loc) }

// UpcomingDays is the length of the upcoming window.
func (e *Engine) UpcomingDays() int { return e.upcomingDays }

// Query describes one view: its scope, filters and sort.
type Query struct {
	Contact   *model.ID `json:"contact,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Completed bool      `json:"completed"`
	Search    string    `json:"q,omitempty"`
	Sort      SortMode  `json:"sort,omitempty"`
}

// Filter returns the query's filter part.
func (q Query) Filter() Filter {
	return Filter{Contact: q.Contact, Tags: q.Tags, Completed: q.Completed, Search: q.Search}
}

// Draggable reports whether rows in this view can be reordered by hand.
func (q Query) Draggable() bool {
	return (q.Sort == "" || q.Sort == SortManual) && strings.TrimSpace(q.Search) == ""
}

// Items returns the filtered, sorted items for a query.
func (e *Engine) Items(snap *records.Snapshot, q Query) []*model.Item {
	items := q.Filter().Apply(snap)
	return Sort(snap, items, q.Sort, q.Contact, e.Now(), e.upcomingDays)
}

// Reorder applies a dragged order of the visible rows. Ids that aren't in the
// view are ignored so rows outside it never move.
func (e *Engine) Reorder(r Reorderer, q Query, ids []model.ID) error {
	if !q.Draggable() {
		return ErrReorderRejected
	}
	visible := map[model.ID]bool{}
	for _, it := range q.Filter().Apply(r.Snapshot()) {
		visible[it.ID] = true
	}
	kept := make([]model.ID, 0, len(ids))
	for _, id := range ids {
		if visible[id] {
			kept = append(kept, id)
		}
	}
	if err := r.ReorderItems(kept); err != nil {
		return fmt.Errorf("reorder: %w", err)
	}
	e.log.Debug("items reordered", "visible", len(visible), "moved", len(kept))
	return nil
}

// DriftReport is one overdue contact.
type DriftReport struct {
	Contact *model.Item `json:"contact"`
	Drift   Drift       `json:"drift"`
}

// Drifting returns active contacts past their catch-up interval, most
// overdue first.
func (e *Engine) Drifting(snap *records.Snapshot) []DriftReport {
	now := e.Now()
	contacts := Sort(snap, Filter{}.Apply(snap), SortDrift, nil, now, e.upcomingDays)
	var out []DriftReport
	for _, c := range contacts {
		d, ok := DriftDays(c, snap.Children(c.ID), now)
		if !ok || !d.Overdue() {
			continue
		}
		out = append(out, DriftReport{Contact: c, Drift: d})
	}
	return out
}

// StartDriftWatch logs drifting contacts on startup and then every interval.
func (e *Engine) StartDriftWatch(src Snapshotter, every time.Duration) {
	e.checkDrift(src)

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.checkDrift(src)
			case <-e.stopCh:
				return
			}
		}
	}()
}

func (e *Engine) checkDrift(src Snapshotter) {
	reports := e.Drifting(src.Snapshot())
	for _, r := range reports {
		e.log.Info("contact drifting", "id", r.Contact.ID, "title", r.Contact.Title, "days", r.Drift.Days)
	}
	e.log.Debug("drift check", "drifting", len(reports))
}

// Stop shuts down the engine's background goroutines.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}
