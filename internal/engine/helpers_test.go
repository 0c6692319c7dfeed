package engine

import (
	"time"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
	"github.com/lazypower/orbit/internal/store"
)

// now is the fixed clock used across engine tests: Saturday 2025-03-15 15:00 UTC.
var now = time.Date(2025, 3, 15, 15, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func contact(id model.ID, title string) *model.Item {
	return &model.Item{ID: id, Type: "goal", Title: title, Contact: &model.ContactPayload{}}
}

func withFreq(it *model.Item, days int) *model.Item {
	it.Contact.CatchUpFreq = &days
	return it
}

func detail(id, parent model.ID, typ, title string) *model.Item {
	p := parent
	it := &model.Item{ID: id, ParentID: &p, Type: typ, Title: title}
	it.Normalize()
	return it
}

func event(id, parent model.ID, title, date string, recurring bool) *model.Item {
	it := detail(id, parent, model.TypeEvents, title)
	it.DueDate = date
	it.Event.Recurring = recurring
	return it
}

func history(id, parent model.ID, date string) *model.Item {
	it := detail(id, parent, model.TypeHistory, "Call")
	it.DueDate = date
	return it
}

func connection(id, parent, target model.ID, description string) *model.Item {
	it := detail(id, parent, model.TypeConnections, "stale title")
	it.Connection = &model.ConnectionPayload{TargetID: target}
	it.Description = description
	return it
}

func snapshot(items ...*model.Item) *records.Snapshot {
	return records.NewSnapshot(items, model.DefaultGlobalCategories)
}

func testEngine() *Engine {
	return New(Options{Now: func() time.Time { return now }, Location: time.UTC})
}

func idp(id model.ID) *model.ID { return &id }

func titles(items []*model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func newMemoryBackend() *store.Memory { return store.NewMemory() }
