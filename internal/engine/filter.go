package engine

import (
	"slices"
	"strings"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
)

// Filter selects the items a view shows.
type Filter struct {
	// Contact scopes the view to one contact's details; nil shows contacts.
	Contact   *model.ID
	Tags      []string
	Completed bool
	Search    string
}

// Apply returns the matching items in persisted order.
func (f Filter) Apply(snap *records.Snapshot) []*model.Item {
	query := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*model.Item
	for _, it := range snap.Items() {
		if f.match(snap, it, query) {
			out = append(out, it)
		}
	}
	return out
}

func (f Filter) match(snap *records.Snapshot, it *model.Item, query string) bool {
	if f.Contact != nil {
		if !it.HasParent(*f.Contact) {
			return false
		}
	} else if !it.IsRoot() {
		return false
	}
	if it.Completed != f.Completed {
		return false
	}
	if len(f.Tags) > 0 && !slices.Contains(f.Tags, it.Type) {
		return false
	}
	if query == "" {
		return true
	}

	title := it.Title
	if it.Role() == model.RoleConnection {
		title, _ = ConnectionTitle(snap, it)
	}
	return strings.Contains(strings.ToLower(title), query) ||
		strings.Contains(strings.ToLower(it.Description), query)
}

// ConnectionTitle resolves the title a connection displays: its target's
// current title. ok is false when the target no longer exists.
func ConnectionTitle(snap *records.Snapshot, it *model.Item) (title string, ok bool) {
	id, ok := it.TargetID()
	if !ok {
		return records.DanglingTitle, false
	}
	target, ok := snap.Item(id)
	if !ok || !target.IsRoot() {
		return records.DanglingTitle, false
	}
	return target.Title, true
}
