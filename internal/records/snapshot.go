package records

import (
	"strings"

	"github.com/lazypower/orbit/internal/model"
)

// Snapshot is a read-only copy of the records at one point in time. It is safe
// to share between goroutines.
type Snapshot struct {
	items    []*model.Item
	byID     map[model.ID]*model.Item
	children map[model.ID][]*model.Item
	global   []model.Category
	index    *categoryIndex
}

// NewSnapshot builds a snapshot over the given records, in order.
func NewSnapshot(items []*model.Item, global []model.Category) *Snapshot {
	return newSnapshot(items, global, buildIndex(items, global))
}

func newSnapshot(items []*model.Item, global []model.Category, ix *categoryIndex) *Snapshot {
	s := &Snapshot{
		items:    items,
		byID:     make(map[model.ID]*model.Item, len(items)),
		children: map[model.ID][]*model.Item{},
		global:   global,
		index:    ix,
	}
	for _, it := range items {
		s.byID[it.ID] = it
		if it.ParentID != nil {
			s.children[*it.ParentID] = append(s.children[*it.ParentID], it)
		}
	}
	return s
}

// Items returns every item in persisted order.
func (s *Snapshot) Items() []*model.Item { return s.items }

// Item returns the item with the given id.
func (s *Snapshot) Item(id model.ID) (*model.Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// Children returns the details of a contact in persisted order.
func (s *Snapshot) Children(id model.ID) []*model.Item { return s.children[id] }

// GlobalCategories returns the global category list.
func (s *Snapshot) GlobalCategories() []model.Category { return s.global }

// Categories returns the active category list: the global list without a
// contact, otherwise that contact's list (the default template if it was
// never materialized). Unknown contacts have no categories.
func (s *Snapshot) Categories(contact *model.ID) []model.Category {
	if contact == nil {
		return s.global
	}
	it, ok := s.byID[*contact]
	if !ok || !it.IsRoot() {
		return nil
	}
	if cats := it.CustomCategories(); cats != nil {
		return cats
	}
	return model.DefaultDetailCategories
}

// ResolveName returns the display name for a type id from any list, or
// model.UnknownCategory.
func (s *Snapshot) ResolveName(typeID string) string {
	if name, ok := s.index.resolve(typeID); ok {
		return name
	}
	return model.UnknownCategory
}

// CategoryName returns the display name of an item's type. Details resolve
// against their own contact's list before any other.
func (s *Snapshot) CategoryName(it *model.Item) string {
	if it.ParentID != nil {
		if name, ok := s.index.resolveIn(*it.ParentID, it.Type); ok {
			return name
		}
	}
	return s.ResolveName(it.Type)
}

// CategoryCounts counts active (not completed) items per type in scope.
func (s *Snapshot) CategoryCounts(contact *model.ID) map[string]int {
	counts := map[string]int{}
	var scope []*model.Item
	if contact != nil {
		scope = s.children[*contact]
	} else {
		scope = s.items
	}
	for _, it := range scope {
		if it.Completed || (contact == nil && !it.IsRoot()) {
			continue
		}
		counts[it.Type]++
	}
	return counts
}

// TagIDs maps comma-separated category names (case-insensitive) to ids in the
// active list. Names that match nothing are dropped.
func (s *Snapshot) TagIDs(contact *model.ID, input string) []string {
	cats := s.Categories(contact)
	var ids []string
	for _, term := range strings.Split(input, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		for _, c := range cats {
			if strings.ToLower(c.Name) == term {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	return ids
}
