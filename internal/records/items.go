package records

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/order"
)

// DanglingTitle is shown for a connection whose target no longer exists.
const DanglingTitle = "Unknown Contact"

// Upsert creates (nil d.ID) or replaces an item. Edits keep the item's
// hierarchy level, completion state, creation time and custom categories.
func (s *Store) Upsert(d model.Draft) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *model.Item
	if d.ID != nil {
		it, ok := s.byID[*d.ID]
		if !ok {
			return nil, fmt.Errorf("item %d: %w", *d.ID, ErrNotFound)
		}
		existing = it
		if d.ParentID == nil && it.ParentID != nil {
			p := *it.ParentID
			d.ParentID = &p
		}
		if !sameParent(it.ParentID, d.ParentID) {
			return nil, &model.ValidationError{Field: "parentId", Msg: "an item cannot move to another contact"}
		}
	}
	if err := d.Check(); err != nil {
		return nil, err
	}

	cats := s.categories
	if d.ParentID != nil {
		parent, err := s.contact(*d.ParentID)
		if err != nil {
			return nil, err
		}
		cats = listOf(parent)
	}
	if _, ok := model.FindCategory(cats, d.Type); !ok {
		return nil, &model.ValidationError{Field: "type", Msg: fmt.Sprintf("%q is not an active category", d.Type)}
	}
	if d.TargetID != nil {
		target, err := s.contact(*d.TargetID)
		if err != nil {
			return nil, &model.ValidationError{Field: "targetId", Msg: err.Error()}
		}
		d.Title = target.Title
	}

	var it *model.Item
	err := s.mutate("upsert", func() error {
		if existing == nil {
			it = d.Build(s.nextID(), s.now().UnixMilli())
			s.items = append(s.items, it)
		} else {
			it = d.Build(existing.ID, existing.CreatedAt)
			it.Completed = existing.Completed
			if it.Contact != nil {
				it.Contact.CustomCategories = existing.CustomCategories()
			}
			s.items[s.indexOf(existing.ID)] = it
		}
		s.byID[it.ID] = it
		if it.IsRoot() {
			s.index.setContact(it.ID, it.CustomCategories())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert item: %w", err)
	}
	return it.Clone(), nil
}

func sameParent(a, b *model.ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// listOf returns a contact's category list without materializing it.
func listOf(contact *model.Item) []model.Category {
	if cats := contact.CustomCategories(); cats != nil {
		return cats
	}
	return model.DefaultDetailCategories
}

// LogEntry is a quick history record for a contact.
type LogEntry struct {
	Interaction model.InteractionType `json:"interactionType"`
	Date        string                `json:"date"` // defaults to today
	Summary     string                `json:"summary"`
	Description string                `json:"description"`
}

// QuickLog records an interaction with a contact. An empty summary titles the
// entry after the interaction.
func (s *Store) QuickLog(contact model.ID, e LogEntry) (*model.Item, error) {
	date := e.Date
	if date == "" {
		date = s.now().Format(model.DateLayout)
	}
	parent := contact
	return s.Upsert(model.Draft{
		ParentID:        &parent,
		Type:            model.TypeHistory,
		Title:           e.Summary,
		Description:     e.Description,
		DueDate:         date,
		InteractionType: e.Interaction,
	})
}

// Toggle flips an item between active and archived.
func (s *Store) Toggle(id model.ID) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	var out *model.Item
	err := s.mutate("toggle", func() error {
		it := s.byID[id]
		it.Completed = !it.Completed
		out = it.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	return out, nil
}

// TrashResult describes what Trash did.
type TrashResult struct {
	// Archived is set when an active contact was archived instead of deleted.
	Archived bool `json:"archived"`
	// Deleted counts hard-deleted items, children included.
	Deleted  int `json:"deleted"`
	Children int `json:"children"`
	// Token undoes a hard delete until Expires.
	Token   string    `json:"token,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

type removedItem struct {
	item  *model.Item
	index int
}

type undoEntry struct {
	removed []removedItem // ascending index
	expires time.Time
}

// Trash archives an active contact. Archived contacts and every detail are
// deleted outright; deleting a contact removes its details too. Hard deletes
// can be undone with the returned token.
func (s *Store) Trash(id model.ID) (TrashResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.byID[id]
	if !ok {
		return TrashResult{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if it.IsRoot() && !it.Completed {
		err := s.mutate("archive", func() error {
			s.byID[id].Completed = true
			return nil
		})
		if err != nil {
			return TrashResult{}, fmt.Errorf("archive item: %w", err)
		}
		return TrashResult{Archived: true}, nil
	}

	var removed []removedItem
	children := 0
	for i, cur := range s.items {
		switch {
		case cur.ID == id:
		case it.IsRoot() && cur.HasParent(id):
			children++
		default:
			continue
		}
		removed = append(removed, removedItem{item: cur.Clone(), index: i})
	}

	err := s.mutate("delete", func() error {
		s.items = slices.DeleteFunc(s.items, func(cur *model.Item) bool {
			return cur.ID == id || (it.IsRoot() && cur.HasParent(id))
		})
		for _, r := range removed {
			delete(s.byID, r.item.ID)
		}
		if it.IsRoot() {
			s.index.dropContact(id)
		}
		return nil
	})
	if err != nil {
		return TrashResult{}, fmt.Errorf("delete item: %w", err)
	}

	now := s.now()
	s.pruneUndo(now)
	token := uuid.NewString()
	expires := now.Add(s.undoWindow)
	s.undo[token] = &undoEntry{removed: removed, expires: expires}
	return TrashResult{
		Deleted:  len(removed),
		Children: children,
		Token:    token,
		Expires:  expires,
	}, nil
}

func (s *Store) pruneUndo(now time.Time) {
	for token, e := range s.undo {
		if now.After(e.expires) {
			delete(s.undo, token)
		}
	}
}

// Undo reinserts the items removed by a hard delete at their original
// indices. It returns the number of items restored.
func (s *Store) Undo(token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.undo[token]
	if !ok {
		return 0, fmt.Errorf("undo %s: %w", token, ErrNotFound)
	}
	if s.now().After(e.expires) {
		delete(s.undo, token)
		return 0, fmt.Errorf("undo %s: %w", token, ErrUndoExpired)
	}

	restored := 0
	err := s.mutate("undo", func() error {
		for _, r := range e.removed {
			if _, taken := s.byID[r.item.ID]; taken {
				continue
			}
			it := r.item.Clone()
			at := min(r.index, len(s.items))
			s.items = slices.Insert(s.items, at, it)
			s.byID[it.ID] = it
			if it.IsRoot() {
				s.index.setContact(it.ID, it.CustomCategories())
			}
			restored++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("undo delete: %w", err)
	}
	delete(s.undo, token)
	return restored, nil
}

// ReorderItems applies a new relative order for the visible items to the
// persisted total order. Items not named keep their absolute index.
func (s *Store) ReorderItems(visible []model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate("reorder", func() error {
		s.items = order.Reconcile(s.items, func(it *model.Item) model.ID { return it.ID }, visible)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder items: %w", err)
	}
	return nil
}
