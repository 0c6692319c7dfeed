package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/order"
)

// ActiveCategories returns the global list, or a contact's own list. A
// contact's list is copied from the default template and persisted the first
// time it is read.
func (s *Store) ActiveCategories(contact *model.ID) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contact == nil {
		return model.CloneCategories(s.categories), nil
	}
	c, err := s.contact(*contact)
	if err != nil {
		return nil, err
	}
	if cats := c.CustomCategories(); cats != nil {
		return model.CloneCategories(cats), nil
	}
	err = s.mutate("materialize categories", func() error {
		s.setList(contact, model.CloneCategories(model.DefaultDetailCategories))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("materialize categories: %w", err)
	}
	return model.CloneCategories(c.CustomCategories()), nil
}

// list returns a copy of the list a category operation applies to.
func (s *Store) list(contact *model.ID) ([]model.Category, error) {
	if contact == nil {
		return model.CloneCategories(s.categories), nil
	}
	c, err := s.contact(*contact)
	if err != nil {
		return nil, err
	}
	return model.CloneCategories(listOf(c)), nil
}

// setList stores a list and reindexes it. Caller holds mu and has checked
// that the contact exists.
func (s *Store) setList(contact *model.ID, cats []model.Category) {
	if contact == nil {
		s.categories = cats
		s.index.setGlobal(cats)
		return
	}
	c := s.byID[*contact]
	c.Contact.CustomCategories = cats
	s.index.setContact(c.ID, cats)
}

func (s *Store) editList(op string, contact *model.ID, fn func([]model.Category) ([]model.Category, error)) error {
	cats, err := s.list(contact)
	if err != nil {
		return err
	}
	next, err := fn(cats)
	if err != nil {
		return err
	}
	if err := s.mutate(op, func() error {
		s.setList(contact, next)
		return nil
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddCategory appends a new category to the active list.
func (s *Store) AddCategory(contact *model.ID, name string) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, &model.ValidationError{Field: "name", Msg: "required"}
	}
	var added model.Category
	err := s.editList("add category", contact, func(cats []model.Category) ([]model.Category, error) {
		n := s.now().UnixMilli()
		id := "cat_" + strconv.FormatInt(n, 10)
		for _, taken := model.FindCategory(cats, id); taken; _, taken = model.FindCategory(cats, id) {
			n++
			id = "cat_" + strconv.FormatInt(n, 10)
		}
		added = model.Category{ID: id, Name: name}
		return append(cats, added), nil
	})
	return added, err
}

// RenameCategory changes a category's display name. Items keep their type id.
func (s *Store) RenameCategory(contact *model.ID, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return &model.ValidationError{Field: "name", Msg: "required"}
	}
	return s.editList("rename category", contact, func(cats []model.Category) ([]model.Category, error) {
		for i := range cats {
			if cats[i].ID == id {
				cats[i].Name = name
				return cats, nil
			}
		}
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	})
}

// DeleteCategory removes a category from the active list. Items tagged with
// it are kept. Their name then resolves through the global list, the default
// template and other contacts' lists, and is unknown only when none of those
// defines the id.
func (s *Store) DeleteCategory(contact *model.ID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if model.IsReserved(id) {
		return fmt.Errorf("delete category %s: %w", id, ErrReservedCategory)
	}
	return s.editList("delete category", contact, func(cats []model.Category) ([]model.Category, error) {
		for i := range cats {
			if cats[i].ID == id {
				return append(cats[:i], cats[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	})
}

// ReorderCategories applies a new relative order to the active list.
func (s *Store) ReorderCategories(contact *model.ID, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editList("reorder categories", contact, func(cats []model.Category) ([]model.Category, error) {
		return order.Reconcile(cats, func(c model.Category) string { return c.ID }, ids), nil
	})
}
