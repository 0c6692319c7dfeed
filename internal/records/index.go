package records

import (
	"slices"

	"github.com/lazypower/orbit/internal/model"
)

var templateNames = namesOf(model.DefaultDetailCategories)

func namesOf(cats []model.Category) map[string]string {
	m := make(map[string]string, len(cats))
	for _, c := range cats {
		if _, ok := m[c.ID]; !ok {
			m[c.ID] = c.Name
		}
	}
	return m
}

// categoryIndex resolves type ids to names without scanning items: a global
// map, one map per materialized contact list, and the contacts defining each
// custom id (ascending) for lookups made without a contact context.
type categoryIndex struct {
	global   map[string]string
	contacts map[model.ID]map[string]string
	owners   map[string][]model.ID
}

func buildIndex(items []*model.Item, global []model.Category) *categoryIndex {
	ix := &categoryIndex{
		contacts: map[model.ID]map[string]string{},
		owners:   map[string][]model.ID{},
	}
	ix.setGlobal(global)
	for _, it := range items {
		if it.IsRoot() {
			ix.setContact(it.ID, it.CustomCategories())
		}
	}
	return ix
}

func (ix *categoryIndex) setGlobal(cats []model.Category) {
	ix.global = namesOf(cats)
}

// setContact replaces the indexed list for a contact. A nil list means the
// contact still uses the default template.
func (ix *categoryIndex) setContact(id model.ID, cats []model.Category) {
	ix.dropContact(id)
	if cats == nil {
		return
	}
	names := namesOf(cats)
	ix.contacts[id] = names
	for typeID := range names {
		owners := ix.owners[typeID]
		i, _ := slices.BinarySearch(owners, id)
		ix.owners[typeID] = slices.Insert(owners, i, id)
	}
}

func (ix *categoryIndex) dropContact(id model.ID) {
	names, ok := ix.contacts[id]
	if !ok {
		return
	}
	delete(ix.contacts, id)
	for typeID := range names {
		owners := ix.owners[typeID]
		if i, found := slices.BinarySearch(owners, id); found {
			owners = slices.Delete(owners, i, i+1)
		}
		if len(owners) == 0 {
			delete(ix.owners, typeID)
		} else {
			ix.owners[typeID] = owners
		}
	}
}

// resolve looks a type id up in the global list, then the default template,
// then the custom list of the earliest contact that defines it.
func (ix *categoryIndex) resolve(typeID string) (string, bool) {
	if name, ok := ix.global[typeID]; ok {
		return name, true
	}
	if name, ok := templateNames[typeID]; ok {
		return name, true
	}
	if owners := ix.owners[typeID]; len(owners) > 0 {
		return ix.contacts[owners[0]][typeID], true
	}
	return "", false
}

// resolveIn looks a type id up in one contact's list, falling back to the
// template when the list was never materialized.
func (ix *categoryIndex) resolveIn(contact model.ID, typeID string) (string, bool) {
	names, ok := ix.contacts[contact]
	if !ok {
		names = templateNames
	}
	name, ok := names[typeID]
	return name, ok
}

func (ix *categoryIndex) clone() *categoryIndex {
	c := &categoryIndex{
		global:   ix.global,
		contacts: make(map[model.ID]map[string]string, len(ix.contacts)),
		owners:   make(map[string][]model.ID, len(ix.owners)),
	}
	// Inner maps are replaced, never mutated, so they can be shared.
	for id, names := range ix.contacts {
		c.contacts[id] = names
	}
	for typeID, owners := range ix.owners {
		c.owners[typeID] = slices.Clone(owners)
	}
	return c
}
