package records

import "github.com/lazypower/orbit/internal/model"

// mutate runs fn against the live state and flushes. If fn or the flush
// fails, the in-memory state is put back the way it was.
func (s *Store) mutate(op string, fn func() error) error {
	prevItems := make([]*model.Item, len(s.items))
	for i, it := range s.items {
		prevItems[i] = it.Clone()
	}
	prevCats := model.CloneCategories(s.categories)

	err := fn()
	if err == nil {
		err = s.flush()
	}
	if err != nil {
		s.replace(prevItems, prevCats)
		return err
	}
	s.log.Debug("records mutated", "op", op, "items", len(s.items))
	return nil
}
