// Package records is the in-memory source of truth for items and categories.
// Every mutation is flushed synchronously to the persistence backend.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/store"
)

// Persistence keys.
const (
	KeyItems      = "items"
	KeyCategories = "categories"
)

// DefaultUndoWindow is how long a hard delete stays undoable.
const DefaultUndoWindow = 5 * time.Second

var (
	ErrNotFound          = errors.New("not found")
	ErrReservedCategory  = errors.New("reserved category")
	ErrUndoExpired       = errors.New("undo window expired")
	ErrImportMalformed   = errors.New("malformed import document")
	ErrImportUnconfirmed = errors.New("import not confirmed")
)

// Options configures a Store. Zero values select defaults.
type Options struct {
	Now        func() time.Time
	Logger     *slog.Logger
	UndoWindow time.Duration
}

// Store holds the ordered item list, the global category list and the
// category index derived from both.
type Store struct {
	mu         sync.Mutex
	backend    store.Backend
	now        func() time.Time
	log        *slog.Logger
	undoWindow time.Duration

	items      []*model.Item // persisted total order
	byID       map[model.ID]*model.Item
	categories []model.Category
	index      *categoryIndex
	lastID     model.ID
	undo       map[string]*undoEntry
	dropped    int // items skipped while loading
}

// Open loads items and categories from the backend. Missing keys start as an
// empty item list and the default global categories.
func Open(b store.Backend, opts Options) (*Store, error) {
	s := &Store{
		backend:    b,
		now:        opts.Now,
		log:        opts.Logger,
		undoWindow: opts.UndoWindow,
		undo:       map[string]*undoEntry{},
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.undoWindow <= 0 {
		s.undoWindow = DefaultUndoWindow
	}

	var items []*model.Item
	raw, ok, err := b.Load(KeyItems)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}

	cats := model.CloneCategories(model.DefaultGlobalCategories)
	raw, ok, err = b.Load(KeyCategories)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if ok {
		cats = nil
		if err := json.Unmarshal(raw, &cats); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
	}

	s.dropped = s.replace(items, cats)
	if s.dropped > 0 {
		s.log.Warn("records loaded with entries dropped", "dropped", s.dropped)
	}
	s.log.Debug("records loaded", "items", len(s.items), "categories", len(s.categories))
	return s, nil
}

// replace swaps in a new record set and rebuilds every derived structure. It
// returns how many entries were skipped as null or duplicate ids.
// Caller holds mu (or owns s exclusively).
func (s *Store) replace(items []*model.Item, cats []model.Category) int {
	dropped := 0
	s.items = make([]*model.Item, 0, len(items))
	s.byID = make(map[model.ID]*model.Item, len(items))
	for _, it := range items {
		if it == nil {
			dropped++
			continue
		}
		if _, dup := s.byID[it.ID]; dup {
			s.log.Warn("dropping duplicate item id", "id", it.ID)
			dropped++
			continue
		}
		s.items = append(s.items, it)
		s.byID[it.ID] = it
		if it.ID > s.lastID {
			s.lastID = it.ID
		}
	}
	if cats == nil {
		cats = []model.Category{}
	}
	s.categories = cats
	s.index = buildIndex(s.items, s.categories)
	return dropped
}

// flush writes both collections to the backend.
func (s *Store) flush() error {
	items, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	cats, err := json.Marshal(s.categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := s.backend.Save(KeyItems, items); err != nil {
		s.log.Error("flush failed", "key", KeyItems, "err", err)
		return err
	}
	if err := s.backend.Save(KeyCategories, cats); err != nil {
		s.log.Error("flush failed", "key", KeyCategories, "err", err)
		return err
	}
	return nil
}

// nextID returns an id derived from the clock that is strictly greater than
// every id handed out or loaded so far.
func (s *Store) nextID() model.ID {
	id := model.ID(s.now().UnixMilli())
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexOf(id model.ID) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// contact returns the root item with the given id.
func (s *Store) contact(id model.ID) (*model.Item, error) {
	it, ok := s.byID[id]
	if !ok || !it.IsRoot() {
		return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	return it, nil
}

// Snapshot returns an immutable copy of the current records for readers.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*model.Item, len(s.items))
	for i, it := range s.items {
		items[i] = it.Clone()
	}
	return newSnapshot(items, model.CloneCategories(s.categories), s.index.clone())
}

// Item returns a copy of the item with the given id.
func (s *Store) Item(id model.ID) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return it.Clone(), nil
}

// Dropped reports how many stored items Open skipped because they were null
// or repeated an earlier id.
func (s *Store) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
