package records

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lazypower/orbit/internal/model"
)

// ExportVersion is written into every exported document.
const ExportVersion = 6

// Document is the export/import format.
type Document struct {
	Items      []*model.Item    `json:"items"`
	Categories []model.Category `json:"categories"`
	Version    int              `json:"version"`
}

// Export returns a copy of every record.
func (s *Store) Export() Document {
	snap := s.Snapshot()
	return Document{
		Items:      snap.Items(),
		Categories: snap.GlobalCategories(),
		Version:    ExportVersion,
	}
}

// ExportJSON encodes Export as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ParseDocument decodes an export document. Both items and categories must
// be present as arrays, and every item needs its own non-zero id.
func ParseDocument(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportMalformed, err)
	}
	for _, field := range []string{"items", "categories"} {
		raw, ok := probe[field]
		if !ok || len(bytes.TrimSpace(raw)) == 0 || bytes.TrimSpace(raw)[0] != '[' {
			return nil, fmt.Errorf("%w: missing %s", ErrImportMalformed, field)
		}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportMalformed, err)
	}
	seen := make(map[model.ID]bool, len(doc.Items))
	for i, it := range doc.Items {
		switch {
		case it == nil:
			return nil, fmt.Errorf("%w: item %d is null", ErrImportMalformed, i)
		case it.ID == 0:
			return nil, fmt.Errorf("%w: item %d (%q) has no id", ErrImportMalformed, i, it.Title)
		case seen[it.ID]:
			return nil, fmt.Errorf("%w: item %d repeats id %d", ErrImportMalformed, i, it.ID)
		}
		seen[it.ID] = true
	}
	return &doc, nil
}

// Import replaces every record with the document's contents. Nothing changes
// unless confirmed is set and the document parses.
func (s *Store) Import(data []byte, confirmed bool) (*Document, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return doc, ErrImportUnconfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.mutate("import", func() error {
		items := make([]*model.Item, len(doc.Items))
		for i, it := range doc.Items {
			items[i] = it.Clone()
		}
		s.replace(items, model.CloneCategories(doc.Categories))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	clear(s.undo)
	s.log.Info("records imported", "items", len(s.items), "categories", len(s.categories), "version", doc.Version)
	return doc, nil
}
