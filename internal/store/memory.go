package store

import "sync"

// Memory is a process-local backend used by tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int

	// FailSave, when set, is returned by every Save.
	FailSave error
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.data[key] = append([]byte(nil), value...)
	m.saves++
	return nil
}

func (m *Memory) Close() error { return nil }

// Saves reports how many successful Save calls were made.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
