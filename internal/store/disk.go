package store

import (
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Disk stores each key as a file under a base directory.
type Disk struct {
	d        *diskv.Diskv
	BasePath string
}

// OpenDisk opens (or creates) a file-per-key store rooted at dir.
func OpenDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		BasePath: dir,
	}, nil
}

// Load returns the document stored under key.
func (s *Disk) Load(key string) ([]byte, bool, error) {
	if !s.d.Has(key) {
		return nil, false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return val, true, nil
}

// Save writes value under key.
func (s *Disk) Save(key string, value []byte) error {
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; diskv holds no open handles between calls.
func (s *Disk) Close() error { return nil }
