package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend is the opaque key/value persistence the record store loads from and
// flushes to. Values are JSON documents.
type Backend interface {
	// Load returns the value stored under key; ok is false when the key was
	// never saved.
	Load(key string) (value []byte, ok bool, err error)
	Save(key string, value []byte) error
	Close() error
}

// Backend kinds accepted by OpenBackend.
const (
	KindSQLite = "sqlite"
	KindDisk   = "disk"
)

// DefaultPath returns the default storage location for a backend kind.
func DefaultPath(kind string) (string, error) {
	if kind == KindDisk {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		return filepath.Join(home, ".orbit", "data"), nil
	}
	return DefaultDBPath()
}

// OpenBackend opens the backend of the given kind at path. An empty path
// resolves to DefaultPath(kind).
func OpenBackend(kind, path string) (Backend, error) {
	if kind == "" {
		kind = KindSQLite
	}
	if path == "" {
		var err error
		path, err = DefaultPath(kind)
		if err != nil {
			return nil, err
		}
	}
	switch kind {
	case KindSQLite:
		return Open(path)
	case KindDisk:
		return OpenDisk(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}
