// Package kvstore is the client's "local storage": a small key-value store
// holding JSON blobs, with file, sqlite and in-memory backends.
package kvstore

import (
	"fmt"
	"regexp"

	"github.com/diogo/chatull/internal/config"
)

// Store is a string-keyed blob store. Get reports whether the key exists.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateKey rejects keys that cannot be used as file names
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// Open returns the backend selected by cfg.Storage
func Open(cfg config.Config) (Store, error) {
	switch cfg.Storage {
	case config.StorageFile, "":
		dir, err := config.GetStorageDir()
		if err != nil {
			return nil, err
		}
		return NewFileStore(dir)
	case config.StorageSQLite:
		path, err := config.GetDatabasePath()
		if err != nil {
			return nil, err
		}
		if _, err := config.EnsureConfigDir(); err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
