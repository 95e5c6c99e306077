package store

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Open returns the named backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemStore(), nil
	case BackendBolt:
		return OpenBoltStore(filepath.Join(dataDir, "royalty.db"))
	case BackendSQLite:
		return OpenSQLiteStore(filepath.Join(dataDir, "royalty.sqlite"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
