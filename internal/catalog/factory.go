package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedStore is returned for an unknown backend name.
var ErrUnsupportedStore = errors.New("unsupported store backend")

// StoreKinds lists the backend names NewStore accepts.
var StoreKinds = []string{"memory", "sqlite"}

func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %s (want one of %s)", ErrUnsupportedStore, kind, strings.Join(StoreKinds, ", "))
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
