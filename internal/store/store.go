package store

import (
	"context"
	"errors"
)

// Errors
var (
	ErrNotFound = errors.New("save slot empty")
	ErrConflict = errors.New("save slot changed concurrently")
)

// Store holds serialized sessions under string keys. It knows nothing about
// the text it keeps.
type Store interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// CompareAndSwap writes value only while the slot still holds old.
	// An empty old means the slot must be empty.
	CompareAndSwap(ctx context.Context, key, old, value string) error
	Close() error
}
