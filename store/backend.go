package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Backend is a durable key-value medium. Records live under (entity, id);
// index lists are named separately and hold ids in append order.
//
// Every method is atomic for a single key. Nothing spans keys.
type Backend interface {
	Exists(ctx context.Context, entity, id string) (bool, error)
	// Insert stores value only when nothing is stored under the key yet,
	// otherwise it returns ErrConflict.
	Insert(ctx context.Context, entity, id string, value []byte) error
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, entity, id string) ([]byte, error)
	// Update overwrites an existing value and returns ErrNotFound when the key
	// is absent.
	Update(ctx context.Context, entity, id string, value []byte) error
	// Remove reports whether a value was removed.
	Remove(ctx context.Context, entity, id string) (bool, error)

	// IndexAppend adds id at the end of the index unless it is already there.
	IndexAppend(ctx context.Context, index, id string) error
	IndexRemove(ctx context.Context, index, id string) error
	IndexList(ctx context.Context, index string) ([]string, error)

	Close() error
}
