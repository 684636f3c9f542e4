package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"doctrack/pkg/logger"
)

// Record is a storable value identified by a string key.
type Record interface {
	EntityID() string
}

// EntityConfig describes one entity type. Initial is the value Get decodes
// into; zero means the zero value of T.
type EntityConfig[T Record] struct {
	Name      string
	IndexName string
	Initial   T
}

// Entity is the indexed CRUD surface for one record type. Values are encoded
// as JSON on the way in and decoded on the way out, so callers never hold a
// reference into backend state.
type Entity[T Record] struct {
	backend Backend
	cfg     EntityConfig[T]
}

func NewEntity[T Record](backend Backend, cfg EntityConfig[T]) *Entity[T] {
	return &Entity[T]{backend: backend, cfg: cfg}
}

func (e *Entity[T]) Name() string { return e.cfg.Name }

func (e *Entity[T]) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := e.backend.Exists(ctx, e.cfg.Name, id)
	if err != nil {
		return false, fmt.Errorf("%s exists %q: %w", e.cfg.Name, id, err)
	}
	return ok, nil
}

// Create stores rec and appends its id to the index. The record write and the
// index write are separate; a failure between them leaves the record unlisted.
func (e *Entity[T]) Create(ctx context.Context, rec T) (T, error) {
	id := rec.EntityID()
	if id == "" {
		return rec, fmt.Errorf("%s create: empty id", e.cfg.Name)
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("%s encode: %w", e.cfg.Name, err)
	}
	if err := e.backend.Insert(ctx, e.cfg.Name, id, body); err != nil {
		return rec, fmt.Errorf("%s create %q: %w", e.cfg.Name, id, err)
	}
	if err := e.backend.IndexAppend(ctx, e.cfg.IndexName, id); err != nil {
		return rec, fmt.Errorf("%s index %q: %w", e.cfg.IndexName, id, err)
	}
	return rec, nil
}

// Get returns a copy of the stored record or ErrNotFound.
func (e *Entity[T]) Get(ctx context.Context, id string) (T, error) {
	body, err := e.backend.Get(ctx, e.cfg.Name, id)
	if err != nil {
		return e.cfg.Initial, fmt.Errorf("%s get %q: %w", e.cfg.Name, id, err)
	}
	return e.decode(body)
}

// Save overwrites an existing record. The index is left as is.
func (e *Entity[T]) Save(ctx context.Context, id string, rec T) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s encode: %w", e.cfg.Name, err)
	}
	if err := e.backend.Update(ctx, e.cfg.Name, id, body); err != nil {
		return fmt.Errorf("%s save %q: %w", e.cfg.Name, id, err)
	}
	return nil
}

// Delete removes the record and its index entry. It reports false when no
// record was stored under id.
func (e *Entity[T]) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := e.backend.Remove(ctx, e.cfg.Name, id)
	if err != nil {
		return false, fmt.Errorf("%s delete %q: %w", e.cfg.Name, id, err)
	}
	if err := e.backend.IndexRemove(ctx, e.cfg.IndexName, id); err != nil {
		return removed, fmt.Errorf("%s unindex %q: %w", e.cfg.IndexName, id, err)
	}
	return removed, nil
}

// List returns every indexed record in index order. Ids whose record is gone
// are skipped.
func (e *Entity[T]) List(ctx context.Context) ([]T, error) {
	ids, err := e.backend.IndexList(ctx, e.cfg.IndexName)
	if err != nil {
		return nil, fmt.Errorf("%s list: %w", e.cfg.IndexName, err)
	}
	items := make([]T, 0, len(ids))
	for _, id := range ids {
		rec, err := e.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			logger.Sugar.Debugf("Index %s references missing %s %s", e.cfg.IndexName, e.cfg.Name, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, nil
}

// Count returns the number of indexed ids.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	ids, err := e.backend.IndexList(ctx, e.cfg.IndexName)
	if err != nil {
		return 0, fmt.Errorf("%s count: %w", e.cfg.IndexName, err)
	}
	return len(ids), nil
}

func (e *Entity[T]) decode(body []byte) (T, error) {
	rec := e.cfg.Initial
	if err := json.Unmarshal(body, &rec); err != nil {
		return e.cfg.Initial, fmt.Errorf("%s decode: %w", e.cfg.Name, err)
	}
	return rec, nil
}
