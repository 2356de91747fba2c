package docstore

import (
	"context"
	"time"
)

// Typed is a Store view that reads and writes values of one static type.
type Typed[T any] struct {
	store Store
}

// NewTyped wraps s.
func NewTyped[T any](s Store) *Typed[T] {
	return &Typed[T]{store: s}
}

// Put stores value under key.
func (t *Typed[T]) Put(ctx context.Context, key string, value T, ttl time.Duration) error {
	return t.store.Put(ctx, key, value, ttl)
}

// Get decodes the document under key into a T.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var out T
	found, err := t.store.GetInto(ctx, key, &out)
	return out, found, err
}

// Delete removes key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, key)
}

// Store returns the wrapped store.
func (t *Typed[T]) Store() Store {
	return t.store
}
