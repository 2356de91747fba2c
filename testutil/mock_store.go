package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/MichaelAJay/go-typejson/docstore"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// MockStore implements docstore.Store without encoding anything. Values
// are kept as given, so GetInto only succeeds for assignable destinations.
type MockStore struct {
	data map[string]any
	ttls map[string]time.Duration
	mu   sync.RWMutex

	OnPutCallback    func(ctx context.Context, key string, value any, ttl time.Duration) error
	OnGetCallback    func(ctx context.Context, key string) (any, bool, error)
	OnDeleteCallback func(ctx context.Context, key string) error
	OnCloseCallback  func() error
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]any),
		ttls: make(map[string]time.Duration),
	}
}

// Put implements Store.
func (m *MockStore) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.OnPutCallback != nil {
		return m.OnPutCallback(ctx, key, value, ttl)
	}
	if err := docstore.ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

// Get implements Store.
func (m *MockStore) Get(ctx context.Context, key string) (any, bool, error) {
	if m.OnGetCallback != nil {
		return m.OnGetCallback(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// GetInto implements Store.
func (m *MockStore) GetInto(ctx context.Context, key string, dst any) (bool, error) {
	v, ok, err := m.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, typejsonErrors.ErrInvalidDestination
	}
	if v == nil {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
		return true, nil
	}
	src := reflect.ValueOf(v)
	if !src.Type().AssignableTo(rv.Elem().Type()) {
		return false, fmt.Errorf("%w: %T into %s", typejsonErrors.ErrIncompatibleValue, v, rv.Elem().Type())
	}
	rv.Elem().Set(src)
	return true, nil
}

// Delete implements Store.
func (m *MockStore) Delete(ctx context.Context, key string) error {
	if m.OnDeleteCallback != nil {
		return m.OnDeleteCallback(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

// Has implements Store.
func (m *MockStore) Has(ctx context.Context, key string) bool {
	_, ok, err := m.Get(ctx, key)
	return ok && err == nil
}

// Keys implements Store.
func (m *MockStore) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements Store.
func (m *MockStore) Close() error {
	if m.OnCloseCallback != nil {
		return m.OnCloseCallback()
	}
	return nil
}

// TTL returns the ttl key was last stored with
func (m *MockStore) TTL(key string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ttl, ok := m.ttls[key]
	return ttl, ok
}

var _ docstore.Store = (*MockStore)(nil)
