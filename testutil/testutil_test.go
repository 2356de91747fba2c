package testutil

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MichaelAJay/go-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	typejson "github.com/MichaelAJay/go-typejson"
	"github.com/MichaelAJay/go-typejson/docstore"
)

type Invoice struct {
	Number string `json:"number"`
	Total  int    `json:"total"`
}

type Named interface {
	Name() string
}

func quietLogger() logger.Logger {
	var buf bytes.Buffer
	return logger.New(logger.Config{Level: logger.ErrorLevel, Output: &buf})
}

func TestMockClassRegistry_DrivesRegistryFallback(t *testing.T) {
	provider := NewMockProvider()
	require.NoError(t, provider.Registry.RegisterClass(reflect.TypeFor[Invoice]()))

	m, err := typejson.NewManager(typejson.WithLogger(quietLogger()), typejson.WithRegistryProvider(provider))
	require.NoError(t, err)
	assert.NotNil(t, provider.Registry.Logger())

	v, err := m.Loads(`{"number": "7", "total": 3, "__class__": "Invoice", "__module__": "example.com/legacy"}`)
	require.NoError(t, err)
	assert.Equal(t, Invoice{Number: "7", Total: 3}, v)
	assert.Equal(t, []string{"example.com/legacy.Invoice", "Invoice"}, provider.Registry.Lookups())
}

func TestMockClassRegistry_Callbacks(t *testing.T) {
	r := NewMockClassRegistry()
	r.OnGetClassCallback = func(name string) (reflect.Type, bool) {
		return reflect.TypeFor[Invoice](), name == "Anything"
	}
	assert.True(t, r.HasClass("Anything"))
	assert.False(t, r.HasClass("Else"))

	boom := errors.New("boom")
	r.OnRegisterClassCallback = func(reflect.Type, ...typejson.RegisterOption) error { return boom }
	assert.ErrorIs(t, r.RegisterClass(reflect.TypeFor[Invoice]()), boom)

	torn := false
	r.OnTeardownCallback = func() { torn = true }
	r.Teardown()
	assert.True(t, torn)
}

func TestMockClassRegistry_Defaults(t *testing.T) {
	r := NewMockClassRegistry()
	require.NoError(t, r.RegisterClassesMap(map[string]reflect.Type{"Bill": reflect.TypeFor[Invoice]()}))
	require.NoError(t, r.RegisterClasses([]reflect.Type{reflect.TypeFor[Invoice]()}))
	assert.Equal(t, []string{"Bill", "Invoice"}, r.Names())
	assert.Equal(t, 2, r.Len())

	_, err := r.GetRequiredSubclass("Invoice", reflect.TypeFor[Named]())
	assert.ErrorIs(t, err, typejson.ErrClassInheritance)
	_, err = r.GetRequiredStruct("Invoice")
	assert.NoError(t, err)

	require.NoError(t, r.UnregisterClass(reflect.TypeFor[Invoice]()))
	assert.ErrorIs(t, r.UnregisterClassByName("Invoice"), typejson.ErrClassNotFound)
	_, err = r.GetRequiredClass("Invoice")
	assert.ErrorIs(t, err, typejson.ErrClassNotFound)
	assert.ErrorIs(t, r.RegisterClass(nil), typejson.ErrInvalidRegistration)
}

func TestMockProvider_CreateCallback(t *testing.T) {
	p := NewMockProvider()
	p.SetCreateCallback(func(logger.Logger) (typejson.ClassRegistry, error) {
		return nil, errors.New("unavailable")
	})
	_, err := typejson.NewManager(typejson.WithLogger(quietLogger()), typejson.WithRegistryProvider(p))
	assert.ErrorContains(t, err, "unavailable")
}

func TestMockStore(t *testing.T) {
	ctx := context.Background()
	s := NewMockStore()

	require.NoError(t, s.Put(ctx, "inv", Invoice{Number: "1"}, time.Minute))
	assert.ErrorIs(t, s.Put(ctx, "", Invoice{}, 0), typejson.ErrInvalidKey)

	typed := docstore.NewTyped[Invoice](s)
	got, found, err := typed.Get(ctx, "inv")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", got.Number)

	var wrong string
	_, err = s.GetInto(ctx, "inv", &wrong)
	assert.ErrorIs(t, err, typejson.ErrIncompatibleValue)

	ttl, ok := s.TTL("inv")
	assert.True(t, ok)
	assert.Equal(t, time.Minute, ttl)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"inv"}, keys)

	require.NoError(t, typed.Delete(ctx, "inv"))
	assert.False(t, s.Has(ctx, "inv"))

	s.OnGetCallback = func(context.Context, string) (any, bool, error) {
		return nil, false, typejson.ErrStoreClosed
	}
	_, err = s.GetInto(ctx, "inv", &got)
	assert.ErrorIs(t, err, typejson.ErrStoreClosed)
	assert.NoError(t, s.Close())
}
