package memory

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/MichaelAJay/go-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelAJay/go-typejson/interfaces"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

type Animal struct {
	Name string
}

type Dog struct {
	Animal
	Breed string
}

type Rock struct {
	Weight int
}

type Level int

type Box[T any] struct {
	Item T
}

type Speaker interface {
	Speak() string
}

func (d Dog) Speak() string { return "woof" }

func newTestRegistry(buf *bytes.Buffer) interfaces.ClassRegistry {
	return NewClassRegistry(logger.New(logger.Config{Level: logger.DebugLevel, Output: buf}))
}

func TestProvider_Create(t *testing.T) {
	r, err := NewProvider().Create(nil)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}

func TestRegisterClass(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRegistry(&buf)

	require.NoError(t, r.RegisterClass(reflect.TypeFor[Dog]()))
	got, ok := r.GetClass("Dog")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Dog](), got)

	t.Run("PointerUsesElemName", func(t *testing.T) {
		require.NoError(t, r.RegisterClass(reflect.TypeFor[*Rock]()))
		got, ok := r.GetClass("Rock")
		require.True(t, ok)
		assert.Equal(t, reflect.TypeFor[*Rock](), got)
	})

	t.Run("CustomName", func(t *testing.T) {
		require.NoError(t, r.RegisterClass(reflect.TypeFor[Animal](), interfaces.WithName("Creature")))
		assert.True(t, r.HasClass("Creature"))
		assert.False(t, r.HasClass("Animal"))
	})

	t.Run("GenericUsesBaseName", func(t *testing.T) {
		require.NoError(t, r.RegisterClass(reflect.TypeFor[Box[any]]()))
		got, ok := r.GetClass("Box")
		require.True(t, ok)
		assert.Equal(t, reflect.TypeFor[Box[any]](), got)
		assert.False(t, r.HasClass("Box[interface {}]"))

		require.NoError(t, r.UnregisterClass(reflect.TypeFor[Box[any]]()))
		assert.False(t, r.HasClass("Box"))
	})

	t.Run("NilType", func(t *testing.T) {
		err := r.RegisterClass(nil)
		assert.ErrorIs(t, err, typejsonErrors.ErrInvalidRegistration)
	})
}

func TestRegisterClass_Overwrite(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRegistry(&buf)

	require.NoError(t, r.RegisterClass(reflect.TypeFor[Dog](), interfaces.WithName("Thing")))
	require.NoError(t, r.RegisterClass(reflect.TypeFor[Rock](), interfaces.WithName("Thing")))
	got, _ := r.GetClass("Thing")
	assert.Equal(t, reflect.TypeFor[Rock](), got)
	assert.Contains(t, buf.String(), "overwriting")

	buf.Reset()
	require.NoError(t, r.RegisterClass(reflect.TypeFor[Dog](), interfaces.WithName("Thing"), interfaces.WithoutDuplicateWarning()))
	assert.NotContains(t, buf.String(), "overwriting")
	got, _ = r.GetClass("Thing")
	assert.Equal(t, reflect.TypeFor[Dog](), got)
}

func TestRegisterClasses_SkipsExisting(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRegistry(&buf)

	require.NoError(t, r.RegisterClass(reflect.TypeFor[Rock](), interfaces.WithName("Dog")))
	require.NoError(t, r.RegisterClasses([]reflect.Type{reflect.TypeFor[Dog](), reflect.TypeFor[Animal]()}))

	got, _ := r.GetClass("Dog")
	assert.Equal(t, reflect.TypeFor[Rock](), got, "existing registration is kept")
	assert.True(t, r.HasClass("Animal"))
	assert.Contains(t, buf.String(), "skipping")
	assert.Equal(t, 2, r.Len())
}

func TestRegisterClassesMap(t *testing.T) {
	r := NewClassRegistry(nil)
	require.NoError(t, r.RegisterClassesMap(map[string]reflect.Type{
		"pet":  reflect.TypeFor[Dog](),
		"rock": reflect.TypeFor[Rock](),
	}))
	assert.Equal(t, []string{"pet", "rock"}, r.Names())
}

func TestUnregister(t *testing.T) {
	r := NewClassRegistry(nil)
	require.NoError(t, r.RegisterClass(reflect.TypeFor[Dog]()))
	require.NoError(t, r.RegisterClass(reflect.TypeFor[Rock]()))

	require.NoError(t, r.UnregisterClass(reflect.TypeFor[Dog]()))
	assert.False(t, r.HasClass("Dog"))

	require.NoError(t, r.UnregisterClassByName("Rock"))
	err := r.UnregisterClassByName("Rock")
	assert.ErrorIs(t, err, typejsonErrors.ErrClassNotFound)
	assert.Contains(t, err.Error(), "Rock")
}

func TestRequiredLookups(t *testing.T) {
	r := NewClassRegistry(nil)
	require.NoError(t, r.RegisterClasses([]reflect.Type{
		reflect.TypeFor[Dog](), reflect.TypeFor[Rock](), reflect.TypeFor[Level](),
	}))
	animal := reflect.TypeFor[Animal]()

	_, err := r.GetRequiredClass("Cat")
	assert.ErrorIs(t, err, typejsonErrors.ErrClassNotFound)

	got, err := r.GetRequiredSubclass("Dog", animal)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[Dog](), got)

	_, err = r.GetRequiredSubclass("Rock", animal)
	assert.ErrorIs(t, err, typejsonErrors.ErrClassInheritance)

	_, err = r.GetRequiredSubclass("Dog", reflect.TypeFor[Speaker]())
	assert.NoError(t, err)

	_, err = r.GetRequiredStruct("Rock")
	assert.NoError(t, err)
	_, err = r.GetRequiredStruct("Level")
	assert.ErrorIs(t, err, typejsonErrors.ErrClassInheritance)

	assert.True(t, r.HasSubclass("Dog", animal))
	assert.False(t, r.HasSubclass("Rock", animal))
	assert.False(t, r.HasSubclass("Cat", animal))
}

func TestTeardown(t *testing.T) {
	r := NewClassRegistry(nil)
	require.NoError(t, r.RegisterClass(reflect.TypeFor[Dog]()))
	r.Teardown()
	r.Teardown()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Names())
}

func TestSetLogger(t *testing.T) {
	var first, second bytes.Buffer
	r := newTestRegistry(&first)
	r.SetLogger(logger.New(logger.Config{Level: logger.DebugLevel, Output: &second}))

	require.NoError(t, r.RegisterClasses([]reflect.Type{reflect.TypeFor[Dog]()}))
	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "Registered classes")
}

func TestConcurrentAccess(t *testing.T) {
	r := NewClassRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("dog-%d", i)
			if err := r.RegisterClass(reflect.TypeFor[Dog](), interfaces.WithName(name)); err != nil {
				t.Error(err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := r.GetRequiredClass(fmt.Sprintf("dog-%d", i))
			if err != nil && !errors.Is(err, typejsonErrors.ErrClassNotFound) {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, r.Len())
}
