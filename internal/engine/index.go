package engine

import (
	"reflect"
	"sort"
	"sync"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/lineage"
)

// TypeIndex maps qualified names ("pkgpath.Name") to types known to one
// manager. It plays the role of module+name lookup for type tags.
type TypeIndex struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeIndex creates an empty index.
func NewTypeIndex() *TypeIndex {
	return &TypeIndex{types: make(map[string]reflect.Type)}
}

// Add indexes the base type of t. It reports whether the entry is new.
func (x *TypeIndex) Add(t reflect.Type) bool {
	base, _ := lineage.Base(t)
	if base == nil || base.Kind() == reflect.Interface {
		return false
	}
	key := lineage.Qualified(base)

	x.mu.RLock()
	existing, ok := x.types[key]
	x.mu.RUnlock()
	if ok && existing == base {
		return false
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.types[key] = base
	return true
}

// Declare indexes t and every named type reachable through its fields.
func (x *TypeIndex) Declare(t reflect.Type) {
	lineage.Walk(t, func(found reflect.Type) {
		x.Add(found)
	})
}

// Lookup resolves a tag. Module and class must both match.
func (x *TypeIndex) Lookup(tag interfaces.TypeTag) (reflect.Type, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	t, ok := x.types[tag.Qualified()]
	return t, ok
}

// Names lists the indexed qualified names.
func (x *TypeIndex) Names() []string {
	x.mu.RLock()
	out := make([]string, 0, len(x.types))
	for k := range x.types {
		out = append(out, k)
	}
	x.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Len returns the number of indexed types.
func (x *TypeIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.types)
}

// Reset drops every entry.
func (x *TypeIndex) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.types = make(map[string]reflect.Type)
}
