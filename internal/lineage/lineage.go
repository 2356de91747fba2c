// Package lineage precomputes type relationships used by the registries:
// ancestor chains through embedded structs, subtype checks and the names
// written into type tags.
package lineage

import (
	"reflect"
	"strings"
	"sync"

	"github.com/MichaelAJay/go-typejson/interfaces"
)

// Ancestor is a struct type embedded (directly or transitively) in another.
type Ancestor struct {
	Type  reflect.Type
	Index []int // field index path from the descendant to the ancestor
}

var ancestorCache sync.Map // reflect.Type -> []Ancestor

// Base strips one level of pointer indirection.
func Base(t reflect.Type) (reflect.Type, bool) {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}
	return t, false
}

// ClassName is the name a type is known by in type tags. Unnamed types fall
// back to their type literal.
func ClassName(t reflect.Type) string {
	base, _ := Base(t)
	if base == nil {
		return ""
	}
	if name := base.Name(); name != "" {
		return name
	}
	return base.String()
}

// TagFor returns the type tag describing values of type t.
func TagFor(t reflect.Type) interfaces.TypeTag {
	base, ptr := Base(t)
	class := ClassName(base)
	if ptr {
		class = "*" + class
	}
	return interfaces.TypeTag{Class: class, Module: base.PkgPath()}
}

// Qualified returns the index key for t: "pkgpath.Name".
func Qualified(t reflect.Type) string {
	base, _ := Base(t)
	return interfaces.TypeTag{Class: ClassName(base), Module: base.PkgPath()}.Qualified()
}

// ParseClass splits the pointer marker off a tag class.
func ParseClass(class string) (name string, ptr bool) {
	if strings.HasPrefix(class, "*") {
		return class[1:], true
	}
	return class, false
}

// RegistryName is the default class registry key for t: its class name with
// any type arguments dropped, so Box[any] registers as "Box".
func RegistryName(t reflect.Type) string {
	name, _ := SplitGeneric(ClassName(t))
	return name
}

// SplitGeneric returns the unparameterized form of a generic instantiation
// name ("Box[int]" -> "Box").
func SplitGeneric(name string) (string, bool) {
	idx := strings.IndexByte(name, '[')
	if idx <= 0 || !strings.HasSuffix(name, "]") {
		return name, false
	}
	return name[:idx], true
}

// Ancestors lists the struct types embedded in t, depth first, most
// specific first. The result is computed once per type.
func Ancestors(t reflect.Type) []Ancestor {
	base, _ := Base(t)
	if base == nil || base.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := ancestorCache.Load(base); ok {
		return cached.([]Ancestor)
	}

	var out []Ancestor
	seen := map[reflect.Type]bool{base: true}
	var walk func(st reflect.Type, prefix []int)
	walk = func(st reflect.Type, prefix []int) {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if !f.Anonymous {
				continue
			}
			ft, _ := Base(f.Type)
			if ft.Kind() != reflect.Struct || seen[ft] {
				continue
			}
			seen[ft] = true
			index := append(append([]int{}, prefix...), i)
			out = append(out, Ancestor{Type: ft, Index: index})
			walk(ft, index)
		}
	}
	walk(base, nil)

	actual, _ := ancestorCache.LoadOrStore(base, out)
	return actual.([]Ancestor)
}

// IsSubtype reports whether t is-a base: the same type, a type embedding
// base, or (for interface bases) a type whose value or pointer implements it.
func IsSubtype(t, base reflect.Type) bool {
	if t == nil || base == nil {
		return false
	}
	if base.Kind() == reflect.Interface {
		return t.Implements(base) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(base))
	}
	tb, _ := Base(t)
	bb, _ := Base(base)
	if tb == bb {
		return true
	}
	for _, a := range Ancestors(tb) {
		if a.Type == bb {
			return true
		}
	}
	return false
}

// Walk calls fn for t and every declared type reachable through its fields,
// elements and keys. Each type is visited once.
func Walk(t reflect.Type, fn func(reflect.Type)) {
	seen := make(map[reflect.Type]bool)
	var visit func(reflect.Type)
	visit = func(t reflect.Type) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			visit(t.Elem())
			return
		case reflect.Map:
			visit(t.Key())
			visit(t.Elem())
		case reflect.Struct:
			for i := 0; i < t.NumField(); i++ {
				if f := t.Field(i); f.IsExported() || f.Anonymous {
					visit(f.Type)
				}
			}
		}
		if t.Name() != "" && t.PkgPath() != "" && t.Kind() != reflect.Interface {
			fn(t)
		}
	}
	visit(t)
}
