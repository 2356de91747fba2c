// Package codec holds the codec registry: encode/decode function pairs keyed
// by concrete type, with lookups that fall back to pointer forms, embedded
// ancestors and registered interfaces.
package codec

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/lineage"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// Default is the process-wide registry with the built-in codecs. Managers
// use it unless given another one, and it outlives them.
var Default = NewWithBuiltins()

type entry struct {
	enc interfaces.EncodeFunc
	dec interfaces.DecodeFunc
}

// Registry implements interfaces.CodecRegistry. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]entry
	ifaces  []reflect.Type // registered interface types, in registration order
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[reflect.Type]entry)}
}

// NewWithBuiltins creates a registry holding the built-in codecs.
func NewWithBuiltins() *Registry {
	r := New()
	RegisterBuiltins(r)
	return r
}

// Register stores enc/dec for t, replacing any previous pair. Either function
// may be nil, not both.
func (r *Registry) Register(t reflect.Type, enc interfaces.EncodeFunc, dec interfaces.DecodeFunc) (bool, error) {
	if t == nil {
		return false, fmt.Errorf("%w: codec type is nil", typejsonErrors.ErrInvalidRegistration)
	}
	if enc == nil && dec == nil {
		return false, fmt.Errorf("%w: codec for %v has neither an encoder nor a decoder", typejsonErrors.ErrInvalidRegistration, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.entries[t]
	r.entries[t] = entry{enc: enc, dec: dec}
	if !replaced && t.Kind() == reflect.Interface {
		r.ifaces = append(r.ifaces, t)
	}
	return replaced, nil
}

// Unregister removes the pair for t. It reports whether one existed.
func (r *Registry) Unregister(t reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[t]; !ok {
		return false
	}
	delete(r.entries, t)
	for i, it := range r.ifaces {
		if it == t {
			r.ifaces = append(r.ifaces[:i], r.ifaces[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether t itself has a registered pair.
func (r *Registry) Has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[t]
	return ok
}

// Types returns the registered types ordered by name.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	out := make([]reflect.Type, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// LookupEncoder finds the encoder for values of type t. The search order is
// t itself, its pointer or element form, the embedded ancestors of t (most
// specific first) and finally registered interfaces t implements. The
// returned function accepts values of type t.
func (r *Registry) LookupEncoder(t reflect.Type) (interfaces.EncodeFunc, reflect.Type, bool) {
	if t == nil {
		return nil, nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[t]; ok && e.enc != nil {
		return e.enc, t, true
	}
	if owner, e, ok := r.variant(t, true); ok {
		return adaptedEncoder(e.enc, owner), owner, true
	}

	base, _ := lineage.Base(t)
	for _, a := range lineage.Ancestors(base) {
		if !exportedPath(base, a.Index) {
			continue
		}
		for _, owner := range []reflect.Type{a.Type, reflect.PointerTo(a.Type)} {
			if e, ok := r.entries[owner]; ok && e.enc != nil {
				return embeddedEncoder(e.enc, owner, a.Index), owner, true
			}
		}
	}

	for _, it := range r.ifaces {
		if t.Implements(it) {
			return r.entries[it].enc, it, true
		}
	}
	return nil, nil, false
}

// LookupDecoder finds the decoder producing values of type t: t itself, its
// pointer or element form, or the decoder of an embedded ancestor, in which
// case the decoded ancestor is placed into a zero t.
func (r *Registry) LookupDecoder(t reflect.Type) (interfaces.DecodeFunc, reflect.Type, bool) {
	if t == nil {
		return nil, nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[t]; ok && e.dec != nil {
		return e.dec, t, true
	}
	if owner, e, ok := r.variant(t, false); ok {
		return adaptedDecoder(e.dec, t), owner, true
	}

	base, _ := lineage.Base(t)
	for _, a := range lineage.Ancestors(base) {
		if !exportedPath(base, a.Index) {
			continue
		}
		for _, owner := range []reflect.Type{a.Type, reflect.PointerTo(a.Type)} {
			if e, ok := r.entries[owner]; ok && e.dec != nil {
				return embeddedDecoder(e.dec, t, a.Index), owner, true
			}
		}
	}
	return nil, nil, false
}

// variant looks up the pointer form of t, or its element form when t is a
// pointer. Caller holds the read lock.
func (r *Registry) variant(t reflect.Type, encoding bool) (reflect.Type, entry, bool) {
	var other reflect.Type
	if t.Kind() == reflect.Pointer {
		other = t.Elem()
	} else {
		other = reflect.PointerTo(t)
	}
	e, ok := r.entries[other]
	if !ok || (encoding && e.enc == nil) || (!encoding && e.dec == nil) {
		return nil, entry{}, false
	}
	return other, e, true
}

func exportedPath(t reflect.Type, index []int) bool {
	cur := t
	for _, i := range index {
		f := cur.Field(i)
		if !f.IsExported() {
			return false
		}
		cur, _ = lineage.Base(f.Type)
	}
	return true
}

// Adapt converts v to want when the two differ by one pointer level.
func Adapt(v reflect.Value, want reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil value for %v", typejsonErrors.ErrIncompatibleValue, want)
	}
	switch {
	case v.Type() == want:
		return v, nil
	case want.Kind() == reflect.Interface && v.Type().Implements(want):
		out := reflect.New(want).Elem()
		out.Set(v)
		return out, nil
	case want.Kind() == reflect.Pointer && want.Elem() == v.Type():
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, nil
	case v.Kind() == reflect.Pointer && v.Type().Elem() == want:
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %v", typejsonErrors.ErrIncompatibleValue, v.Type())
		}
		return v.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %v is not %v", typejsonErrors.ErrIncompatibleValue, v.Type(), want)
}

func adaptedEncoder(enc interfaces.EncodeFunc, owner reflect.Type) interfaces.EncodeFunc {
	return func(value any) (interfaces.Mapping, error) {
		v, err := Adapt(reflect.ValueOf(value), owner)
		if err != nil {
			return nil, err
		}
		return enc(v.Interface())
	}
}

func embeddedEncoder(enc interfaces.EncodeFunc, owner reflect.Type, index []int) interfaces.EncodeFunc {
	return func(value any) (interfaces.Mapping, error) {
		v := reflect.Indirect(reflect.ValueOf(value))
		if !v.IsValid() {
			return nil, fmt.Errorf("%w: nil value", typejsonErrors.ErrIncompatibleValue)
		}
		f, err := v.FieldByIndexErr(index)
		if err != nil {
			return nil, err
		}
		f, err = Adapt(f, owner)
		if err != nil {
			return nil, err
		}
		return enc(f.Interface())
	}
}

func adaptedDecoder(dec interfaces.DecodeFunc, want reflect.Type) interfaces.DecodeFunc {
	return func(m interfaces.Mapping) (any, error) {
		out, err := dec(m)
		if err != nil {
			return nil, err
		}
		v, err := Adapt(reflect.ValueOf(out), want)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
}

func embeddedDecoder(dec interfaces.DecodeFunc, want reflect.Type, index []int) interfaces.DecodeFunc {
	return func(m interfaces.Mapping) (any, error) {
		out, err := dec(m)
		if err != nil {
			return nil, err
		}
		base, ptr := lineage.Base(want)
		holder := reflect.New(base)
		f := holder.Elem()
		for i, idx := range index {
			f = f.Field(idx)
			if i < len(index)-1 && f.Kind() == reflect.Pointer {
				if f.IsNil() {
					f.Set(reflect.New(f.Type().Elem()))
				}
				f = f.Elem()
			}
		}
		v, err := Adapt(reflect.ValueOf(out), f.Type())
		if err != nil {
			return nil, err
		}
		f.Set(v)
		if ptr {
			return holder.Interface(), nil
		}
		return holder.Elem().Interface(), nil
	}
}

// RegisterFor registers typed codec functions for T. Either function may be
// nil.
func RegisterFor[T any](r interfaces.CodecRegistry, enc func(T) (interfaces.Mapping, error), dec func(interfaces.Mapping) (T, error)) (bool, error) {
	t := reflect.TypeFor[T]()
	var encFn interfaces.EncodeFunc
	if enc != nil {
		encFn = func(value any) (interfaces.Mapping, error) {
			tv, ok := value.(T)
			if !ok {
				return nil, fmt.Errorf("%w: expected %v, got %T", typejsonErrors.ErrIncompatibleValue, t, value)
			}
			return enc(tv)
		}
	}
	var decFn interfaces.DecodeFunc
	if dec != nil {
		decFn = func(m interfaces.Mapping) (any, error) {
			return dec(m)
		}
	}
	return r.Register(t, encFn, decFn)
}

var _ interfaces.CodecRegistry = (*Registry)(nil)
