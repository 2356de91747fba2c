package jsontree

import "sort"

// Object is a JSON object that remembers member insertion order. Encoded
// struct fields keep their declaration order through it.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object with room for n members.
func NewObject(n int) *Object {
	return &Object{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// ObjectFromMap copies m into a new object with keys in sorted order.
func ObjectFromMap(m map[string]any) *Object {
	o := NewObject(len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the member stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Map returns the members as a plain map.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}
