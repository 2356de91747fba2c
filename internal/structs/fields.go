// Package structs decomposes structured values into named fields and builds
// them back from decoded mappings.
package structs

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Field is one serialized member of a struct type.
type Field struct {
	Name      string // JSON name
	GoName    string
	Index     []int // path through embedded structs
	Type      reflect.Type
	OmitEmpty bool
	tagged    bool
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields lists the serialized fields of struct type t in declaration order.
// Untagged embedded structs are flattened; a shallower field hides deeper
// fields of the same name.
func Fields(t reflect.Type) []Field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}

	type candidate struct {
		Field
		depth int
		order int
	}
	var all []candidate
	seen := map[reflect.Type]bool{}
	order := 0

	var walk func(st reflect.Type, prefix []int, depth int)
	walk = func(st reflect.Type, prefix []int, depth int) {
		if seen[st] {
			return
		}
		seen[st] = true
		defer delete(seen, st)

		for i := 0; i < st.NumField(); i++ {
			sf := st.Field(i)
			name, opts, skip := parseTag(sf)
			if skip {
				continue
			}
			index := append(append([]int{}, prefix...), i)

			if sf.Anonymous && name == "" {
				ft := sf.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					if !sf.IsExported() && isPtr {
						continue
					}
					walk(ft, index, depth+1)
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}

			tagged := name != ""
			if name == "" {
				name = sf.Name
			}
			all = append(all, candidate{
				Field: Field{
					Name:      name,
					GoName:    sf.Name,
					Index:     index,
					Type:      sf.Type,
					OmitEmpty: strings.Contains(opts, "omitempty"),
					tagged:    tagged,
				},
				depth: depth,
				order: order,
			})
			order++
		}
	}
	walk(t, nil, 0)

	// Resolve name collisions: lowest depth wins, then tagged, then first.
	best := make(map[string]candidate, len(all))
	for _, c := range all {
		cur, ok := best[c.Name]
		if !ok || c.depth < cur.depth || (c.depth == cur.depth && c.tagged && !cur.tagged) {
			best[c.Name] = c
		}
	}
	winners := make([]candidate, 0, len(best))
	for _, c := range best {
		winners = append(winners, c)
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].order < winners[j].order })

	out := make([]Field, len(winners))
	for i, c := range winners {
		out[i] = c.Field
	}
	actual, _ := fieldCache.LoadOrStore(t, out)
	return actual.([]Field)
}

// FieldByName returns the field serialized under name.
func FieldByName(t reflect.Type, name string) (Field, bool) {
	for _, f := range Fields(t) {
		if f.Name == name {
			return f, true
		}
	}
	for _, f := range Fields(t) {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

func parseTag(sf reflect.StructField) (name, opts string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", "", true
	}
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx], tag[idx+1:], false
	}
	return tag, "", false
}

// Value returns the field of struct value v. ok is false when an embedded
// pointer on the way is nil.
func Value(v reflect.Value, f Field) (reflect.Value, bool) {
	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return fv, true
}

// settable returns the field of addressable struct value v, allocating nil
// embedded pointers on the way.
func settable(v reflect.Value, f Field) reflect.Value {
	for i, idx := range f.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	return v
}

// IsEmpty reports whether v counts as empty for omitempty.
func IsEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
