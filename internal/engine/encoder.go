package engine

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/jsontree"
	"github.com/MichaelAJay/go-typejson/internal/lineage"
	"github.com/MichaelAJay/go-typejson/internal/structs"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// maxDepth bounds recursion so cyclic values fail instead of exhausting
// the stack.
const maxDepth = 10000

// Encoder turns values into JSON trees with type tags.
type Encoder struct {
	cfg *Config
}

// Encode returns the tree for v. Trees hold nil, bool, string, int64,
// uint64, float64, []any, map[string]any and *jsontree.Object.
func (e *Encoder) Encode(v any) (any, error) {
	return e.value(reflect.ValueOf(v), 0)
}

// Index returns the type index the encoder records tagged types in.
func (e *Encoder) Index() *TypeIndex {
	return e.cfg.Index
}

func (e *Encoder) value(rv reflect.Value, depth int) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	t := rv.Type()
	if depth > maxDepth {
		return nil, &typejsonErrors.EncodeError{
			Type: t.String(),
			Kind: typejsonErrors.ErrUnencodable,
			Msg:  "value nests too deeply, possibly a circular reference",
		}
	}

	switch t.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return e.value(rv.Elem(), depth+1)
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
	}

	if isScalar(t.Kind()) && t.PkgPath() == "" {
		return primitive(rv)
	}

	if out, ok, err := e.viaHook(rv, depth); ok || err != nil {
		return out, err
	}
	if out, ok, err := e.viaCodec(rv, depth); ok || err != nil {
		return out, err
	}

	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return e.structValue(rv.Elem(), t, depth)
		}
		return e.value(rv.Elem(), depth+1)
	case reflect.Struct:
		return e.structValue(rv, t, depth)
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			item, err := e.value(rv.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case reflect.Map:
		return e.mapValue(rv, depth)
	}

	if isScalar(t.Kind()) {
		return e.enumValue(rv, t)
	}
	return nil, &typejsonErrors.EncodeError{
		Type: t.String(),
		Kind: typejsonErrors.ErrUnencodable,
		Msg:  fmt.Sprintf("object of type %v is not JSON serializable", t),
	}
}

func (e *Encoder) viaHook(rv reflect.Value, depth int) (any, bool, error) {
	hook, ok := structs.As[interfaces.MapMarshaler](rv)
	if !ok {
		return nil, false, nil
	}
	m, err := hook.MarshalMap()
	if err != nil {
		msg := fmt.Sprintf("encode hook of type %v failed", rv.Type())
		if e.cfg.EncoderFallback {
			e.warnFallback(msg, err)
			return nil, false, nil
		}
		return nil, false, &typejsonErrors.EncodeError{Type: rv.Type().String(), Kind: typejsonErrors.ErrHookFailed, Msg: msg, Err: err}
	}
	out, err := e.tagged(m, rv.Type(), depth)
	return out, err == nil, err
}

func (e *Encoder) viaCodec(rv reflect.Value, depth int) (any, bool, error) {
	enc, owner, ok := e.cfg.Codecs.LookupEncoder(rv.Type())
	if !ok || !rv.CanInterface() {
		return nil, false, nil
	}
	m, err := enc(rv.Interface())
	if err != nil {
		msg := fmt.Sprintf("encoding function for type %v raised", owner)
		if e.cfg.EncoderFallback {
			e.warnFallback(msg, err)
			return nil, false, nil
		}
		return nil, false, &typejsonErrors.EncodeError{Type: rv.Type().String(), Kind: typejsonErrors.ErrCodecFailed, Msg: msg, Err: err}
	}
	out, err := e.tagged(m, rv.Type(), depth)
	return out, err == nil, err
}

func (e *Encoder) warnFallback(msg string, err error) {
	e.cfg.Logger.Warn(msg+"; falling back to the next strategy",
		logger.Field{Key: "error", Value: err.Error()})
}

// tagged encodes the values of m and adds the tag of t unless m carries its
// own.
func (e *Encoder) tagged(m interfaces.Mapping, t reflect.Type, depth int) (any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := jsontree.NewObject(len(m) + 2)
	for _, k := range keys {
		v, err := e.value(reflect.ValueOf(m[k]), depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(k, v)
	}
	if !obj.Has(interfaces.ClassKey) {
		e.tag(obj, t)
	}
	return obj, nil
}

func (e *Encoder) tag(obj *jsontree.Object, t reflect.Type) {
	tag := lineage.TagFor(t)
	obj.Set(interfaces.ClassKey, tag.Class)
	obj.Set(interfaces.ModuleKey, tag.Module)
	e.cfg.Index.Add(t)
}

func (e *Encoder) structValue(rv reflect.Value, t reflect.Type, depth int) (any, error) {
	fields := structs.Fields(rv.Type())
	obj := jsontree.NewObject(len(fields) + 2)
	for _, f := range fields {
		fv, ok := structs.Value(rv, f)
		if !ok || (f.OmitEmpty && structs.IsEmpty(fv)) {
			continue
		}
		v, err := e.value(fv, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(f.Name, v)
	}
	// anonymous structs stay plain objects
	if rv.Type().Name() != "" {
		e.tag(obj, t)
	}
	return obj, nil
}

func (e *Encoder) mapValue(rv reflect.Value, depth int) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := structs.KeyString(iter.Key())
		if !ok {
			return nil, &typejsonErrors.EncodeError{
				Type: rv.Type().String(),
				Kind: typejsonErrors.ErrUnencodable,
				Msg:  fmt.Sprintf("map key type %v has no string form", iter.Key().Type()),
			}
		}
		v, err := e.value(iter.Value(), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// enumValue encodes a named scalar as its primitive value and, for
// fmt.Stringer types, its name.
func (e *Encoder) enumValue(rv reflect.Value, t reflect.Type) (any, error) {
	v, err := primitive(rv)
	if err != nil {
		return nil, err
	}
	obj := jsontree.NewObject(4)
	obj.Set(interfaces.EnumValueKey, v)
	if s, ok := structs.As[fmt.Stringer](rv); ok {
		obj.Set(interfaces.EnumNameKey, s.String())
	}
	e.tag(obj, t)
	return obj, nil
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func primitive(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return u, nil
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &typejsonErrors.EncodeError{
				Type: rv.Type().String(),
				Kind: typejsonErrors.ErrUnencodable,
				Msg:  fmt.Sprintf("float value %v is not representable in JSON", f),
			}
		}
		if rv.Kind() == reflect.Float32 {
			// shortest float32 text, so 0.1 stays 0.1
			f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
		}
		return f, nil
	}
	return nil, fmt.Errorf("not a scalar: %v", rv.Type())
}
