package structs

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// Assigner stores decoded tree values into typed destinations.
type Assigner struct {
	// Strict rejects mapping keys that name no field.
	Strict bool
}

// Assign stores src in the settable dst, converting numbers, containers and
// mappings as needed. path names dst in error messages.
func (a Assigner) Assign(dst reflect.Value, src any, path string) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	sv := reflect.ValueOf(src)
	dt := dst.Type()

	if sv.Type().AssignableTo(dt) {
		dst.Set(sv)
		return nil
	}
	if sv.Kind() == reflect.Pointer && sv.Type().Elem().AssignableTo(dt) {
		if sv.IsNil() {
			dst.Set(reflect.Zero(dt))
		} else {
			dst.Set(sv.Elem())
		}
		return nil
	}

	switch dt.Kind() {
	case reflect.Interface:
		if sv.Kind() != reflect.Pointer && reflect.PointerTo(sv.Type()).Implements(dt) {
			p := reflect.New(sv.Type())
			p.Elem().Set(sv)
			dst.Set(p)
			return nil
		}
		return mismatch(path, src, dt)

	case reflect.Pointer:
		elem := reflect.New(dt.Elem())
		if err := a.Assign(elem.Elem(), src, path); err != nil {
			return err
		}
		dst.Set(elem)
		return nil

	case reflect.Bool:
		b, ok := src.(bool)
		if !ok {
			return mismatch(path, src, dt)
		}
		dst.SetBool(b)
		return nil

	case reflect.String:
		s, ok := src.(string)
		if !ok {
			return mismatch(path, src, dt)
		}
		dst.SetString(s)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(src, path, dt)
		if err != nil {
			return err
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("%w: %s: %d overflows %v", typejsonErrors.ErrIncompatibleValue, where(path), n, dt)
		}
		dst.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u, ok := src.(uint64); ok {
			if dst.OverflowUint(u) {
				return fmt.Errorf("%w: %s: %d overflows %v", typejsonErrors.ErrIncompatibleValue, where(path), u, dt)
			}
			dst.SetUint(u)
			return nil
		}
		n, err := toInt(src, path, dt)
		if err != nil {
			return err
		}
		if n < 0 || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("%w: %s: %d overflows %v", typejsonErrors.ErrIncompatibleValue, where(path), n, dt)
		}
		dst.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		var f float64
		switch n := src.(type) {
		case float64:
			f = n
		case int64:
			f = float64(n)
		case uint64:
			f = float64(n)
		case int:
			f = float64(n)
		default:
			return mismatch(path, src, dt)
		}
		if dst.OverflowFloat(f) {
			return fmt.Errorf("%w: %s: %v overflows %v", typejsonErrors.ErrIncompatibleValue, where(path), f, dt)
		}
		dst.SetFloat(f)
		return nil

	case reflect.Slice:
		items, ok := src.([]any)
		if !ok {
			return mismatch(path, src, dt)
		}
		out := reflect.MakeSlice(dt, len(items), len(items))
		for i, item := range items {
			if err := a.Assign(out.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil

	case reflect.Array:
		items, ok := src.([]any)
		if !ok {
			return mismatch(path, src, dt)
		}
		if len(items) != dt.Len() {
			return fmt.Errorf("%w: %s: expected %d elements, got %d", typejsonErrors.ErrIncompatibleValue, where(path), dt.Len(), len(items))
		}
		out := reflect.New(dt).Elem()
		for i, item := range items {
			if err := a.Assign(out.Index(i), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil

	case reflect.Map:
		m, ok := src.(map[string]any)
		if !ok {
			return mismatch(path, src, dt)
		}
		out := reflect.MakeMapWithSize(dt, len(m))
		for k, item := range m {
			key, err := mapKey(k, dt.Key(), path)
			if err != nil {
				return err
			}
			val := reflect.New(dt.Elem()).Elem()
			if err := a.Assign(val, item, join(path, k)); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		dst.Set(out)
		return nil

	case reflect.Struct:
		m, ok := src.(map[string]any)
		if !ok {
			return mismatch(path, src, dt)
		}
		return a.Struct(dst, m, path)
	}
	return mismatch(path, src, dt)
}

// Struct fills the addressable struct value dst from m.
func (a Assigner) Struct(dst reflect.Value, m map[string]any, path string) error {
	t := dst.Type()
	for key, raw := range m {
		f, ok := FieldByName(t, key)
		if !ok {
			if a.Strict {
				return fmt.Errorf("%w: %s: unknown field %q for %v", typejsonErrors.ErrUnreconstructable, where(path), key, t)
			}
			continue
		}
		if err := a.Assign(settable(dst, f), raw, join(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// New builds a value of type t from m. t may be a struct or a pointer to one.
func (a Assigner) New(t reflect.Type, m map[string]any) (reflect.Value, error) {
	ptr := t.Kind() == reflect.Pointer
	base := t
	if ptr {
		base = t.Elem()
	}
	if base.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %v is not a structured type", typejsonErrors.ErrUnreconstructable, t)
	}
	holder := reflect.New(base)
	if err := a.Struct(holder.Elem(), m, ""); err != nil {
		return reflect.Value{}, err
	}
	if ptr {
		return holder, nil
	}
	return holder.Elem(), nil
}

func toInt(src any, path string, dt reflect.Type) (int64, error) {
	switch n := src.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s: %d overflows %v", typejsonErrors.ErrIncompatibleValue, where(path), n, dt)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s: %v is not an integer", typejsonErrors.ErrIncompatibleValue, where(path), n)
		}
		return int64(n), nil
	}
	return 0, mismatch(path, src, dt)
}

func mapKey(k string, kt reflect.Type, path string) (reflect.Value, error) {
	key := reflect.New(kt).Elem()
	var err error
	switch kt.Kind() {
	case reflect.String:
		key.SetString(k)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		if n, err = strconv.ParseInt(k, 10, kt.Bits()); err == nil {
			key.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		if n, err = strconv.ParseUint(k, 10, kt.Bits()); err == nil {
			key.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(k, kt.Bits()); err == nil {
			key.SetFloat(f)
		}
	case reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(k); err == nil {
			key.SetBool(b)
		}
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s: unsupported map key type %v", typejsonErrors.ErrIncompatibleValue, where(path), kt)
	}
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s: invalid %v key %q", typejsonErrors.ErrIncompatibleValue, where(path), kt, k)
	}
	return key, nil
}

// KeyString renders a map key for encoding. ok is false for key kinds that
// have no string form.
func KeyString(k reflect.Value) (string, bool) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, k.Type().Bits()), true
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), true
	}
	return "", false
}

func mismatch(path string, src any, dt reflect.Type) error {
	return fmt.Errorf("%w: %s: cannot use %T as %v", typejsonErrors.ErrIncompatibleValue, where(path), src, dt)
}

func where(path string) string {
	if path == "" {
		return "value"
	}
	return fmt.Sprintf("field %q", path)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
