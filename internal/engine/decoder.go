package engine

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/codec"
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/jsontree"
	"github.com/MichaelAJay/go-typejson/internal/lineage"
	"github.com/MichaelAJay/go-typejson/internal/structs"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

var mapUnmarshalerType = reflect.TypeFor[interfaces.MapUnmarshaler]()

// Decoder rebuilds values from JSON text carrying type tags.
type Decoder struct {
	cfg *Config
}

// Decode parses data and rebuilds every tagged object, innermost first.
// Untagged objects become map[string]any.
func (d *Decoder) Decode(data []byte) (any, error) {
	return jsontree.Parse(data, d.object)
}

// DecodeReader is Decode over a stream.
func (d *Decoder) DecodeReader(r io.Reader) (any, error) {
	return jsontree.ParseReader(r, d.object)
}

// DecodeInto decodes data and stores the result in the value dst points to.
// Named types reachable from dst are indexed first so their tags resolve.
func (d *Decoder) DecodeInto(data []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", typejsonErrors.ErrInvalidDestination, dst)
	}
	d.cfg.Index.Declare(rv.Type().Elem())

	v, err := d.Decode(data)
	if err != nil {
		return err
	}
	return d.Assign(rv.Elem(), v)
}

// Assign stores a decoded value in the settable dst.
func (d *Decoder) Assign(dst reflect.Value, v any) error {
	a := structs.Assigner{Strict: d.cfg.StrictFields}
	if err := a.Assign(dst, v, ""); err != nil {
		kind := typejsonErrors.ErrIncompatibleValue
		if errors.Is(err, typejsonErrors.ErrUnreconstructable) {
			kind = typejsonErrors.ErrUnreconstructable
		}
		return &typejsonErrors.DecodeError{Class: lineage.ClassName(dst.Type()), Module: modulePath(dst.Type()), Kind: kind, Err: err}
	}
	return nil
}

func (d *Decoder) object(obj *jsontree.Object) (any, error) {
	m := obj.Map()
	raw, ok := m[interfaces.ClassKey]
	if !ok {
		return m, nil
	}
	class, ok := raw.(string)
	if !ok || class == "" {
		return nil, &typejsonErrors.DecodeError{
			Kind: typejsonErrors.ErrUnresolvable,
			Msg:  fmt.Sprintf("%s must be a non-empty string, got %v", interfaces.ClassKey, raw),
		}
	}
	module, _ := m[interfaces.ModuleKey].(string)
	delete(m, interfaces.ClassKey)
	delete(m, interfaces.ModuleKey)

	name, ptr := lineage.ParseClass(class)
	tag := interfaces.TypeTag{Class: name, Module: module}
	t, err := d.Resolve(tag)
	if err != nil {
		return nil, err
	}
	t, _ = lineage.Base(t)
	if ptr {
		t = reflect.PointerTo(t)
	}
	return d.reconstruct(t, m, interfaces.TypeTag{Class: class, Module: module})
}

// Resolve finds the type a tag names: first in the type index, then in the
// class registry, then (for generic instantiations) under the base name.
func (d *Decoder) Resolve(tag interfaces.TypeTag) (reflect.Type, error) {
	if t, ok := d.lookup(tag); ok {
		return t, nil
	}
	if base, ok := lineage.SplitGeneric(tag.Class); ok {
		if t, ok := d.lookup(interfaces.TypeTag{Class: base, Module: tag.Module}); ok {
			d.cfg.Logger.Debug("Resolved generic class by its base name",
				logger.Field{Key: "class", Value: tag.Class},
				logger.Field{Key: "base", Value: base})
			return t, nil
		}
	}
	return nil, &typejsonErrors.DecodeError{
		Class:  tag.Class,
		Module: tag.Module,
		Kind:   typejsonErrors.ErrUnresolvable,
		Msg:    fmt.Sprintf("class '%s' not found in module '%s' nor in the class registry", tag.Class, tag.Module),
	}
}

func (d *Decoder) lookup(tag interfaces.TypeTag) (reflect.Type, bool) {
	if t, ok := d.cfg.Index.Lookup(tag); ok {
		return t, true
	}
	qualified := tag.Qualified()
	for _, t := range d.cfg.Codecs.Types() {
		if t.Kind() != reflect.Interface && lineage.Qualified(t) == qualified {
			d.cfg.Index.Add(t)
			base, _ := lineage.Base(t)
			return base, true
		}
	}
	if d.cfg.Classes == nil {
		return nil, false
	}
	for _, name := range []string{qualified, tag.Class} {
		if t, ok := d.cfg.Classes.GetClass(name); ok {
			d.cfg.Logger.Debug("Found class in registry",
				logger.Field{Key: "class", Value: tag.Class},
				logger.Field{Key: "module", Value: tag.Module})
			return t, true
		}
	}
	return nil, false
}

func (d *Decoder) reconstruct(t reflect.Type, m interfaces.Mapping, tag interfaces.TypeTag) (any, error) {
	base, ptr := lineage.Base(t)

	if reflect.PointerTo(base).Implements(mapUnmarshalerType) {
		p := reflect.New(base)
		err := p.Interface().(interfaces.MapUnmarshaler).UnmarshalMap(m)
		if err == nil {
			return d.finish(p, ptr, tag)
		}
		msg := fmt.Sprintf("decode hook of type %v failed", base)
		if !d.cfg.DecoderFallback {
			return nil, decodeError(tag, typejsonErrors.ErrHookFailed, msg, err)
		}
		d.warnFallback(msg, err)
	}

	if dec, owner, ok := d.cfg.Codecs.LookupDecoder(t); ok {
		out, err := dec(m)
		if err == nil {
			v, aerr := codec.Adapt(reflect.ValueOf(out), t)
			if aerr != nil {
				return nil, decodeError(tag, typejsonErrors.ErrIncompatibleValue,
					fmt.Sprintf("decoding function for type %v returned %T", owner, out), aerr)
			}
			return v.Interface(), nil
		}
		msg := fmt.Sprintf("decoding function for type %v raised", owner)
		if !d.cfg.DecoderFallback {
			return nil, decodeError(tag, typejsonErrors.ErrCodecFailed, msg, err)
		}
		d.warnFallback(msg, err)
	}

	a := structs.Assigner{Strict: d.cfg.StrictFields}

	if raw, ok := m[interfaces.EnumValueKey]; ok && isScalar(base.Kind()) {
		holder := reflect.New(base)
		if err := a.Assign(holder.Elem(), raw, ""); err != nil {
			return nil, decodeError(tag, typejsonErrors.ErrUnreconstructable, "invalid enumeration value", err)
		}
		if ptr {
			return holder.Interface(), nil
		}
		return holder.Elem().Interface(), nil
	}

	if base.Kind() == reflect.Struct {
		v, err := a.New(reflect.PointerTo(base), m)
		if err != nil {
			kind := typejsonErrors.ErrIncompatibleValue
			if errors.Is(err, typejsonErrors.ErrUnreconstructable) {
				kind = typejsonErrors.ErrUnreconstructable
			}
			return nil, decodeError(tag, kind, "", err)
		}
		return d.finish(v, ptr, tag)
	}

	if d.cfg.DecoderFallback {
		d.cfg.Logger.Warn("No way to rebuild tagged object, returning it as a mapping",
			logger.Field{Key: "class", Value: tag.Class},
			logger.Field{Key: "module", Value: tag.Module})
		return m, nil
	}
	return nil, decodeError(tag, typejsonErrors.ErrUnreconstructable,
		fmt.Sprintf("type %v cannot be reconstructed from a mapping", t), nil)
}

// finish validates the rebuilt value p (a pointer) and returns it in the
// requested form.
func (d *Decoder) finish(p reflect.Value, ptr bool, tag interfaces.TypeTag) (any, error) {
	violations, err := d.cfg.Validator.Check(p.Interface())
	if len(violations) > 0 {
		return nil, &typejsonErrors.DecodeError{
			Class:      tag.Class,
			Module:     tag.Module,
			Kind:       typejsonErrors.ErrValidation,
			Violations: violations,
			Err:        err,
		}
	}
	if err != nil {
		return nil, decodeError(tag, typejsonErrors.ErrValidation, "", err)
	}
	if ptr {
		return p.Interface(), nil
	}
	return p.Elem().Interface(), nil
}

func (d *Decoder) warnFallback(msg string, err error) {
	d.cfg.Logger.Warn(msg+"; falling back to the next strategy",
		logger.Field{Key: "error", Value: err.Error()})
}

func decodeError(tag interfaces.TypeTag, kind error, msg string, err error) error {
	return &typejsonErrors.DecodeError{Class: tag.Class, Module: tag.Module, Kind: kind, Msg: msg, Err: err}
}

func modulePath(t reflect.Type) string {
	base, _ := lineage.Base(t)
	return base.PkgPath()
}
