package interfaces

import (
	"reflect"

	"github.com/MichaelAJay/go-logger"
)

// Mapping is the string-keyed mapping produced by hooks and codecs and
// consumed by decoders.
type Mapping = map[string]any

// Keys reserved by the wire format.
const (
	ClassKey     = "__class__"
	ModuleKey    = "__module__"
	EnumValueKey = "_value_"
	EnumNameKey  = "_name_"
)

// TypeTag identifies the concrete type an encoded object came from.
type TypeTag struct {
	Class  string
	Module string
}

// Qualified returns "module.Class", or just the class for module-less types.
func (t TypeTag) Qualified() string {
	if t.Module == "" {
		return t.Class
	}
	return t.Module + "." + t.Class
}

// IsZero reports whether the tag carries no class.
func (t TypeTag) IsZero() bool {
	return t.Class == ""
}

// EncodeFunc turns a value into a mapping.
type EncodeFunc func(value any) (Mapping, error)

// DecodeFunc turns a mapping (type tag removed) back into a value.
type DecodeFunc func(m Mapping) (any, error)

// MapMarshaler is implemented by types that encode themselves. It takes
// precedence over registered codecs and struct decomposition.
type MapMarshaler interface {
	MarshalMap() (Mapping, error)
}

// MapUnmarshaler is implemented (on the pointer receiver) by types that
// decode themselves from a mapping. The receiver is a fresh zero value.
type MapUnmarshaler interface {
	UnmarshalMap(m Mapping) error
}

// Validatable is called after a structured type was constructed and its
// field constraints passed.
type Validatable interface {
	Validate() error
}

// CodecRegistry maps concrete types to encode/decode function pairs.
type CodecRegistry interface {
	// Register stores the codec for t, replacing any previous entry.
	// replaced reports whether an entry existed.
	Register(t reflect.Type, enc EncodeFunc, dec DecodeFunc) (replaced bool, err error)
	Unregister(t reflect.Type) bool
	// LookupEncoder finds the encoder for t or its nearest registered ancestor.
	// owner is the registered type the encoder belongs to.
	LookupEncoder(t reflect.Type) (enc EncodeFunc, owner reflect.Type, ok bool)
	// LookupDecoder finds the decoder registered for t (or its pointer/elem form).
	LookupDecoder(t reflect.Type) (dec DecodeFunc, owner reflect.Type, ok bool)
	Has(t reflect.Type) bool
	Types() []reflect.Type
}

// ClassRegistry maps registration names to live types. It is consulted when
// the qualified type index cannot resolve a type tag.
type ClassRegistry interface {
	Setup() error
	Teardown()
	SetLogger(log logger.Logger)

	RegisterClass(t reflect.Type, opts ...RegisterOption) error
	RegisterClasses(types []reflect.Type) error
	RegisterClassesMap(classes map[string]reflect.Type) error
	UnregisterClass(t reflect.Type) error
	UnregisterClassByName(name string) error

	GetClass(name string) (reflect.Type, bool)
	GetRequiredClass(name string) (reflect.Type, error)
	GetRequiredSubclass(name string, base reflect.Type) (reflect.Type, error)
	GetRequiredStruct(name string) (reflect.Type, error)
	HasClass(name string) bool
	HasSubclass(name string, base reflect.Type) bool

	Names() []string
	Len() int
}

// ClassRegistryProvider creates class registries.
type ClassRegistryProvider interface {
	Create(log logger.Logger) (ClassRegistry, error)
}

// RegistryMiddleware decorates a ClassRegistry.
type RegistryMiddleware func(next ClassRegistry) ClassRegistry

// RegisterOptions control a single class registration.
type RegisterOptions struct {
	Name            string
	WarnIfDuplicate bool
}

// RegisterOption configures a class registration.
type RegisterOption func(*RegisterOptions)

// WithName registers the class under name instead of its own short name.
func WithName(name string) RegisterOption {
	return func(o *RegisterOptions) {
		o.Name = name
	}
}

// WithoutDuplicateWarning suppresses the overwrite warning.
func WithoutDuplicateWarning() RegisterOption {
	return func(o *RegisterOptions) {
		o.WarnIfDuplicate = false
	}
}

// ApplyRegisterOptions resolves opts over the defaults.
func ApplyRegisterOptions(opts ...RegisterOption) RegisterOptions {
	o := RegisterOptions{WarnIfDuplicate: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
