// Package typejson encodes Go values to JSON with embedded type tags and
// decodes them back into their original concrete types.
//
// Every named struct, enumeration and codec-handled value is written as an
// object carrying "__class__" and "__module__". On decode the tag is
// resolved through the manager's type index, then its class registry, then
// (for generic instantiations) the registered unparameterized name.
//
// The package-level functions use the process default manager; see
// GetInstance.
package typejson

import (
	"io"
	"reflect"

	"github.com/MichaelAJay/go-typejson/interfaces"
)

// Dumps encodes v to a JSON string.
func Dumps(v any, options ...FormatOption) (string, error) {
	return GetInstance().Dumps(v, options...)
}

// Marshal encodes v to JSON text.
func Marshal(v any, options ...FormatOption) ([]byte, error) {
	return GetInstance().Marshal(v, options...)
}

// Dump encodes v and writes the text to w.
func Dump(v any, w io.Writer, options ...FormatOption) error {
	return GetInstance().Dump(v, w, options...)
}

// Loads decodes a JSON string.
func Loads(text string) (any, error) {
	return GetInstance().Loads(text)
}

// Unmarshal decodes JSON text.
func Unmarshal(data []byte) (any, error) {
	return GetInstance().Unmarshal(data)
}

// Load decodes the JSON text read from r.
func Load(r io.Reader) (any, error) {
	return GetInstance().Load(r)
}

// LoadsInto decodes text into the value dst points to.
func LoadsInto(text string, dst any) error {
	return GetInstance().LoadsInto(text, dst)
}

// LoadsAs decodes text into a T.
func LoadsAs[T any](text string) (T, error) {
	return DecodeAs[T](GetInstance(), []byte(text))
}

// RegisterCodec registers enc and dec for t with the default manager.
func RegisterCodec(t reflect.Type, enc interfaces.EncodeFunc, dec interfaces.DecodeFunc) error {
	return GetInstance().RegisterCodec(t, enc, dec)
}

// UnregisterCodec removes the codec registered for t.
func UnregisterCodec(t reflect.Type) bool {
	return GetInstance().UnregisterCodec(t)
}

// RegisterClass registers t with the default manager's class registry.
func RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	return GetInstance().RegisterClass(t, opts...)
}

// RegisterClasses registers several types with the default manager's class
// registry.
func RegisterClasses(types ...reflect.Type) error {
	return GetInstance().RegisterClasses(types...)
}

// Declare indexes the types of samples with the default manager.
func Declare(samples ...any) {
	GetInstance().Declare(samples...)
}
