package serializer

import (
	typejson "github.com/MichaelAJay/go-typejson"
)

// TypedJSONSerializer implements the Serializer interface using type-tagged JSON
type TypedJSONSerializer struct {
	manager *typejson.Manager
	format  []typejson.FormatOption
}

var _ Serializer = (*TypedJSONSerializer)(nil)

// NewTypedJSONSerializer creates a serializer encoding through m. A nil
// manager means the process default manager, looked up on every call.
func NewTypedJSONSerializer(m *typejson.Manager, options ...typejson.FormatOption) *TypedJSONSerializer {
	return &TypedJSONSerializer{manager: m, format: options}
}

func (s *TypedJSONSerializer) current() *typejson.Manager {
	if s.manager != nil {
		return s.manager
	}
	return typejson.GetInstance()
}

// Serialize converts a value to type-tagged JSON bytes
func (s *TypedJSONSerializer) Serialize(value any) ([]byte, error) {
	return s.current().Marshal(value, s.format...)
}

// Deserialize decodes type-tagged JSON into the value valueType points to.
// Passing a *any yields the rebuilt value with its concrete type.
func (s *TypedJSONSerializer) Deserialize(data []byte, valueType any) error {
	return s.current().UnmarshalInto(data, valueType)
}
