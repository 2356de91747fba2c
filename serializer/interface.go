// Package serializer adapts a typejson Manager to the Serializer contract
// used by github.com/MichaelAJay/go-serializer, so type-tagged JSON can be
// plugged in wherever a go-serializer format is accepted.
package serializer

// Serializer defines the interface for serializing and deserializing values
type Serializer interface {
	// Serialize converts a value to bytes
	Serialize(value interface{}) ([]byte, error)

	// Deserialize converts bytes back to a value
	Deserialize(data []byte, valueType interface{}) error
}
