package common

import (
	"fmt"

	"github.com/MichaelAJay/go-serializer"
)

// GetSerializer returns a serializer instance for the given format.
// Stores use it to encode the envelopes wrapping typed JSON documents.
//
// Supported formats:
// - JSON: human-readable, the payload appears as base64 text
// - Binary (Gob): Go-native and compact, the in-memory store default
// - MessagePack: binary and cross-language, the redis store default
func GetSerializer(format serializer.Format) (serializer.Serializer, error) {
	switch format {
	case serializer.JSON:
		return serializer.NewJSONSerializer(), nil
	case serializer.Binary:
		return serializer.NewGobSerializer(), nil
	case serializer.Msgpack:
		return serializer.NewMsgpackSerializer(), nil
	default:
		return nil, fmt.Errorf("unsupported serializer format: %s", format)
	}
}

// GetDefaultSerializerFormat returns the envelope format used when a store
// does not pick one.
func GetDefaultSerializerFormat() serializer.Format {
	return serializer.JSON
}
