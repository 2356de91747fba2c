// Package docstore persists values as type-tagged JSON documents. A store
// encodes each value with a typejson Manager, wraps the text in an Envelope
// and hands the serialized envelope to its backend.
package docstore

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/MichaelAJay/go-serializer"

	typejson "github.com/MichaelAJay/go-typejson"
	"github.com/MichaelAJay/go-typejson/internal/common"
	"github.com/MichaelAJay/go-typejson/internal/lineage"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// Store is implemented by every document backend.
type Store interface {
	// Put stores value under key. A ttl of 0 uses the store default; a
	// negative default means documents never expire.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get decodes the document under key with its concrete types restored.
	Get(ctx context.Context, key string) (any, bool, error)

	// GetInto decodes the document under key into the value dst points to.
	GetInto(ctx context.Context, key string, dst any) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Has(ctx context.Context, key string) bool
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Envelope is the unit a backend stores: the typed JSON document plus the
// tag of its top-level value.
type Envelope struct {
	Class    string    `json:"class" msgpack:"class"`
	Module   string    `json:"module" msgpack:"module"`
	Payload  []byte    `json:"payload" msgpack:"payload"`
	StoredAt time.Time `json:"stored_at" msgpack:"stored_at"`
}

// Tag returns the type tag recorded for the stored value.
func (e *Envelope) Tag() typejson.TypeTag {
	return typejson.TypeTag{Class: e.Class, Module: e.Module}
}

// Codec turns values into serialized envelopes and back.
type Codec struct {
	manager    *typejson.Manager
	serializer serializer.Serializer
}

// NewCodec creates a codec encoding documents with m (the process default
// manager when nil) and envelopes with the given go-serializer format.
func NewCodec(m *typejson.Manager, format serializer.Format) (*Codec, error) {
	s, err := common.GetSerializer(format)
	if err != nil {
		return nil, err
	}
	return &Codec{manager: m, serializer: s}, nil
}

func (c *Codec) current() *typejson.Manager {
	if c.manager != nil {
		return c.manager
	}
	return typejson.GetInstance()
}

// Seal encodes value and serializes its envelope.
func (c *Codec) Seal(value any, now time.Time) ([]byte, error) {
	payload, err := c.current().Marshal(value)
	if err != nil {
		return nil, err
	}
	env := Envelope{Payload: payload, StoredAt: now.UTC()}
	if value != nil {
		tag := lineage.TagFor(reflect.TypeOf(value))
		env.Class, env.Module = tag.Class, tag.Module
	}
	data, err := c.serializer.Serialize(&env)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	return data, nil
}

// Open deserializes an envelope.
func (c *Codec) Open(data []byte) (*Envelope, error) {
	var env Envelope
	if err := c.serializer.Deserialize(data, &env); err != nil {
		return nil, fmt.Errorf("failed to deserialize envelope: %w", err)
	}
	return &env, nil
}

// Decode rebuilds the value held by env.
func (c *Codec) Decode(env *Envelope) (any, error) {
	return c.current().Unmarshal(env.Payload)
}

// DecodeInto decodes the value held by env into the value dst points to.
func (c *Codec) DecodeInto(env *Envelope, dst any) error {
	return c.current().UnmarshalInto(env.Payload, dst)
}

// CheckContext reports a canceled or expired context as ErrContextCanceled.
func CheckContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", typejsonErrors.ErrContextCanceled, err)
	}
	return nil
}

// ValidateKey rejects empty keys.
func ValidateKey(key string) error {
	if key == "" {
		return typejsonErrors.ErrInvalidKey
	}
	return nil
}
