// Package engine turns values into type-tagged JSON trees and back.
package engine

import (
	"io"
	"sync"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/codec"
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/structs"
)

// Config carries what an Encoder and a Decoder share.
type Config struct {
	Codecs    interfaces.CodecRegistry
	Classes   interfaces.ClassRegistry // may be nil
	Index     *TypeIndex
	Validator *structs.Validator
	Logger    logger.Logger

	// StrictFields rejects mapping keys that name no struct field.
	StrictFields bool
	// EncoderFallback logs failing hooks and codecs and moves on to the next
	// strategy instead of returning an error.
	EncoderFallback bool
	// DecoderFallback does the same when decoding; a tagged object nothing
	// can rebuild is returned as a plain mapping.
	DecoderFallback bool
}

var (
	discardOnce sync.Once
	discard     logger.Logger
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() logger.Logger {
	discardOnce.Do(func() {
		discard = logger.New(logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	})
	return discard
}

// New builds an encoder and a decoder sharing cfg. Missing collaborators
// get defaults; the codec default is codec.Default.
func New(cfg Config) (*Encoder, *Decoder) {
	if cfg.Codecs == nil {
		cfg.Codecs = codec.Default
	}
	if cfg.Index == nil {
		cfg.Index = NewTypeIndex()
	}
	if cfg.Validator == nil {
		cfg.Validator = structs.NewValidator()
	}
	if cfg.Logger == nil {
		cfg.Logger = DiscardLogger()
	}
	shared := &cfg
	return &Encoder{cfg: shared}, &Decoder{cfg: shared}
}
