package typejson

import (
	"github.com/MichaelAJay/go-logger"
	"github.com/go-playground/validator/v10"

	"github.com/MichaelAJay/go-typejson/interfaces"
)

// Option defines a function type for configuring a Manager
type Option func(*Options)

// Options represents configuration options for a Manager
type Options struct {
	Logger           logger.Logger
	ClassRegistry    interfaces.ClassRegistry         // used as is when set
	RegistryProvider interfaces.ClassRegistryProvider // consulted when ClassRegistry is nil
	Codecs           interfaces.CodecRegistry
	Validator        *validator.Validate
	Middleware       []interfaces.RegistryMiddleware

	StrictFields    bool
	EncoderFallback bool
	DecoderFallback bool
}

// WithLogger sets the logger for the manager and its class registry
func WithLogger(log logger.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithClassRegistry injects a class registry implementation
func WithClassRegistry(registry interfaces.ClassRegistry) Option {
	return func(o *Options) {
		o.ClassRegistry = registry
	}
}

// WithRegistryProvider creates the class registry from provider
func WithRegistryProvider(provider interfaces.ClassRegistryProvider) Option {
	return func(o *Options) {
		o.RegistryProvider = provider
	}
}

// WithCodecRegistry replaces the process-wide codec registry for this manager
func WithCodecRegistry(codecs interfaces.CodecRegistry) Option {
	return func(o *Options) {
		o.Codecs = codecs
	}
}

// WithValidator sets the validator run on rebuilt structured types
func WithValidator(v *validator.Validate) Option {
	return func(o *Options) {
		o.Validator = v
	}
}

// WithRegistryMiddleware wraps the class registry, first middleware outermost
func WithRegistryMiddleware(middlewares ...interfaces.RegistryMiddleware) Option {
	return func(o *Options) {
		o.Middleware = append(o.Middleware, middlewares...)
	}
}

// WithStrictFields rejects encoded fields that name no struct field
func WithStrictFields(strict bool) Option {
	return func(o *Options) {
		o.StrictFields = strict
	}
}

// WithEncoderFallback logs failing hooks and codecs and tries the next
// strategy instead of failing
func WithEncoderFallback(enabled bool) Option {
	return func(o *Options) {
		o.EncoderFallback = enabled
	}
}

// WithDecoderFallback logs failing hooks and codecs and tries the next
// strategy; tagged objects nothing can rebuild are returned as mappings
func WithDecoderFallback(enabled bool) Option {
	return func(o *Options) {
		o.DecoderFallback = enabled
	}
}

// Format controls how encoded documents are written.
type Format struct {
	Indent     int  // spaces per level; 0 writes compact text
	EscapeHTML bool // escape <, > and & in strings
	SortKeys   bool // sort every object's keys, type tags included
}

// FormatOption configures a Format
type FormatOption func(*Format)

// WithIndent pretty-prints with n spaces per level
func WithIndent(n int) FormatOption {
	return func(f *Format) {
		f.Indent = n
	}
}

// WithEscapeHTML escapes HTML-significant characters in strings
func WithEscapeHTML(escape bool) FormatOption {
	return func(f *Format) {
		f.EscapeHTML = escape
	}
}

// WithSortKeys writes every object with its keys sorted
func WithSortKeys(sorted bool) FormatOption {
	return func(f *Format) {
		f.SortKeys = sorted
	}
}
