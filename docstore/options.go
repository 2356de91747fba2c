package docstore

import (
	"time"

	"github.com/MichaelAJay/go-logger"
	"github.com/MichaelAJay/go-serializer"

	typejson "github.com/MichaelAJay/go-typejson"
	"github.com/MichaelAJay/go-typejson/internal/common"
)

// EvictReason tells an eviction hook why a document went away
type EvictReason int

const (
	EvictDeleted EvictReason = iota
	EvictExpired
	EvictClosed
)

func (r EvictReason) String() string {
	switch r {
	case EvictDeleted:
		return "deleted"
	case EvictExpired:
		return "expired"
	case EvictClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Option defines a function type for configuring a store
type Option func(*Options)

// Options represents configuration shared by the store backends
type Options struct {
	Manager         *typejson.Manager
	Logger          logger.Logger
	TTL             time.Duration // default document lifetime; 0 means no expiry
	CleanupInterval time.Duration // memory store sweep period; 0 disables sweeping
	KeyPrefix       string        // redis store key namespace
	SecureWipe      bool          // zero removed documents in the memory store
	OnEvict         func(key string, reason EvictReason)

	format    serializer.Format
	formatSet bool
}

// Format returns the configured envelope format, or JSON when none was set.
func (o *Options) Format() serializer.Format {
	if o.formatSet {
		return o.format
	}
	return common.GetDefaultSerializerFormat()
}

// Apply builds Options from opts, filling in the logger
func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = logger.New(logger.DefaultConfig)
	}
	return o
}

// WithManager sets the manager used to encode documents
func WithManager(m *typejson.Manager) Option {
	return func(o *Options) {
		o.Manager = m
	}
}

// WithLogger sets the logger for the store
func WithLogger(log logger.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithFormat sets the go-serializer format of stored envelopes
func WithFormat(format serializer.Format) Option {
	return func(o *Options) {
		o.format = format
		o.formatSet = true
	}
}

// WithTTL sets the lifetime of documents stored with a zero ttl
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// WithCleanupInterval enables the periodic expiry sweep
func WithCleanupInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.CleanupInterval = interval
	}
}

// WithKeyPrefix namespaces keys in shared backends
func WithKeyPrefix(prefix string) Option {
	return func(o *Options) {
		o.KeyPrefix = prefix
	}
}

// WithSecureWipe zeroes document bytes when they are removed
func WithSecureWipe(enabled bool) Option {
	return func(o *Options) {
		o.SecureWipe = enabled
	}
}

// WithEvictionHook registers fn to run when a document is removed. The
// hook runs on its own goroutine.
func WithEvictionHook(fn func(key string, reason EvictReason)) Option {
	return func(o *Options) {
		o.OnEvict = fn
	}
}
