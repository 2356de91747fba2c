// Package redis provides a docstore.Store backed by Redis. Each document is
// one string key holding a serialized envelope; expiry is left to Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MichaelAJay/go-logger"
	"github.com/MichaelAJay/go-serializer"
	"github.com/go-redis/redis/v8"

	"github.com/MichaelAJay/go-typejson/docstore"
	"github.com/MichaelAJay/go-typejson/internal/common"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

const scanBatchSize = 100

// Store implements docstore.Store on a Redis client
type Store struct {
	client     *redis.Client
	codec      *docstore.Codec
	options    *docstore.Options
	logger     logger.Logger
	prefix     string
	ownsClient bool
	closed     atomic.Bool
}

var _ docstore.Store = (*Store)(nil)

// New creates a store on client. Envelopes default to MessagePack and keys
// to the "typejson:" prefix. Close leaves the client open.
func New(client *redis.Client, opts ...docstore.Option) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	options := docstore.Apply(append([]docstore.Option{docstore.WithFormat(serializer.Msgpack)}, opts...)...)
	codec, err := docstore.NewCodec(options.Manager, options.Format())
	if err != nil {
		return nil, err
	}
	prefix := options.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{
		client:  client,
		codec:   codec,
		options: options,
		logger:  options.Logger,
		prefix:  prefix,
	}, nil
}

// NewFromConfig connects to the server described by cfg, or by the
// environment when cfg is nil. The store owns the client and closes it.
func NewFromConfig(cfg *Config, opts ...docstore.Option) (*Store, error) {
	if cfg == nil {
		cfg = LoadConfigFromEnv()
	}
	if cfg.Address == "" {
		return nil, ErrInvalidRedisOptions
	}

	redisOpts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		redisOpts.PoolSize = cfg.PoolSize
	}

	s, err := New(redis.NewClient(redisOpts), opts...)
	if err != nil {
		return nil, err
	}
	s.ownsClient = true
	return s, nil
}

func (s *Store) formatKey(key string) string {
	return s.prefix + key
}

func (s *Store) check(ctx context.Context, key string) error {
	if err := docstore.CheckContext(ctx); err != nil {
		return err
	}
	if s.closed.Load() {
		return typejsonErrors.ErrStoreClosed
	}
	return docstore.ValidateKey(key)
}

func commandError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRedisCommandFailed, op, err)
}

// Put stores value under key
func (s *Store) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	if ttl == 0 {
		ttl = s.options.TTL
	}
	if ttl < 0 {
		ttl = 0
	}

	data, err := s.codec.Seal(value, time.Now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.formatKey(key), data, ttl).Err(); err != nil {
		return commandError("set", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, key string) (*docstore.Envelope, bool, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, false, err
	}
	data, err := s.client.Get(ctx, s.formatKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, commandError("get", err)
	}
	env, err := s.codec.Open(data)
	if err != nil {
		return nil, false, err
	}
	return env, true, nil
}

// Get decodes the document under key
func (s *Store) Get(ctx context.Context, key string) (any, bool, error) {
	env, ok, err := s.load(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := s.codec.Decode(env)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetInto decodes the document under key into dst
func (s *Store) GetInto(ctx context.Context, key string, dst any) (bool, error) {
	env, ok, err := s.load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.codec.DecodeInto(env, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Envelope returns the stored envelope without decoding its payload
func (s *Store) Envelope(ctx context.Context, key string) (*docstore.Envelope, bool, error) {
	return s.load(ctx, key)
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	removed, err := s.client.Del(ctx, s.formatKey(key)).Result()
	if err != nil {
		return commandError("del", err)
	}
	if removed > 0 {
		if hook := s.options.OnEvict; hook != nil {
			common.ExecuteHook(s.logger, func() { hook(key, docstore.EvictDeleted) })
		}
	}
	return nil
}

// Has reports whether a document is stored under key
func (s *Store) Has(ctx context.Context, key string) bool {
	if s.check(ctx, key) != nil {
		return false
	}
	exists, err := s.client.Exists(ctx, s.formatKey(key)).Result()
	if err != nil {
		s.logger.Warn("Failed to check key existence",
			logger.Field{Key: "key", Value: key},
			logger.Field{Key: "error", Value: err.Error()})
		return false
	}
	return exists > 0
}

// Keys returns the keys under the store prefix, sorted
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := docstore.CheckContext(ctx); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, typejsonErrors.ErrStoreClosed
	}

	keys := []string{}
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return nil, commandError("scan", err)
		}
		for _, fullKey := range batch {
			keys = append(keys, strings.TrimPrefix(fullKey, s.prefix))
		}
		if cursor = next; cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// TTL returns the remaining lifetime of key; negative when it has none.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	if err := s.check(ctx, key); err != nil {
		return 0, err
	}
	ttl, err := s.client.TTL(ctx, s.formatKey(key)).Result()
	if err != nil {
		return 0, commandError("ttl", err)
	}
	return ttl, nil
}

// Close marks the store closed, closing the client when the store created it
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Debug("Document store closed", logger.Field{Key: "prefix", Value: s.prefix})
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}
