// Package memory provides an in-process docstore.Store. Documents are kept
// as serialized envelopes, so stored values never alias caller data.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MichaelAJay/go-logger"
	"github.com/MichaelAJay/go-serializer"

	"github.com/MichaelAJay/go-typejson/docstore"
	"github.com/MichaelAJay/go-typejson/internal/common"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store implements docstore.Store in memory
type Store struct {
	mu      sync.RWMutex
	items   map[string]*entry
	codec   *docstore.Codec
	options *docstore.Options
	logger  logger.Logger
	closed  bool
	stop    func()
}

var _ docstore.Store = (*Store)(nil)

// New creates an in-memory store. Envelopes default to the gob format.
func New(opts ...docstore.Option) (*Store, error) {
	options := docstore.Apply(append([]docstore.Option{docstore.WithFormat(serializer.Binary)}, opts...)...)
	codec, err := docstore.NewCodec(options.Manager, options.Format())
	if err != nil {
		return nil, err
	}

	s := &Store{
		items:   make(map[string]*entry),
		codec:   codec,
		options: options,
		logger:  options.Logger,
	}
	s.stop = common.StartCleanup(common.CleanupOptions{
		Interval: options.CleanupInterval,
		Logger:   options.Logger,
	}, s.sweep)
	return s, nil
}

func (s *Store) check(ctx context.Context, key string) error {
	if err := docstore.CheckContext(ctx); err != nil {
		return err
	}
	if s.closed {
		return typejsonErrors.ErrStoreClosed
	}
	return docstore.ValidateKey(key)
}

// Put stores value under key
func (s *Store) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	now := time.Now()
	data, err := s.codec.Seal(value, now)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = s.options.TTL
	}
	e := &entry{data: data}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, key); err != nil {
		return err
	}
	if old, ok := s.items[key]; ok {
		s.wipe(old)
	}
	s.items[key] = e
	return nil
}

// load returns the envelope under key, dropping it when expired
func (s *Store) load(ctx context.Context, key string) (*docstore.Envelope, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, key); err != nil {
		return nil, false, err
	}
	e, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		s.removeLocked(key, e, docstore.EvictExpired)
		return nil, false, nil
	}
	env, err := s.codec.Open(e.data)
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
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, key); err != nil {
		return err
	}
	if e, ok := s.items[key]; ok {
		s.removeLocked(key, e, docstore.EvictDeleted)
	}
	return nil
}

// Has reports whether an unexpired document is stored under key
func (s *Store) Has(ctx context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.check(ctx, key) != nil {
		return false
	}
	e, ok := s.items[key]
	return ok && !e.expired(time.Now())
}

// Keys returns the keys of all unexpired documents, sorted
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := docstore.CheckContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, typejsonErrors.ErrStoreClosed
	}
	now := time.Now()
	keys := make([]string, 0, len(s.items))
	for k, e := range s.items {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored documents, expired ones not yet swept included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close stops the sweep and drops every document. Later calls return
// ErrStoreClosed; closing twice is a no-op.
func (s *Store) Close() error {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	for k, e := range s.items {
		s.removeLocked(k, e, docstore.EvictClosed)
	}
	s.closed = true
	s.logger.Debug("Document store closed")
	return nil
}

// sweep removes expired documents and reports how many went
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, e := range s.items {
		if e.expired(now) {
			s.removeLocked(k, e, docstore.EvictExpired)
			removed++
		}
	}
	return removed
}

func (s *Store) removeLocked(key string, e *entry, reason docstore.EvictReason) {
	delete(s.items, key)
	s.wipe(e)
	if hook := s.options.OnEvict; hook != nil {
		common.ExecuteHook(s.logger, func() { hook(key, reason) })
	}
}

func (s *Store) wipe(e *entry) {
	if s.options.SecureWipe {
		common.SecureWipeSlice(e.data)
	}
}
