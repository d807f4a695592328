// Package docstore is the persistence boundary of the board: a string-keyed
// document store where each fixed key holds one JSON collection, replaced
// wholesale on every write. Backends are pluggable (memory, file, Redis,
// PostgreSQL); the read contract is shared by all of them: a missing or
// corrupt document loads as an empty collection, never as an error.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Backend.Get when the key has no document.
var ErrNotFound = errors.New("docstore: key not found")

// Backend is a synchronous string-keyed byte store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store wraps a Backend with JSON encoding and the tolerate-corrupt read
// contract.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a Store over the given backend.
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Load reads the document at key into v. An absent key leaves v at its zero
// value; an unparsable document is logged and likewise treated as empty.
// Only backend I/O failures are returned as errors.
func (s *Store) Load(ctx context.Context, key string, v interface{}) error {
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("corrupt document, treating as empty",
			zap.String("key", key), zap.Error(err))
		zero(v)
	}
	return nil
}

// Save replaces the entire document at key with the JSON encoding of v.
func (s *Store) Save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Remove deletes the document at key. Deleting an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.backend.Delete(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// zero resets *v after a partial decode so callers never observe a
// half-filled collection.
func zero(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	}
}
