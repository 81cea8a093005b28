package kpi

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// SafeStore wraps a KeyValueStore so reads and writes never fail the caller:
// errors and panics become "no value" on read and a no-op on write.
type SafeStore struct {
	store   KeyValueStore
	logger  *zap.Logger
	healthy atomic.Bool
}

// NewSafeStore wraps store. A nil store behaves as permanently empty.
func NewSafeStore(store KeyValueStore, logger *zap.Logger) *SafeStore {
	if safe, ok := store.(*SafeStore); ok {
		return safe
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SafeStore{store: store, logger: logger}
	s.healthy.Store(true)
	return s
}

// Get satisfies KeyValueStore and never returns an error.
func (s *SafeStore) Get(key string) (string, bool, error) {
	value, ok := s.Lookup(key)
	return value, ok, nil
}

// Set satisfies KeyValueStore and never returns an error.
func (s *SafeStore) Set(key, value string) error {
	s.Store(key, value)
	return nil
}

// Lookup returns the stored value, or false when missing or unreadable.
func (s *SafeStore) Lookup(key string) (value string, ok bool) {
	if s == nil || s.store == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			s.fail("get", key, fmt.Errorf("panic: %v", r))
			value, ok = "", false
		}
	}()
	value, ok, err := s.store.Get(key)
	if err != nil {
		s.fail("get", key, err)
		return "", false
	}
	s.healthy.Store(true)
	return value, ok
}

// Store writes value and reports whether the write went through.
func (s *SafeStore) Store(key, value string) (written bool) {
	if s == nil || s.store == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			s.fail("set", key, fmt.Errorf("panic: %v", r))
			written = false
		}
	}()
	if err := s.store.Set(key, value); err != nil {
		s.fail("set", key, err)
		return false
	}
	s.healthy.Store(true)
	return true
}

// Healthy reports whether the last operation succeeded.
func (s *SafeStore) Healthy() bool {
	if s == nil {
		return false
	}
	return s.healthy.Load()
}

// LoadIDs reads and decodes an id list. Corrupt values count as missing.
func (s *SafeStore) LoadIDs(key string) ([]string, bool) {
	raw, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	ids, err := DecodeIDs(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable tile preference", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return ids, true
}

// SaveIDs encodes and writes an id list.
func (s *SafeStore) SaveIDs(key string, ids []string) bool {
	raw, err := EncodeIDs(ids)
	if err != nil {
		s.fail("encode", key, err)
		return false
	}
	return s.Store(key, raw)
}

func (s *SafeStore) fail(op, key string, err error) {
	s.healthy.Store(false)
	s.logger.Warn("tile preference storage failure",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
