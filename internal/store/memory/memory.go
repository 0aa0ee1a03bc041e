// Package memory is an in-process store.Store, used for ephemeral runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/haven/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps collections in a map guarded by a RWMutex.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

// New creates an empty memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// Put stores raw bytes, bypassing any injected write error.
func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
}

// FailSets makes every following Set return err. Pass nil to heal.
func (s *Store) FailSets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setErr = err
}

// FailGets makes every following Get return err. Pass nil to heal.
func (s *Store) FailGets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getErr = err
}

// SetCalls returns how many times Set has been called.
func (s *Store) SetCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.setCalls
}

func (s *Store) Keys(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Backend() string { return "memory" }

func (s *Store) Close() error { return nil }
