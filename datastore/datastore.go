// Package datastore implements the option store that backs payload
// variable substitution. Keys are case-insensitive, matching the way
// operators type LHOST/lhost interchangeably.
package datastore

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	shellquote "github.com/kballard/go-shellquote"
)

// Store is a concurrency-safe key-value option store. It satisfies the
// payload.ValueResolver interface.
type Store struct {
	mu   sync.RWMutex
	vals map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{vals: make(map[string]string)}
}

// Set stores value under the given key.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[strings.ToUpper(key)] = value
}

// Get returns the value for key, or the empty string.
func (s *Store) Get(key string) string {
	v, _ := s.Value(key)
	return v
}

// Value returns the value for key and whether it is present.
func (s *Store) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vals[strings.ToUpper(key)]
	return v, ok
}

// Unset removes key from the store.
func (s *Store) Unset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vals, strings.ToUpper(key))
}

// Import merges every pair from m into the store.
func (s *Store) Import(m map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range m {
		s.vals[strings.ToUpper(k)] = v
	}
}

// ImportOptions parses a shell-style option string such as
//
//	LHOST=10.0.0.5 LPORT=4444 CMD="id > /tmp/out"
//
// and merges the pairs into the store. Quoting follows shell rules.
func (s *Store) ImportOptions(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	parts, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parse options: %w", err)
	}
	pairs := make(map[string]string, len(parts))
	for _, part := range parts {
		k, v, ok := strings.Cut(part, "=")
		if !ok || k == "" {
			return fmt.Errorf("parse options: %q is not KEY=VALUE", part)
		}
		pairs[k] = v
	}
	s.Import(pairs)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.vals))
	for k := range s.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored options.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vals)
}
