// Package token holds the bearer token shared by every request the API
// clients issue.
package token

import (
	"sync"
)

// Provider is the token store consulted when a request is built.
// SetToken("") clears the token.
type Provider interface {
	Token() string
	SetToken(token string)
}

// Store is an in-memory Provider safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns a Store seeded with token.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// Token returns the current token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// SetToken replaces the current token.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}
