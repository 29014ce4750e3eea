package auth

import "sync"

// Credentials is the single source of the admin bearer token. Every request
// to the society API reads it, and Clear is the only way a session ends.
type Credentials interface {
	// Token returns the current token, if any.
	Token() (string, bool)
	Set(token string)
	// Clear drops the token. Subscribers registered with OnInvalidated run
	// once per transition from having a token to having none.
	Clear()
	OnInvalidated(fn func())
}

// TokenStore is an in-memory Credentials implementation.
type TokenStore struct {
	mu          sync.Mutex
	token       string
	subscribers []func()
}

// Ensure TokenStore implements Credentials.
var _ Credentials = (*TokenStore)(nil)

// NewTokenStore creates a store holding token, which may be empty.
func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

func (s *TokenStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenStore) Clear() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	// Subscribers may call back into the store.
	for _, fn := range subs {
		fn()
	}
}

func (s *TokenStore) OnInvalidated(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
