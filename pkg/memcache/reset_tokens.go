// pkg/memcache/reset_tokens.go
package mem

import (
	"sync"
	"time"
)

type ResetTokenStore interface {
	Set(token string, accountEmail string, ttl time.Duration)

	// Consume returns the email for token if not expired,
	// and removes the token (single-use). Returns "" if missing/expired.
	Consume(token string) string

	Peek(token string) (string, bool)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// TTLStore is an in-process string map whose entries expire.
// It backs password reset tokens and, when Redis is not configured,
// view de-duplication.
type TTLStore struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewResetTokens() *TTLStore {
	return &TTLStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *TTLStore) Set(token string, accountEmail string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = entry{
		value:     accountEmail,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *TTLStore) Consume(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[token]
	if !ok {
		return ""
	}
	delete(s.data, token)
	if s.now().After(e.expiresAt) {
		return ""
	}
	return e.value
}

func (s *TTLStore) Peek(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[token]
	if !ok || s.now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// SetIfAbsent stores key for ttl unless a live entry already exists.
// It reports whether the key was stored.
func (s *TTLStore) SetIfAbsent(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.data[key]; ok && now.Before(e.expiresAt) {
		return false
	}
	s.data[key] = entry{expiresAt: now.Add(ttl)}
	return true
}

// Sweep drops expired entries and returns how many were removed.
func (s *TTLStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}
