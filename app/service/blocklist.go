package service

import (
	"sync"
	"time"
)

// TokenBlocklist is a process-wide set of revoked JWT ids. Logout adds
// the token's jti, and every authenticated request checks membership.
// Entries carry the token's own expiry so the set does not grow without
// bound: once a token would be rejected by its exp claim anyway, its
// entry is dropped on the next insert.
type TokenBlocklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewTokenBlocklist() *TokenBlocklist {
	return &TokenBlocklist{revoked: make(map[string]time.Time)}
}

// Add revokes the token identified by jti until expiresAt. The addition
// is visible to every Contains call that starts after Add returns.
func (b *TokenBlocklist) Add(jti string, expiresAt time.Time) {
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, exp := range b.revoked {
		if exp.Before(now) {
			delete(b.revoked, id)
		}
	}
	b.revoked[jti] = expiresAt
}

func (b *TokenBlocklist) Contains(jti string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.revoked[jti]
	return ok
}

func (b *TokenBlocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.revoked)
}
