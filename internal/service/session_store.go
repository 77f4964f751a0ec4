package service

import (
	"context"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session_revoked:"

// SessionStore remembers revoked token ids until they would have expired.
// It uses Redis when available and falls back to process memory.
type SessionStore struct {
	client *redis.Client

	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, revoked: make(map[string]time.Time), now: time.Now}
}

func (s *SessionStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if s.client != nil {
		return s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = until
	s.sweepLocked()
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.client != nil {
		n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[jti]
	return ok && s.now().Before(until), nil
}

func (s *SessionStore) sweepLocked() {
	now := s.now()
	for jti, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, jti)
		}
	}
}
