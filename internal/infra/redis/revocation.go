package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationStore access token 黑名单，键随 token 过期自动删除
type RevocationStore struct {
	client redis.Cmdable
	maxTTL time.Duration
}

// NewRevocationStore maxTTL 限制单个键的最长保留时间
func NewRevocationStore(client redis.Cmdable, maxTTL time.Duration) *RevocationStore {
	return &RevocationStore{client: client, maxTTL: maxTTL}
}

// Revoke 把 jti 加入黑名单，直到 token 过期（不超过 maxTTL）
func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if s.maxTTL > 0 && ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked 查询 jti 是否已注销
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}

// LocalRevocationStore 进程内黑名单，redis.enabled=false 时使用
type LocalRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	maxTTL  time.Duration
	now     func() time.Time
}

func NewLocalRevocationStore(maxTTL time.Duration) *LocalRevocationStore {
	return &LocalRevocationStore{revoked: map[string]time.Time{}, maxTTL: maxTTL, now: time.Now}
}

func (s *LocalRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	now := s.now()
	if !expiresAt.After(now) {
		return nil
	}
	if s.maxTTL > 0 && expiresAt.Sub(now) > s.maxTTL {
		expiresAt = now.Add(s.maxTTL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, k)
		}
	}
	s.revoked[jti] = expiresAt
	return nil
}

func (s *LocalRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	return ok && exp.After(s.now()), nil
}
