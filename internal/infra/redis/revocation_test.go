package redis

import (
	"context"
	"testing"
	"time"
)

func TestLocalRevocationStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewLocalRevocationStore(time.Hour)
	s.now = func() time.Time { return now }

	if err := s.Revoke(ctx, "expired", now.Add(-time.Second)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked, _ := s.IsRevoked(ctx, "expired"); revoked {
		t.Fatal("already expired token should not be stored")
	}

	if err := s.Revoke(ctx, "jti-1", now.Add(24*time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked, _ := s.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("token should be revoked")
	}
	if revoked, _ := s.IsRevoked(ctx, "jti-2"); revoked {
		t.Fatal("unknown token reported as revoked")
	}

	// 保留时间不超过 maxTTL
	now = now.Add(61 * time.Minute)
	if revoked, _ := s.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatal("revocation should expire after maxTTL")
	}
}
