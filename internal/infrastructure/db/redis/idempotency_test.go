package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestIdempotencyStore_KeyFormat(t *testing.T) {
	s := NewIdempotencyStore(nil)
	if got := s.key("abc-123"); got != "idempotency:movies:abc-123" {
		t.Fatalf("unexpected key: %s", got)
	}
	if s.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", s.ttl)
	}
}

func TestIdempotencyStore_ErrorsAreWrapped(t *testing.T) {
	s := NewIdempotencyStore(unreachableClient(t))
	ctx := context.Background()

	_, ok, err := s.Lookup(ctx, "k")
	if err == nil || ok {
		t.Fatalf("expected lookup error, got ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(err.Error(), "idempotency lookup:") {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Remember(ctx, "k", 7); err == nil || !strings.HasPrefix(err.Error(), "idempotency remember:") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConnect_FailsWhenUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 300 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected ping error")
	}
}
