package services

import (
	"context"
	"testing"
)

// Auth must keep working when Redis is unavailable, so a limiter without a
// client is a silent no-op.
func TestLoginLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := NewLoginLimiter(nil)
	ctx := context.Background()

	if err := limiter.Check(ctx, "a@example.com"); err != nil {
		t.Fatalf("check: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := limiter.RecordFailure(ctx, "a@example.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	if err := limiter.Check(ctx, "a@example.com"); err != nil {
		t.Fatalf("check after failures: %v", err)
	}

	limiter.Clear(ctx, "a@example.com")
	if err := limiter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var nilLimiter *LoginLimiter
	if err := nilLimiter.Check(ctx, "a@example.com"); err != nil {
		t.Fatalf("nil limiter check: %v", err)
	}
}
