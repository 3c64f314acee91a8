package service

import (
	"testing"
	"time"
)

func TestMemoryChatRateLimiter_EnforcesMax(t *testing.T) {
	limiter := NewMemoryChatRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("u1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("u1") {
		t.Fatalf("request over max should be rejected")
	}
	if !limiter.Allow("u2") {
		t.Fatalf("other user must have its own window")
	}
}

func TestMemoryChatRateLimiter_WindowResets(t *testing.T) {
	limiter := NewMemoryChatRateLimiter(20*time.Millisecond, 1)

	if !limiter.Allow("u1") {
		t.Fatalf("first request should be allowed")
	}
	if limiter.Allow("u1") {
		t.Fatalf("second request within window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("u1") {
		t.Fatalf("request after window reset should be allowed")
	}
}

func TestMemoryChatRateLimiter_EmptyKey(t *testing.T) {
	limiter := NewMemoryChatRateLimiter(time.Minute, 3)
	if limiter.Allow("  ") {
		t.Fatalf("empty key must be rejected")
	}
}
