package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

func TestLimiterCooldown(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), 60*time.Second)
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := l.Allow(ctx, 1, t0); err != nil {
		t.Fatalf("first submission rejected: %v", err)
	}

	err := l.Allow(ctx, 1, t0.Add(59*time.Second))
	var rl *questions.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitedError at 59s, got %v", err)
	}
	if rl.Wait != time.Second {
		t.Errorf("remaining wait = %v, want 1s", rl.Wait)
	}

	if err := l.Allow(ctx, 1, t0.Add(60*time.Second)); err != nil {
		t.Errorf("submission at 60s rejected: %v", err)
	}
}

func TestRejectionDoesNotRecord(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), time.Minute)
	t0 := time.Unix(1000, 0)

	l.Allow(ctx, 5, t0)
	l.Allow(ctx, 5, t0.Add(30*time.Second))
	// The rejected attempt at +30s must not push the window forward.
	if err := l.Allow(ctx, 5, t0.Add(61*time.Second)); err != nil {
		t.Errorf("expected acceptance at +61s, got %v", err)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), time.Minute)
	now := time.Unix(1000, 0)

	if err := l.Allow(ctx, 1, now); err != nil {
		t.Fatal(err)
	}
	if err := l.Allow(ctx, 2, now); err != nil {
		t.Errorf("second user blocked by first: %v", err)
	}
}

func TestDefaultCooldown(t *testing.T) {
	if New(NewMemoryStore(), 0).Cooldown() != DefaultCooldown {
		t.Error("zero cooldown should fall back to the default")
	}
}

func TestMemoryStoreConcurrentReserve(t *testing.T) {
	m := NewMemoryStore()
	now := time.Unix(1000, 0)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, _ := m.Reserve(context.Background(), 9, now, time.Minute)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("expected exactly one accepted reservation, got %d", accepted)
	}
}

func TestRedisKey(t *testing.T) {
	r := NewRedisStore(nil, "")
	if got := r.key(77); got != "helpdesk:cooldown:77" {
		t.Errorf("unexpected key %q", got)
	}
}
