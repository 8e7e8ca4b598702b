// Package ratelimit enforces a per-user cooldown between accepted submissions.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

const DefaultCooldown = 60 * time.Second

// Store records the last accepted submission per user.
// Reserve must check and record atomically: on success it stores now,
// on rejection it changes nothing and returns the remaining wait.
type Store interface {
	Reserve(ctx context.Context, userID int64, now time.Time, cooldown time.Duration) (ok bool, wait time.Duration, err error)
}

type Limiter struct {
	store    Store
	cooldown time.Duration
}

func New(store Store, cooldown time.Duration) *Limiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Limiter{store: store, cooldown: cooldown}
}

func (l *Limiter) Cooldown() time.Duration {
	return l.cooldown
}

// Allow returns nil when the submission is accepted and recorded, or a
// *questions.RateLimitedError carrying the remaining wait.
func (l *Limiter) Allow(ctx context.Context, userID int64, now time.Time) error {
	ok, wait, err := l.store.Reserve(ctx, userID, now, l.cooldown)
	if err != nil {
		return fmt.Errorf("rate limit user %d: %w", userID, err)
	}
	if !ok {
		return &questions.RateLimitedError{Wait: wait}
	}
	return nil
}
