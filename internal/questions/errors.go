package questions

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNotFound    = errors.New("question not found")
	ErrMissingText = errors.New("question text is empty")
)

// ValidationError reports bad user or manager input. Nothing is changed.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// RateLimitedError is returned when a user submits again inside the cooldown window.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %ds", e.WaitSeconds())
}

// WaitSeconds rounds the remaining wait up to whole seconds.
func (e *RateLimitedError) WaitSeconds() int {
	return int(math.Ceil(e.Wait.Seconds()))
}
