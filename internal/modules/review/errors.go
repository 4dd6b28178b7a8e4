package review

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Delete when the location holds no such review.
var ErrNotFound = errors.New("not_found")

// RateLimitedError is returned by Submit while the submission cooldown runs.
type RateLimitedError struct {
	Remaining time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate_limited: next review allowed in %s", FormatRemaining(e.Remaining))
}

func (e *RateLimitedError) RemainingMs() int64 {
	return e.Remaining.Milliseconds()
}

type DenyReason string

const (
	DenyNotFound          DenyReason = "not_found"
	DenyTimeWindowExpired DenyReason = "time_window_expired"
	DenyQuotaExceeded     DenyReason = "quota_exceeded"
)

// DeleteDeniedError is returned by Delete when the review may not be removed.
type DeleteDeniedError struct {
	Reason  DenyReason
	Message string
}

func (e *DeleteDeniedError) Error() string {
	return fmt.Sprintf("delete_denied: %s", e.Reason)
}
