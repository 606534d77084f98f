package domain

import (
	"strings"
	"time"
)

// RetryConfig is the embedded, immutable-after-construction retry contract
// carried by every Task.
type RetryConfig struct {
	Strategy       RetryStrategy `json:"strategy"`
	MaxRetries     int           `json:"max_retries"`
	BaseDelay      float64       `json:"base_delay"`
	MaxDelay       float64       `json:"max_delay"`
	RetryOnErrors  []string      `json:"retry_on_errors,omitempty"`
}

// DefaultRetryConfig is the policy used when none is given: exponential
// backoff, up to 3 retries, a 1s base delay capped at 60s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Strategy:   RetryStrategyExponential,
		MaxRetries: 3,
		BaseDelay:  1.0,
		MaxDelay:   60.0,
	}
}

// Delay computes the backoff for the given 1-based attempt number, clamped
// to MaxDelay. attempt is the attempt that just failed.
func (c RetryConfig) Delay(attempt int) float64 {
	var d float64
	switch c.Strategy {
	case RetryStrategyNone, RetryStrategyImmediate:
		d = 0
	case RetryStrategyLinear:
		d = c.BaseDelay * float64(attempt)
	case RetryStrategyExponential:
		d = c.BaseDelay * pow2(attempt-1)
	default:
		d = 0
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

func pow2(n int) float64 {
	if n < 0 {
		return 0
	}
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 2
	}
	return r
}

// IsRetryable reports whether errText warrants a retry under this policy.
// A "none" strategy is never retryable. An empty RetryOnErrors list means
// every error is retryable; otherwise at least one configured substring must
// appear in errText, case-insensitively.
func (c RetryConfig) IsRetryable(errText string) bool {
	if c.Strategy == RetryStrategyNone {
		return false
	}
	if len(c.RetryOnErrors) == 0 {
		return true
	}
	lower := strings.ToLower(errText)
	for _, substr := range c.RetryOnErrors {
		if strings.Contains(lower, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// RetryAttempt is one entry in a RetryState's history.
type RetryAttempt struct {
	Attempt   int       `json:"attempt"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// RetryState is the evolving per-task record of retry progress.
type RetryState struct {
	Attempt       int            `json:"attempt"`
	LastError     string         `json:"last_error,omitempty"`
	LastAttemptAt *time.Time     `json:"last_attempt_at,omitempty"`
	NextRetryAt   *time.Time     `json:"next_retry_at,omitempty"`
	History       []RetryAttempt `json:"history,omitempty"`
}

// RecordFailure appends a history entry and advances the attempt counter.
func (s *RetryState) RecordFailure(errText string, at time.Time) {
	s.Attempt++
	s.LastError = errText
	s.LastAttemptAt = &at
	s.History = append(s.History, RetryAttempt{
		Attempt:   s.Attempt,
		Error:     errText,
		Timestamp: at,
	})
}

// ScheduleRetry sets the next-retry timestamp delay seconds after at.
func (s *RetryState) ScheduleRetry(at time.Time, delay float64) {
	next := at.Add(time.Duration(delay * float64(time.Second)))
	s.NextRetryAt = &next
}

// ClearSchedule removes the pending next-retry timestamp, used when a task
// is reset back to pending by process_retries or fails terminally.
func (s *RetryState) ClearSchedule() {
	s.NextRetryAt = nil
}
