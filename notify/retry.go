package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// RETRY DECORATOR
// =============================================================================

// defaultMaxAttempts mirrors the production sender's three tries.
const defaultMaxAttempts = 3

// defaultBaseDelay grows linearly per attempt: 1s, 2s, 3s.
const defaultBaseDelay = time.Second

// RetryNotifier wraps another Notifier with a bounded retry loop. After the
// last attempt fails the error propagates as a *TransportError; nothing is
// retried past the bound.
type RetryNotifier struct {
	next        Notifier
	maxAttempts int
	baseDelay   time.Duration
	log         zerolog.Logger
}

// WithRetry decorates next with the default attempt bound and backoff.
func WithRetry(next Notifier, log zerolog.Logger) *RetryNotifier {
	return &RetryNotifier{
		next:        next,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		log:         log,
	}
}

// WithRetryPolicy decorates next with an explicit attempt bound and base
// delay. Values below one attempt are raised to one.
func WithRetryPolicy(next Notifier, maxAttempts int, baseDelay time.Duration, log zerolog.Logger) *RetryNotifier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryNotifier{next: next, maxAttempts: maxAttempts, baseDelay: baseDelay, log: log}
}

// Send tries the wrapped notifier up to the attempt bound, sleeping
// baseDelay*attempt between tries.
func (r *RetryNotifier) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	var lastErr error
	attempt := 1
	for ; attempt <= r.maxAttempts; attempt++ {
		lastErr = r.next.Send(ctx, recipients, subject, htmlBody)
		if lastErr == nil {
			if attempt > 1 {
				r.log.Info().Int("attempt", attempt).Msg("send succeeded after retry")
			}
			return nil
		}

		r.log.Warn().Err(lastErr).Int("attempt", attempt).Int("max", r.maxAttempts).Msg("send attempt failed")
		if !IsRetryable(lastErr) || attempt == r.maxAttempts {
			break
		}

		select {
		case <-time.After(r.baseDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return &TransportError{Attempts: attempt, Err: ctx.Err()}
		}
	}
	return &TransportError{Attempts: attempt, Err: lastErr}
}
