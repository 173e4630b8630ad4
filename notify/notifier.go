/*
Package notify delivers rendered messages to a recipient list.

PURPOSE:
  One small interface (Notifier) consumed by the report runner, a retry
  decorator for transient transport failures, and a Gmail implementation.
  Transport errors never corrupt report state: callers only mark work as
  sent after a confirmed successful Send.

SEE ALSO:
  - retry.go: bounded retry with backoff
  - gmail.go: the Gmail API transport
*/
package notify

import (
	"context"
	"errors"
	"fmt"
)

// ErrTransport marks a delivery failure. Wrapped by every implementation so
// callers can errors.Is against one sentinel.
var ErrTransport = errors.New("notification transport failed")

// Notifier accepts a rendered message and a recipient list.
type Notifier interface {
	// Send delivers the message to every recipient, or fails with an error
	// wrapping ErrTransport.
	Send(ctx context.Context, recipients []string, subject, htmlBody string) error
}

// TransportError carries the attempt count alongside the underlying failure.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return ErrTransport }

// IsRetryable reports whether an error is worth another delivery attempt.
// Context cancellation is not.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
