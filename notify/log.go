package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes messages to the log instead of a mail transport. Used
// for local runs without mail credentials.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier builds a notifier that only logs.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send logs the message and reports success.
func (n *LogNotifier) Send(_ context.Context, recipients []string, subject, htmlBody string) error {
	n.log.Info().
		Strs("recipients", recipients).
		Str("subject", subject).
		Int("body_bytes", len(htmlBody)).
		Msg("notification (log only, no mail sent)")
	return nil
}
