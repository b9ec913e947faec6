package notification

import (
	"context"
	"log/slog"
)

// LogNotifier records that a notice was due without delivering it. Secrets and the recipient
// address are left out of the log line.
type LogNotifier struct {
	logger *slog.Logger
}

func (n *LogNotifier) NotifyCredential(_ context.Context, notice CredentialNotice) error {
	n.logger.Info("credential notice not delivered, log notifier configured",
		slog.String("actor_id", notice.ActorID.String()),
		slog.String("case_id", notice.CaseID.String()),
		slog.Time("expires_at", notice.ExpiresAt),
	)
	return nil
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}
