package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically deletes expired credentials.
type Sweeper struct {
	credentialUseCase CredentialUseCase
	interval          time.Duration
	logger            *slog.Logger
}

// Start runs the cleanup loop until ctx is cancelled. Cleanup failures are logged and the loop
// keeps going.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("starting credential sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping credential sweeper")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	deleted, err := s.credentialUseCase.CleanupExpired(ctx, false)
	if err != nil {
		s.logger.Error("failed to clean up expired credentials", slog.Any("error", err))
		return
	}
	if deleted > 0 {
		s.logger.Info("expired credentials deleted", slog.Int64("count", deleted))
	}
}

// NewSweeper creates a Sweeper running every interval.
func NewSweeper(credentialUseCase CredentialUseCase, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		credentialUseCase: credentialUseCase,
		interval:          interval,
		logger:            logger,
	}
}
