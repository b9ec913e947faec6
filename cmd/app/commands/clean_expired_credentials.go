package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
)

// RunCleanExpiredCredentials deletes ephemeral credentials past their expiry. With dryRun
// it only counts them. The server's sweeper does the same on a schedule.
func RunCleanExpiredCredentials(
	ctx context.Context,
	credentialUseCase credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning expired credentials", slog.Bool("dry_run", dryRun))

	count, err := credentialUseCase.CleanupExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired credentials: %w", err)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"count":   count,
			"dry_run": dryRun,
		})
	}

	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired credential(s)\n", count)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired credential(s)\n", count)
	}
	return nil
}
