package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/caseguard/caseguard/internal/errors"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// RunVerifyVaultLogs checks the HMAC signature of every identity access-log entry, batchSize
// entries at a time. It fails when any entry does not verify.
//
// Requirements: the vault database must be reachable and SIGNING_MASTER_KEY must be the key the
// entries were written with.
func RunVerifyVaultLogs(
	ctx context.Context,
	vaultUseCase vaultUseCase.VaultUseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be a positive number, got: %d", batchSize)
	}

	logger.Info("verifying vault access logs", slog.Int("batch_size", batchSize))

	checked := 0
	invalid := make([]uuid.UUID, 0)
	for offset := 0; ; offset += batchSize {
		report, err := vaultUseCase.VerifyAccessLogs(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to verify vault access logs: %w", err)
		}
		checked += report.Checked
		invalid = append(invalid, report.Invalid...)
		if report.Checked < batchSize {
			break
		}
	}

	logger.Info("vault access log verification completed",
		slog.Int("checked", checked),
		slog.Int("invalid", len(invalid)),
	)

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"checked": checked,
			"valid":   checked - len(invalid),
			"invalid": invalid,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Checked: %d\n", checked)
		_, _ = fmt.Fprintf(writer, "Valid: %d\n", checked-len(invalid))
		_, _ = fmt.Fprintf(writer, "Invalid: %d\n", len(invalid))
		for _, id := range invalid {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
	}

	if len(invalid) > 0 {
		return apperrors.Wrapf(apperrors.ErrIntegrity, "%d access log entries failed verification", len(invalid))
	}
	return nil
}
