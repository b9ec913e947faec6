package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/caseguard/caseguard/internal/keys"
)

// RunCreateSigningKey generates a 32-byte root signing secret and prints it as
// SIGNING_MASTER_KEY. With a KMS key URI the secret is encrypted first and the ciphertext is
// printed instead, along with the KMS settings. The plain secret is zeroed after use.
//
// For local development, use kmsProvider="localsecrets" with kmsKeyURI="base64key://...".
func RunCreateSigningKey(
	ctx context.Context,
	kmsService keys.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri are required together")
	}

	secret := make([]byte, keys.KeySize)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}
	defer keys.Zero(secret)

	if kmsKeyURI == "" {
		logger.Warn("signing key generated without KMS; store it in a secrets manager")
		_, _ = fmt.Fprintln(writer, "# Signing Key Configuration")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "SIGNING_MASTER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(secret))
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt signing key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Signing Key Configuration (KMS Mode)")
	_, _ = fmt.Fprintf(writer, "# KMS Provider: %s\n", kmsProvider)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "SIGNING_MASTER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
