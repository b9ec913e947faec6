package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies the case store migrations for the configured driver.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	return runMigrations(logger, "migrations", dbDriver, dbConnectionString)
}

// RunVaultMigrations applies the identity vault migrations. They live apart from the case
// store migrations because the vault is a separate database with its own credentials.
func RunVaultMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	return runMigrations(logger, "migrations/vault", dbDriver, dbConnectionString)
}

func runMigrations(logger *slog.Logger, root, dbDriver, dbConnectionString string) error {
	migrationsPath, err := migrationsSource(root, dbDriver)
	if err != nil {
		return err
	}

	logger.Info("running database migrations",
		slog.String("driver", dbDriver),
		slog.String("source", migrationsPath),
	)

	m, err := migrate.New(migrationsPath, dbConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationsSource maps a driver to its migration directory. pgx and lib/pq share the
// PostgreSQL scripts.
func migrationsSource(root, dbDriver string) (string, error) {
	switch dbDriver {
	case "postgres", "pgx":
		return fmt.Sprintf("file://%s/postgresql", root), nil
	case "mysql":
		return fmt.Sprintf("file://%s/mysql", root), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", dbDriver)
	}
}
