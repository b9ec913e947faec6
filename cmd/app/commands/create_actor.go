package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	abacSeed "github.com/caseguard/caseguard/internal/abac/seed"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
)

// SystemActorID records grants made by operator commands rather than by an actor.
var SystemActorID = uuid.Nil

// RoleDefaultsGranter grants a new actor the default attributes of its role.
type RoleDefaultsGranter interface {
	GrantRoleDefaults(
		ctx context.Context,
		catalog *abacSeed.Catalog,
		actor *actorDomain.Actor,
		grantedBy uuid.UUID,
	) (int, error)
}

// RunCreateActor registers an actor, grants its role defaults from catalog and prints the
// generated secret. The secret is shown only once.
//
// Requirements: Database must be migrated and the ABAC catalogue seeded.
func RunCreateActor(
	ctx context.Context,
	actorUseCase actorUseCase.ActorUseCase,
	granter RoleDefaultsGranter,
	catalog *abacSeed.Catalog,
	logger *slog.Logger,
	writer io.Writer,
	name, email, role string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	actorRole := actorDomain.Role(strings.TrimSpace(role))
	if !actorRole.IsValid() {
		return fmt.Errorf("invalid role: %s (valid options: %s)", role, joinRoles())
	}

	logger.Info("creating actor", slog.String("role", string(actorRole)))

	output, err := actorUseCase.Create(ctx, &actorDomain.CreateActorInput{
		Name:     name,
		Email:    email,
		Role:     actorRole,
		IsActive: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}

	actor, err := actorUseCase.Get(ctx, output.ID)
	if err != nil {
		return fmt.Errorf("failed to load created actor: %w", err)
	}

	granted, err := granter.GrantRoleDefaults(ctx, catalog, actor, SystemActorID)
	if err != nil {
		return fmt.Errorf("actor %s created but role defaults were not granted: %w", output.ID, err)
	}

	logger.Info("actor created",
		slog.String("actor_id", output.ID.String()),
		slog.Int("grants", granted),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"id":     output.ID,
			"role":   actorRole,
			"secret": output.PlainSecret,
			"grants": granted,
		})
	}

	_, _ = fmt.Fprintln(writer, "Actor created successfully!")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", output.ID)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", actorRole)
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintf(writer, "Default grants: %d\n", granted)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "WARNING: Save the secret securely. It will not be shown again.")
	return nil
}

func joinRoles() string {
	roles := actorDomain.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
