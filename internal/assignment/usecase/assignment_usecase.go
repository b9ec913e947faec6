package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
	"github.com/caseguard/caseguard/internal/database"
	"github.com/caseguard/caseguard/internal/notification"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// step is one named stage of the assignment saga. undo, when set, reverts the step after a
// later step failed.
type step struct {
	name string
	run  func(ctx context.Context, state *sagaState) error
	undo func(ctx context.Context, state *sagaState) error
}

// sagaState carries what earlier steps produced to the later ones.
type sagaState struct {
	input          assignmentDomain.AssignInput
	caseRecord     *casesDomain.Case
	assignee       *actorDomain.Actor
	pseudonym      string
	mappingExisted bool
	assignmentID   uuid.UUID
	assignedAt     time.Time
	credential     *credentialDomain.IssuedCredential
	warning        string
}

type assignmentUseCase struct {
	txManager         database.TxManager
	assignmentRepo    AssignmentRepository
	caseRepo          CaseRepository
	actors            ActorDirectory
	evaluator         abacUseCase.Evaluator
	vaultUseCase      vaultUseCase.VaultUseCase
	credentialUseCase credentialUseCase.CredentialUseCase
	notifier          notification.Notifier
	logger            *slog.Logger
	pick              func(n int) int
	now               func() time.Time
}

func (a *assignmentUseCase) steps() []step {
	return []step{
		{name: "authorize", run: a.authorize},
		{name: "load_case", run: a.loadCase},
		{name: "select_assignee", run: a.selectAssignee},
		{name: "reject_existing", run: a.rejectExisting},
		{name: "create_mapping", run: a.createMapping, undo: a.releaseMapping},
		{name: "insert_assignment", run: a.insertAssignment, undo: a.removeAssignment},
		{name: "issue_credential", run: a.issueCredential},
		{name: "notify", run: a.notify},
	}
}

func (a *assignmentUseCase) Assign(
	ctx context.Context,
	input assignmentDomain.AssignInput,
) (*assignmentDomain.Result, error) {
	state := &sagaState{input: input}

	done := make([]step, 0)
	for _, s := range a.steps() {
		if err := s.run(ctx, state); err != nil {
			a.logger.Debug("case assignment aborted",
				slog.String("step", s.name),
				slog.String("case_id", input.CaseID.String()),
				slog.String("error", err.Error()))
			a.compensate(ctx, done, state)
			return nil, err
		}
		done = append(done, s)
	}

	return &assignmentDomain.Result{
		CaseID:     input.CaseID,
		Pseudonym:  state.pseudonym,
		Credential: state.credential,
		AssignedAt: state.assignedAt,
		Warning:    state.warning,
	}, nil
}

// compensate undoes the completed steps in reverse order. It runs detached from the request
// context so a cancelled request still releases what it took.
func (a *assignmentUseCase) compensate(ctx context.Context, done []step, state *sagaState) {
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].undo == nil {
			continue
		}
		if err := done[i].undo(ctx, state); err != nil {
			a.logger.Error("failed to compensate case assignment step",
				slog.String("step", done[i].name),
				slog.String("case_id", state.input.CaseID.String()),
				slog.String("error", err.Error()))
		}
	}
}

func (a *assignmentUseCase) authorize(ctx context.Context, state *sagaState) error {
	action := abacDomain.ActionCaseAssignJudge
	decision, err := a.evaluator.Authorize(ctx, state.input.AssignerID, abacDomain.Request{
		Action:       action,
		ResourceType: "case",
		ResourceID:   state.input.CaseID.String(),
	})
	if err != nil {
		return err
	}
	return decision.Err(action)
}

func (a *assignmentUseCase) loadCase(ctx context.Context, state *sagaState) error {
	caseRecord, err := a.caseRepo.Get(ctx, state.input.CaseID)
	if err != nil {
		return err
	}
	if caseRecord.IsClosed() {
		return assignmentDomain.ErrCaseClosed
	}
	state.caseRecord = caseRecord
	return nil
}

func (a *assignmentUseCase) selectAssignee(ctx context.Context, state *sagaState) error {
	required := state.caseRecord.Classification.RequiredClearance()

	if state.input.AssigneeID != nil {
		assignee, err := a.actors.Get(ctx, *state.input.AssigneeID)
		if err != nil {
			if errors.Is(err, actorDomain.ErrActorNotFound) {
				return assignmentDomain.ErrInvalidAssignee
			}
			return err
		}
		if !assignee.IsActive || (assignee.Role != actorDomain.RoleJudge && assignee.Role != actorDomain.RoleSecretary) {
			return assignmentDomain.ErrInvalidAssignee
		}
		cleared, err := a.hasClearance(ctx, assignee.ID, required)
		if err != nil {
			return err
		}
		if !cleared {
			return assignmentDomain.ErrInsufficientClearance
		}
		state.assignee = assignee
		return nil
	}

	judges, err := a.actors.ListActiveByRole(ctx, actorDomain.RoleJudge)
	if err != nil {
		return err
	}
	eligible := make([]*actorDomain.Actor, 0, len(judges))
	for _, judge := range judges {
		cleared, err := a.hasClearance(ctx, judge.ID, required)
		if err != nil {
			return err
		}
		if cleared {
			eligible = append(eligible, judge)
		}
	}
	if len(eligible) == 0 {
		return assignmentDomain.ErrNoEligibleAssignee
	}
	state.assignee = eligible[a.pick(len(eligible))]
	return nil
}

func (a *assignmentUseCase) hasClearance(ctx context.Context, actorID uuid.UUID, level int) (bool, error) {
	if level <= 0 {
		return true, nil
	}
	return a.evaluator.HasClearance(ctx, actorID, level)
}

func (a *assignmentUseCase) rejectExisting(ctx context.Context, state *sagaState) error {
	_, err := a.assignmentRepo.GetByCase(ctx, state.input.CaseID)
	switch {
	case err == nil:
		return assignmentDomain.ErrAlreadyAssigned
	case errors.Is(err, assignmentDomain.ErrAssignmentNotFound):
		return nil
	default:
		return err
	}
}

func (a *assignmentUseCase) createMapping(ctx context.Context, state *sagaState) error {
	check, err := a.vaultUseCase.VerifyAccess(ctx, state.assignee.ID, state.input.CaseID)
	if err != nil {
		return err
	}

	pseudonym, err := a.vaultUseCase.CreateMapping(ctx, state.assignee.ID, state.input.CaseID, state.input.AssignerID)
	if err != nil {
		return err
	}
	state.pseudonym = pseudonym
	state.mappingExisted = check.HasAccess && check.Pseudonym == pseudonym
	return nil
}

func (a *assignmentUseCase) insertAssignment(ctx context.Context, state *sagaState) error {
	state.assignmentID = uuid.Must(uuid.NewV7())
	state.assignedAt = a.now()
	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		assignment := &assignmentDomain.Assignment{
			ID:         state.assignmentID,
			CaseID:     state.input.CaseID,
			Pseudonym:  state.pseudonym,
			AssignedAt: state.assignedAt,
		}
		if err := a.assignmentRepo.Create(ctx, assignment); err != nil {
			return err
		}
		return a.caseRepo.UpdateStatus(ctx, state.input.CaseID, casesDomain.StatusAssigned, state.assignedAt)
	})
}

// removeAssignment deletes the row written by insertAssignment and puts the case back into
// its previous status, leaving the case open for a new assignment.
func (a *assignmentUseCase) removeAssignment(ctx context.Context, state *sagaState) error {
	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.assignmentRepo.Delete(ctx, state.assignmentID); err != nil {
			return err
		}
		return a.caseRepo.UpdateStatus(ctx, state.input.CaseID, state.caseRecord.Status, a.now())
	})
}

// releaseMapping revokes the mapping this saga minted when a later step failed. A mapping
// that predates the saga, or that a concurrent winning assignment uses, is left alone.
func (a *assignmentUseCase) releaseMapping(ctx context.Context, state *sagaState) error {
	if state.mappingExisted {
		return nil
	}
	winner, err := a.assignmentRepo.GetByCase(ctx, state.input.CaseID)
	switch {
	case err == nil && winner.Pseudonym == state.pseudonym:
		return nil
	case err != nil && !errors.Is(err, assignmentDomain.ErrAssignmentNotFound):
		return err
	}
	return a.vaultUseCase.RevokeMapping(ctx, state.pseudonym, state.input.AssignerID)
}

func (a *assignmentUseCase) issueCredential(ctx context.Context, state *sagaState) error {
	issued, err := a.credentialUseCase.Generate(ctx, state.input.CaseID, state.pseudonym)
	if err != nil {
		return err
	}
	state.credential = issued
	return nil
}

func (a *assignmentUseCase) notify(ctx context.Context, state *sagaState) error {
	err := a.notifier.NotifyCredential(ctx, notification.CredentialNotice{
		ActorID:        state.assignee.ID,
		RecipientName:  state.assignee.Name,
		RecipientEmail: state.assignee.Email,
		CaseID:         state.input.CaseID,
		CaseNumber:     state.caseRecord.Number,
		Address:        state.credential.Address,
		Password:       state.credential.Password,
		Token:          state.credential.Token,
		ExpiresAt:      state.credential.ExpiresAt,
	})
	if err != nil {
		a.logger.Warn("credential notification failed",
			slog.String("case_id", state.input.CaseID.String()),
			slog.String("actor_id", state.assignee.ID.String()),
			slog.String("error", err.Error()))
		state.warning = assignmentDomain.WarningNotificationFailed
	}
	return nil
}

// NewAssignmentUseCase creates an AssignmentUseCase. txManager must be bound to the case store.
func NewAssignmentUseCase(
	txManager database.TxManager,
	assignmentRepo AssignmentRepository,
	caseRepo CaseRepository,
	actors ActorDirectory,
	evaluator abacUseCase.Evaluator,
	vaultUseCase vaultUseCase.VaultUseCase,
	credentialUseCase credentialUseCase.CredentialUseCase,
	notifier notification.Notifier,
	logger *slog.Logger,
) AssignmentUseCase {
	return &assignmentUseCase{
		txManager:         txManager,
		assignmentRepo:    assignmentRepo,
		caseRepo:          caseRepo,
		actors:            actors,
		evaluator:         evaluator,
		vaultUseCase:      vaultUseCase,
		credentialUseCase: credentialUseCase,
		notifier:          notifier,
		logger:            logger,
		pick:              rand.IntN,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}
