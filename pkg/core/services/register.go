package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/eligibility"
	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// RegisterStore defines the database operations needed to register a
// volunteer for a slot
type RegisterStore interface {
	ApprovalStore
	InsertRegistration(ctx context.Context, reg *model.Registration, monthlyLimit int, enforceCap bool) error
}

// RegisterInput describes one registration attempt
type RegisterInput struct {
	VolunteerID string
	SlotID      string
	Notes       string
	// Force lets an administrator proceed past hard rule violations;
	// the resulting registration is provisional (a replacement), never
	// pending
	Force bool
}

// Register checks eligibility and records the registration. Hard rule
// violations fail with a RuleViolationError listing every violated
// rule, so a reviewer sees the complete picture before deciding to
// force a replacement instead. A slot already at confirmed capacity
// does not block: the registration is created provisional.
//
// Register is safe to retry: the duplicate-slot rule plus the storage
// uniqueness backstop guarantee at most one non-rejected row per
// (volunteer, slot), and the loser of a race observes a ConflictError.
func Register(ctx context.Context, store RegisterStore, eval *eligibility.Evaluator, notifier Notifier, clock Clock, logger *zap.Logger, in RegisterInput) (model.Registration, error) {
	slot, err := store.GetSlot(ctx, in.SlotID)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to fetch slot: %w", err)
	}
	if !slot.Active {
		return model.Registration{}, errs.NotFound("slot", in.SlotID)
	}

	if _, err := store.GetVolunteer(ctx, in.VolunteerID); err != nil {
		return model.Registration{}, fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	result, err := eval.Evaluate(ctx, in.VolunteerID, slot)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to evaluate eligibility: %w", err)
	}

	if len(result.Violations) > 0 && !in.Force {
		logger.Info("Registration blocked by rules",
			zap.String("volunteer_id", in.VolunteerID),
			zap.String("slot_id", in.SlotID),
			zap.Strings("rules", result.RuleNames()))
		return model.Registration{}, &errs.RuleViolationError{Rules: result.RuleNames()}
	}

	status := model.StatusPending
	if result.AtCapacity || (in.Force && len(result.Violations) > 0) {
		// Replacement sign-up: held as a backup rather than queued for
		// normal approval
		status = model.StatusProvisional
	}

	reg := model.Registration{
		ID:          uuid.New().String(),
		SlotID:      in.SlotID,
		VolunteerID: in.VolunteerID,
		CreatedAt:   clock.Now(),
		Status:      status,
		Notes:       in.Notes,
	}

	// A forced replacement is allowed past the cap, so the store must
	// not re-enforce it
	if err := store.InsertRegistration(ctx, &reg, eval.Limits().MonthlyLimit, !in.Force); err != nil {
		return model.Registration{}, fmt.Errorf("failed to insert registration: %w", err)
	}

	logger.Info("Registration created",
		zap.String("registration_id", reg.ID),
		zap.String("volunteer_id", in.VolunteerID),
		zap.String("slot_id", in.SlotID),
		zap.String("status", string(reg.Status)),
		zap.Int("month_count", result.MonthCount))

	if reg.Status == model.StatusProvisional {
		dispatchNotification(ctx, store, notifier, logger, reg, model.NotifyInscriptionProvisional)
	}

	return reg, nil
}

// WithdrawStore defines the database operations needed to withdraw a registration
type WithdrawStore interface {
	GetRegistration(ctx context.Context, id string) (model.Registration, error)
	DeleteRegistration(ctx context.Context, id string) error
}

// Withdraw deletes a registration on behalf of the volunteer who owns
// it. Anyone else is refused. Withdrawal removes the row entirely,
// unlike rejection which keeps it.
func Withdraw(ctx context.Context, store WithdrawStore, logger *zap.Logger, registrationID, requestingVolunteerID string) error {
	reg, err := store.GetRegistration(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("failed to fetch registration: %w", err)
	}

	if reg.VolunteerID != requestingVolunteerID {
		return errs.Forbiddenf("registration %s belongs to another volunteer", registrationID)
	}

	if err := store.DeleteRegistration(ctx, registrationID); err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	logger.Info("Registration withdrawn",
		zap.String("registration_id", registrationID),
		zap.String("volunteer_id", requestingVolunteerID))

	return nil
}
