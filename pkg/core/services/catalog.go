package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// CatalogStore defines the database operations needed by the slot catalog
type CatalogStore interface {
	GetSlot(ctx context.Context, id string) (model.Slot, error)
	ListSlots(ctx context.Context, filter db.SlotFilter) ([]model.Slot, error)
	InsertSlot(ctx context.Context, slot *model.Slot) error
	UpdateSlot(ctx context.Context, id string, patch db.SlotPatch) (model.Slot, error)
}

// ListSlots returns the slots matching the filter, ordered by date then
// start time. Ordering and filtering are applied by the store.
func ListSlots(ctx context.Context, store CatalogStore, filter db.SlotFilter) ([]model.Slot, error) {
	slots, err := store.ListSlots(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// CreateSlotInput describes one slot to create
type CreateSlotInput struct {
	ActivityTypeID  string
	Date            string // "2006-01-02"
	StartTime       string // "15:04"
	EndTime         string // "15:04"
	MinParticipants int
	MaxParticipants int
	Notes           string
	SupervisorID    string
}

// CreateSlot validates and inserts a single slot
func CreateSlot(ctx context.Context, store CatalogStore, logger *zap.Logger, in CreateSlotInput) (model.Slot, error) {
	if in.ActivityTypeID == "" {
		return model.Slot{}, errs.Validationf("activity type is required")
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return model.Slot{}, errs.Validationf("invalid slot date %q", in.Date)
	}
	if err := validateCapacity(in.MinParticipants, in.MaxParticipants); err != nil {
		return model.Slot{}, err
	}
	if err := validateTimeWindow(in.StartTime, in.EndTime); err != nil {
		return model.Slot{}, err
	}

	slot := model.Slot{
		ID:              uuid.New().String(),
		ActivityTypeID:  in.ActivityTypeID,
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		MinParticipants: in.MinParticipants,
		MaxParticipants: in.MaxParticipants,
		Active:          true,
		Notes:           in.Notes,
		SupervisorID:    in.SupervisorID,
	}

	if err := store.InsertSlot(ctx, &slot); err != nil {
		return model.Slot{}, fmt.Errorf("failed to insert slot: %w", err)
	}

	logger.Info("Slot created",
		zap.String("slot_id", slot.ID),
		zap.String("activity_type_id", slot.ActivityTypeID),
		zap.String("date", slot.Date),
		zap.String("start", slot.StartTime))

	return slot, nil
}

// UpdateSlot applies a partial update to a slot. Inactive slots are
// only updatable when includeInactive is set.
func UpdateSlot(ctx context.Context, store CatalogStore, logger *zap.Logger, slotID string, patch db.SlotPatch, includeInactive bool) (model.Slot, error) {
	slot, err := store.GetSlot(ctx, slotID)
	if err != nil {
		return model.Slot{}, fmt.Errorf("failed to fetch slot: %w", err)
	}
	if !slot.Active && !includeInactive {
		return model.Slot{}, errs.NotFound("slot", slotID)
	}

	// Validate the patch against the merged slot state
	minP, maxP := slot.MinParticipants, slot.MaxParticipants
	if patch.MinParticipants != nil {
		minP = *patch.MinParticipants
	}
	if patch.MaxParticipants != nil {
		maxP = *patch.MaxParticipants
	}
	if err := validateCapacity(minP, maxP); err != nil {
		return model.Slot{}, err
	}

	start, end := slot.StartTime, slot.EndTime
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
	}
	if err := validateTimeWindow(start, end); err != nil {
		return model.Slot{}, err
	}

	updated, err := store.UpdateSlot(ctx, slotID, patch)
	if err != nil {
		return model.Slot{}, fmt.Errorf("failed to update slot: %w", err)
	}

	logger.Info("Slot updated", zap.String("slot_id", slotID))
	return updated, nil
}

// DeactivateSlot soft-deletes a slot. Calling it on an already
// inactive slot is a no-op. Registrations pointing at the slot are
// kept untouched.
func DeactivateSlot(ctx context.Context, store CatalogStore, logger *zap.Logger, slotID string) error {
	slot, err := store.GetSlot(ctx, slotID)
	if err != nil {
		return fmt.Errorf("failed to fetch slot: %w", err)
	}
	if !slot.Active {
		logger.Debug("Slot already inactive", zap.String("slot_id", slotID))
		return nil
	}

	inactive := false
	if _, err := store.UpdateSlot(ctx, slotID, db.SlotPatch{Active: &inactive}); err != nil {
		return fmt.Errorf("failed to deactivate slot: %w", err)
	}

	logger.Info("Slot deactivated", zap.String("slot_id", slotID))
	return nil
}

// validateCapacity checks the participant bounds invariant 0 < min <= max
func validateCapacity(minParticipants, maxParticipants int) error {
	if minParticipants <= 0 {
		return errs.Validationf("minimum participants must be positive, got %d", minParticipants)
	}
	if minParticipants > maxParticipants {
		return errs.Validationf("minimum participants %d exceeds maximum %d", minParticipants, maxParticipants)
	}
	return nil
}

// validateTimeWindow checks both times parse and the window is positive.
// A non-positive window is a conflict, not a validation failure: the
// inputs are well-formed but mutually inconsistent.
func validateTimeWindow(start, end string) error {
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return errs.Validationf("invalid start time %q", start)
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return errs.Validationf("invalid end time %q", end)
	}
	if !endAt.After(startAt) {
		return errs.Conflictf("time window %s-%s is not positive", start, end)
	}
	return nil
}
