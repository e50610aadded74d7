package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// NotificationContext carries what a dispatcher needs to render a
// registration status message
type NotificationContext struct {
	FirstName    string
	LastName     string
	ActivityName string
	Date         string // "2006-01-02"
	StartTime    string // "15:04"
	EndTime      string // "15:04"
}

// Notifier dispatches a registration status notification to a user.
// Dispatch is best-effort: the status transition is the source of
// truth and a failed dispatch never rolls it back.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind model.NotificationKind, nctx NotificationContext) error
}

// transitions lists the allowed status changes. Confirmed and rejected
// are terminal: a volunteer must withdraw and re-register.
var transitions = map[model.Status][]model.Status{
	model.StatusPending:     {model.StatusConfirmed, model.StatusProvisional, model.StatusRejected},
	model.StatusProvisional: {model.StatusConfirmed, model.StatusRejected},
}

// CanTransition reports whether a registration may move from one
// status to another
func CanTransition(from, to model.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ApprovalStore defines the database operations needed to review registrations
type ApprovalStore interface {
	GetRegistration(ctx context.Context, id string) (model.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id string, status model.Status) (model.Registration, error)
	GetSlot(ctx context.Context, id string) (model.Slot, error)
	GetActivityType(ctx context.Context, id string) (model.ActivityType, error)
	GetVolunteer(ctx context.Context, id string) (model.Volunteer, error)
	GetProfile(ctx context.Context, id string) (model.Profile, error)
}

// Approve confirms a pending or provisional registration
func Approve(ctx context.Context, store ApprovalStore, notifier Notifier, logger *zap.Logger, registrationID string) (model.Registration, error) {
	return transition(ctx, store, notifier, logger, registrationID, model.StatusConfirmed, model.NotifyInscriptionConfirmed)
}

// MarkProvisional parks a pending registration as a replacement
// candidate, kept on hand in case a confirmed volunteer drops out
func MarkProvisional(ctx context.Context, store ApprovalStore, notifier Notifier, logger *zap.Logger, registrationID string) (model.Registration, error) {
	return transition(ctx, store, notifier, logger, registrationID, model.StatusProvisional, model.NotifyInscriptionProvisional)
}

// Reject declines a registration. The row is kept so that a rejection
// stays distinguishable from a withdrawal.
func Reject(ctx context.Context, store ApprovalStore, notifier Notifier, logger *zap.Logger, registrationID string) (model.Registration, error) {
	return transition(ctx, store, notifier, logger, registrationID, model.StatusRejected, model.NotifyInscriptionRejected)
}

func transition(ctx context.Context, store ApprovalStore, notifier Notifier, logger *zap.Logger, registrationID string, to model.Status, kind model.NotificationKind) (model.Registration, error) {
	reg, err := store.GetRegistration(ctx, registrationID)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to fetch registration: %w", err)
	}

	if !CanTransition(reg.Status, to) {
		return model.Registration{}, errs.Conflictf("registration %s cannot move from %s to %s",
			registrationID, reg.Status, to)
	}

	updated, err := store.UpdateRegistrationStatus(ctx, registrationID, to)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to update registration status: %w", err)
	}

	logger.Info("Registration status changed",
		zap.String("registration_id", registrationID),
		zap.String("from", string(reg.Status)),
		zap.String("to", string(to)))

	dispatchNotification(ctx, store, notifier, logger, updated, kind)

	return updated, nil
}

// dispatchNotification resolves the registration's context and sends
// the notification. Failures are logged and swallowed.
func dispatchNotification(ctx context.Context, store ApprovalStore, notifier Notifier, logger *zap.Logger, reg model.Registration, kind model.NotificationKind) {
	nctx, userID, err := buildNotificationContext(ctx, store, reg)
	if err != nil {
		logger.Error("Failed to build notification context",
			zap.String("registration_id", reg.ID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}

	if err := notifier.Notify(ctx, userID, kind, nctx); err != nil {
		logger.Error("Failed to dispatch notification",
			zap.String("registration_id", reg.ID),
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}

	logger.Debug("Notification dispatched",
		zap.String("registration_id", reg.ID),
		zap.String("kind", string(kind)))
}

func buildNotificationContext(ctx context.Context, store ApprovalStore, reg model.Registration) (NotificationContext, string, error) {
	slot, err := store.GetSlot(ctx, reg.SlotID)
	if err != nil {
		return NotificationContext{}, "", fmt.Errorf("failed to fetch slot: %w", err)
	}

	activity, err := store.GetActivityType(ctx, slot.ActivityTypeID)
	if err != nil {
		return NotificationContext{}, "", fmt.Errorf("failed to fetch activity type: %w", err)
	}

	volunteer, err := store.GetVolunteer(ctx, reg.VolunteerID)
	if err != nil {
		return NotificationContext{}, "", fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	profile, err := store.GetProfile(ctx, volunteer.ProfileID)
	if err != nil {
		return NotificationContext{}, "", fmt.Errorf("failed to fetch profile: %w", err)
	}

	return NotificationContext{
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		ActivityName: activity.Name,
		Date:         slot.Date,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
	}, profile.ID, nil
}
