// Package notify implements the core's Notifier contract: every
// status change is recorded as an in-app notification row, and when an
// email sender is configured the same message goes out by mail. The
// dispatcher never retries; callers treat dispatch as best-effort.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/core/services"
)

// EmailSender sends a plain-text email. Implemented by the Gmail client.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// Store provides the persistence the dispatcher needs
type Store interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
	GetProfile(ctx context.Context, id string) (model.Profile, error)
}

// Dispatcher records in-app notifications and optionally mirrors them
// by email
type Dispatcher struct {
	store  Store
	email  EmailSender // nil for in-app only
	clock  services.Clock
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher; pass a nil email sender to
// disable the email mirror
func NewDispatcher(store Store, email EmailSender, clock services.Clock, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, email: email, clock: clock, logger: logger}
}

// Notify records the notification for the user and mirrors it by email
// when a sender is configured
func (d *Dispatcher) Notify(ctx context.Context, userID string, kind model.NotificationKind, nctx services.NotificationContext) error {
	subject, message := Compose(kind, nctx)

	n := model.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     subject,
		Message:   message,
		Kind:      kind,
		CreatedAt: d.clock.Now(),
	}
	if err := d.store.InsertNotification(ctx, &n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	if d.email == nil {
		return nil
	}

	profile, err := d.store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if profile.Email == "" {
		d.logger.Warn("Profile has no email address, skipping email mirror",
			zap.String("profile_id", userID),
			zap.String("kind", string(kind)))
		return nil
	}

	if err := d.email.SendEmail(profile.Email, subject, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	d.logger.Debug("Email sent",
		zap.String("profile_id", userID),
		zap.String("kind", string(kind)))

	return nil
}

// Compose renders the subject and body for a notification kind
func Compose(kind model.NotificationKind, nctx services.NotificationContext) (subject, message string) {
	name := nctx.FirstName + " " + nctx.LastName
	when := fmt.Sprintf("le %s de %s à %s", nctx.Date, nctx.StartTime, nctx.EndTime)

	switch kind {
	case model.NotifyInscriptionConfirmed:
		subject = "Inscription confirmée"
		message = fmt.Sprintf("Bonjour %s,\n\nVotre inscription pour l'activité \"%s\" %s a été confirmée.\n\nÀ bientôt !",
			name, nctx.ActivityName, when)
	case model.NotifyInscriptionRejected:
		subject = "Inscription refusée"
		message = fmt.Sprintf("Bonjour %s,\n\nVotre inscription pour l'activité \"%s\" %s n'a pas pu être acceptée.\n\nN'hésitez pas à vous inscrire pour d'autres créneaux disponibles.",
			name, nctx.ActivityName, when)
	case model.NotifyInscriptionProvisional:
		subject = "Inscription provisoire"
		message = fmt.Sprintf("Bonjour %s,\n\nVotre inscription pour l'activité \"%s\" %s a été mise en statut provisoire. Elle pourra être confirmée si une place se libère.",
			name, nctx.ActivityName, when)
	default:
		subject = "Notification"
		message = fmt.Sprintf("Bonjour %s,\n\nVotre inscription pour l'activité \"%s\" %s a été mise à jour.",
			name, nctx.ActivityName, when)
	}
	return subject, message
}
