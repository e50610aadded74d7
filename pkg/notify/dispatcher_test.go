package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/core/services"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// mockStore implements Store for testing
type mockStore struct {
	notifications []model.Notification
	profiles      map[string]model.Profile
	insertErr     error
}

func (m *mockStore) InsertNotification(ctx context.Context, n *model.Notification) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockStore) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return model.Profile{}, errs.NotFound("profile", id)
	}
	return profile, nil
}

type sentEmail struct {
	to, subject, body string
}

// mockEmailSender implements EmailSender for testing
type mockEmailSender struct {
	sent []sentEmail
	err  error
}

func (m *mockEmailSender) SendEmail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type testClock struct {
	now time.Time
}

func (c testClock) Now() time.Time { return c.now }

func notificationContext() services.NotificationContext {
	return services.NotificationContext{
		FirstName:    "Marie",
		LastName:     "Dupont",
		ActivityName: "Présentoir gare",
		Date:         "2024-06-15",
		StartTime:    "09:00",
		EndTime:      "11:00",
	}
}

func newStore() *mockStore {
	return &mockStore{
		profiles: map[string]model.Profile{
			"profile-1": {ID: "profile-1", Email: "marie@example.com"},
		},
	}
}

func TestNotify_RecordsInAppNotification(t *testing.T) {
	store := newStore()
	clock := testClock{now: time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)}
	d := NewDispatcher(store, nil, clock, zap.NewNop())

	err := d.Notify(context.Background(), "profile-1", model.NotifyInscriptionConfirmed, notificationContext())
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	n := store.notifications[0]
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "profile-1", n.UserID)
	assert.Equal(t, "Inscription confirmée", n.Title)
	assert.Contains(t, n.Message, "Marie Dupont")
	assert.Contains(t, n.Message, "Présentoir gare")
	assert.Equal(t, model.NotifyInscriptionConfirmed, n.Kind)
	assert.Equal(t, clock.now, n.CreatedAt)
}

func TestNotify_MirrorsByEmailWhenConfigured(t *testing.T) {
	store := newStore()
	email := &mockEmailSender{}
	d := NewDispatcher(store, email, testClock{now: time.Now()}, zap.NewNop())

	err := d.Notify(context.Background(), "profile-1", model.NotifyInscriptionRejected, notificationContext())
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "marie@example.com", email.sent[0].to)
	assert.Equal(t, "Inscription refusée", email.sent[0].subject)
	assert.Contains(t, email.sent[0].body, "n'a pas pu être acceptée")
}

func TestNotify_SkipsEmailForEmptyAddress(t *testing.T) {
	store := newStore()
	store.profiles["profile-1"] = model.Profile{ID: "profile-1"}
	email := &mockEmailSender{}
	d := NewDispatcher(store, email, testClock{now: time.Now()}, zap.NewNop())

	err := d.Notify(context.Background(), "profile-1", model.NotifyInscriptionConfirmed, notificationContext())
	require.NoError(t, err)

	assert.Len(t, store.notifications, 1)
	assert.Empty(t, email.sent)
}

func TestNotify_InsertFailure(t *testing.T) {
	store := newStore()
	store.insertErr = assert.AnError
	d := NewDispatcher(store, nil, testClock{now: time.Now()}, zap.NewNop())

	err := d.Notify(context.Background(), "profile-1", model.NotifyInscriptionConfirmed, notificationContext())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNotify_EmailFailure(t *testing.T) {
	store := newStore()
	email := &mockEmailSender{err: assert.AnError}
	d := NewDispatcher(store, email, testClock{now: time.Now()}, zap.NewNop())

	err := d.Notify(context.Background(), "profile-1", model.NotifyInscriptionProvisional, notificationContext())
	require.Error(t, err)

	// The in-app row is kept even when the email mirror fails
	assert.Len(t, store.notifications, 1)
}

func TestCompose_Provisional(t *testing.T) {
	subject, message := Compose(model.NotifyInscriptionProvisional, notificationContext())

	assert.Equal(t, "Inscription provisoire", subject)
	assert.Contains(t, message, "statut provisoire")
	assert.Contains(t, message, "le 2024-06-15 de 09:00 à 11:00")
}

func TestCompose_UnknownKindFallsBack(t *testing.T) {
	subject, message := Compose(model.NotificationKind("something-else"), notificationContext())

	assert.Equal(t, "Notification", subject)
	assert.Contains(t, message, "mise à jour")
}
