package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.Status
		allowed  bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusProvisional, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusProvisional, model.StatusConfirmed, true},
		{model.StatusProvisional, model.StatusRejected, true},
		{model.StatusProvisional, model.StatusPending, false},
		{model.StatusConfirmed, model.StatusRejected, false},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusRejected, model.StatusConfirmed, false},
		{model.StatusRejected, model.StatusPending, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestApprove_Pending(t *testing.T) {
	store := newRegistryStore()
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusPending,
	}
	notifier := &mockNotifier{}

	reg, err := Approve(context.Background(), store, notifier, zap.NewNop(), "reg-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, reg.Status)
	assert.Equal(t, model.StatusConfirmed, store.registrations["reg-1"].Status)

	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	assert.Equal(t, "profile-1", call.userID)
	assert.Equal(t, model.NotifyInscriptionConfirmed, call.kind)
	assert.Equal(t, "Marie", call.nctx.FirstName)
	assert.Equal(t, "Dupont", call.nctx.LastName)
	assert.Equal(t, "Présentoir gare", call.nctx.ActivityName)
	assert.Equal(t, "2024-06-15", call.nctx.Date)
}

func TestApprove_Provisional(t *testing.T) {
	store := newRegistryStore()
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusProvisional,
	}

	reg, err := Approve(context.Background(), store, &mockNotifier{}, zap.NewNop(), "reg-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, reg.Status)
}

func TestReject_SendsRejectionNotification(t *testing.T) {
	store := newRegistryStore()
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusPending,
	}
	notifier := &mockNotifier{}

	reg, err := Reject(context.Background(), store, notifier, zap.NewNop(), "reg-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, reg.Status)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, model.NotifyInscriptionRejected, notifier.calls[0].kind)
}

func TestMarkProvisional_FromPending(t *testing.T) {
	store := newRegistryStore()
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusPending,
	}
	notifier := &mockNotifier{}

	reg, err := MarkProvisional(context.Background(), store, notifier, zap.NewNop(), "reg-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusProvisional, reg.Status)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, model.NotifyInscriptionProvisional, notifier.calls[0].kind)
}

func TestTransition_TerminalStatusConflicts(t *testing.T) {
	store := newRegistryStore()
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusRejected,
	}
	notifier := &mockNotifier{}

	_, err := Approve(context.Background(), store, notifier, zap.NewNop(), "reg-1")
	require.Error(t, err)

	var conflictErr *errs.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	// Status untouched, nothing dispatched
	assert.Equal(t, model.StatusRejected, store.registrations["reg-1"].Status)
	assert.Empty(t, notifier.calls)
}

func TestTransition_UnknownRegistration(t *testing.T) {
	store := newRegistryStore()

	_, err := Approve(context.Background(), store, &mockNotifier{}, zap.NewNop(), "missing")
	require.Error(t, err)

	var notFoundErr *errs.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestTransition_NotifierFailureIsSwallowed(t *testing.T) {
	store := newRegistryStore()
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusPending,
	}
	notifier := &mockNotifier{err: assert.AnError}

	reg, err := Approve(context.Background(), store, notifier, zap.NewNop(), "reg-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, reg.Status)
}

func TestTransition_MissingProfileStillTransitions(t *testing.T) {
	// Notification context resolution fails but the status change sticks
	store := newRegistryStore()
	delete(store.profiles, "profile-1")
	store.registrations["reg-1"] = model.Registration{
		ID: "reg-1", VolunteerID: "vol-1", SlotID: "slot-1", Status: model.StatusPending,
	}
	notifier := &mockNotifier{}

	reg, err := Approve(context.Background(), store, notifier, zap.NewNop(), "reg-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, reg.Status)
	assert.Empty(t, notifier.calls)
}
