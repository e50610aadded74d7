package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// mockCatalogStore implements CatalogStore for testing
type mockCatalogStore struct {
	slots     map[string]model.Slot
	listed    []model.Slot
	inserted  []model.Slot
	patches   []db.SlotPatch
	getErr    error
	listErr   error
	insertErr error
	updateErr error
}

func (m *mockCatalogStore) GetSlot(ctx context.Context, id string) (model.Slot, error) {
	if m.getErr != nil {
		return model.Slot{}, m.getErr
	}
	slot, ok := m.slots[id]
	if !ok {
		return model.Slot{}, errs.NotFound("slot", id)
	}
	return slot, nil
}

func (m *mockCatalogStore) ListSlots(ctx context.Context, filter db.SlotFilter) ([]model.Slot, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

func (m *mockCatalogStore) InsertSlot(ctx context.Context, slot *model.Slot) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *slot)
	return nil
}

func (m *mockCatalogStore) UpdateSlot(ctx context.Context, id string, patch db.SlotPatch) (model.Slot, error) {
	if m.updateErr != nil {
		return model.Slot{}, m.updateErr
	}
	m.patches = append(m.patches, patch)
	slot := m.slots[id]
	if patch.Active != nil {
		slot.Active = *patch.Active
	}
	if patch.MinParticipants != nil {
		slot.MinParticipants = *patch.MinParticipants
	}
	if patch.MaxParticipants != nil {
		slot.MaxParticipants = *patch.MaxParticipants
	}
	m.slots[id] = slot
	return slot, nil
}

func validCreateInput() CreateSlotInput {
	return CreateSlotInput{
		ActivityTypeID:  "activity-1",
		Date:            "2024-06-15",
		StartTime:       "09:00",
		EndTime:         "11:00",
		MinParticipants: 1,
		MaxParticipants: 2,
	}
}

func TestCreateSlot_Success(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{}}
	logger := zap.NewNop()

	slot, err := CreateSlot(context.Background(), store, logger, validCreateInput())
	require.NoError(t, err)

	assert.NotEmpty(t, slot.ID)
	assert.True(t, slot.Active)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, slot, store.inserted[0])
}

func TestCreateSlot_InvalidDate(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{}}
	in := validCreateInput()
	in.Date = "15/06/2024"

	_, err := CreateSlot(context.Background(), store, zap.NewNop(), in)
	require.Error(t, err)

	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, store.inserted)
}

func TestCreateSlot_MissingActivityType(t *testing.T) {
	in := validCreateInput()
	in.ActivityTypeID = ""

	_, err := CreateSlot(context.Background(), &mockCatalogStore{}, zap.NewNop(), in)
	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateSlot_CapacityInvariants(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{"zero minimum", 0, 2},
		{"negative minimum", -1, 2},
		{"minimum above maximum", 3, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			in.MinParticipants = tc.min
			in.MaxParticipants = tc.max

			_, err := CreateSlot(context.Background(), &mockCatalogStore{}, zap.NewNop(), in)
			var validationErr *errs.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestCreateSlot_NonPositiveTimeWindow(t *testing.T) {
	in := validCreateInput()
	in.StartTime = "11:00"
	in.EndTime = "09:00"

	_, err := CreateSlot(context.Background(), &mockCatalogStore{}, zap.NewNop(), in)
	require.Error(t, err)

	var conflictErr *errs.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestCreateSlot_EqualTimesRejected(t *testing.T) {
	in := validCreateInput()
	in.StartTime = "09:00"
	in.EndTime = "09:00"

	_, err := CreateSlot(context.Background(), &mockCatalogStore{}, zap.NewNop(), in)
	var conflictErr *errs.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestUpdateSlot_InactiveHiddenByDefault(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{
		"slot-1": {ID: "slot-1", Active: false, MinParticipants: 1, MaxParticipants: 2, StartTime: "09:00", EndTime: "11:00"},
	}}

	newMax := 3
	_, err := UpdateSlot(context.Background(), store, zap.NewNop(), "slot-1", db.SlotPatch{MaxParticipants: &newMax}, false)
	require.Error(t, err)

	var notFoundErr *errs.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestUpdateSlot_InactiveWithOverride(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{
		"slot-1": {ID: "slot-1", Active: false, MinParticipants: 1, MaxParticipants: 2, StartTime: "09:00", EndTime: "11:00"},
	}}

	newMax := 3
	updated, err := UpdateSlot(context.Background(), store, zap.NewNop(), "slot-1", db.SlotPatch{MaxParticipants: &newMax}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxParticipants)
}

func TestUpdateSlot_PatchValidatedAgainstMergedState(t *testing.T) {
	// Slot has min=2; raising only max is fine, lowering max below the
	// existing min is not
	store := &mockCatalogStore{slots: map[string]model.Slot{
		"slot-1": {ID: "slot-1", Active: true, MinParticipants: 2, MaxParticipants: 4, StartTime: "09:00", EndTime: "11:00"},
	}}

	newMax := 1
	_, err := UpdateSlot(context.Background(), store, zap.NewNop(), "slot-1", db.SlotPatch{MaxParticipants: &newMax}, false)
	require.Error(t, err)

	var validationErr *errs.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, store.patches)
}

func TestDeactivateSlot_Success(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{
		"slot-1": {ID: "slot-1", Active: true, MinParticipants: 1, MaxParticipants: 2},
	}}

	err := DeactivateSlot(context.Background(), store, zap.NewNop(), "slot-1")
	require.NoError(t, err)

	assert.False(t, store.slots["slot-1"].Active)
}

func TestDeactivateSlot_AlreadyInactiveIsNoOp(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{
		"slot-1": {ID: "slot-1", Active: false},
	}}

	err := DeactivateSlot(context.Background(), store, zap.NewNop(), "slot-1")
	require.NoError(t, err)
	assert.Empty(t, store.patches)
}

func TestDeactivateSlot_UnknownSlot(t *testing.T) {
	store := &mockCatalogStore{slots: map[string]model.Slot{}}

	err := DeactivateSlot(context.Background(), store, zap.NewNop(), "missing")
	require.Error(t, err)

	var notFoundErr *errs.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestListSlots_PassesThrough(t *testing.T) {
	store := &mockCatalogStore{listed: []model.Slot{{ID: "slot-1"}, {ID: "slot-2"}}}

	slots, err := ListSlots(context.Background(), store, db.SlotFilter{OnlyActive: true})
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}
