package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/eligibility"
	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
)

func pendingEntry(regID, volID string, createdAt time.Time) db.PendingEntry {
	return db.PendingEntry{
		Registration: model.Registration{
			ID:          regID,
			VolunteerID: volID,
			SlotID:      "slot-1",
			Status:      model.StatusPending,
			CreatedAt:   createdAt,
		},
		SlotDate: "2024-06-15",
	}
}

func TestPendingQueue_OrdersByTierThenCreation(t *testing.T) {
	base := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	store := newRegistryStore()
	store.pending = []db.PendingEntry{
		pendingEntry("reg-low", "vol-low", base),
		pendingEntry("reg-high-late", "vol-high", base.Add(2*time.Hour)),
		pendingEntry("reg-medium", "vol-medium", base.Add(time.Hour)),
		pendingEntry("reg-high-early", "vol-high", base),
	}
	eval := eligibility.NewEvaluator(&stubLedger{monthCounts: map[string]int{
		"vol-high":   1,
		"vol-medium": 3,
		"vol-low":    6,
	}}, eligibility.DefaultLimits())

	entries, err := PendingQueue(context.Background(), store, eval, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, entries, 4)
	assert.Equal(t, "reg-high-early", entries[0].Registration.ID)
	assert.Equal(t, "reg-high-late", entries[1].Registration.ID)
	assert.Equal(t, "reg-medium", entries[2].Registration.ID)
	assert.Equal(t, "reg-low", entries[3].Registration.ID)

	assert.Equal(t, eligibility.TierHigh, entries[0].Tier)
	assert.Equal(t, 1, entries[0].MonthCount)
	assert.Equal(t, eligibility.TierMedium, entries[2].Tier)
	assert.Equal(t, eligibility.TierLow, entries[3].Tier)
}

func TestPendingQueue_Empty(t *testing.T) {
	store := newRegistryStore()
	eval := eligibility.NewEvaluator(&stubLedger{}, eligibility.DefaultLimits())

	entries, err := PendingQueue(context.Background(), store, eval, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPendingQueue_StableWithinTier(t *testing.T) {
	base := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	store := newRegistryStore()
	store.pending = []db.PendingEntry{
		pendingEntry("reg-1", "vol-a", base),
		pendingEntry("reg-2", "vol-b", base),
		pendingEntry("reg-3", "vol-c", base),
	}
	eval := eligibility.NewEvaluator(&stubLedger{}, eligibility.DefaultLimits())

	entries, err := PendingQueue(context.Background(), store, eval, zap.NewNop())
	require.NoError(t, err)

	// Same tier, same creation time: input order is preserved
	require.Len(t, entries, 3)
	assert.Equal(t, "reg-1", entries[0].Registration.ID)
	assert.Equal(t, "reg-2", entries[1].Registration.ID)
	assert.Equal(t, "reg-3", entries[2].Registration.ID)
}

func TestPendingQueue_BadSlotDate(t *testing.T) {
	store := newRegistryStore()
	entry := pendingEntry("reg-1", "vol-a", time.Now())
	entry.SlotDate = "June 15"
	store.pending = []db.PendingEntry{entry}
	eval := eligibility.NewEvaluator(&stubLedger{}, eligibility.DefaultLimits())

	_, err := PendingQueue(context.Background(), store, eval, zap.NewNop())
	assert.Error(t, err)
}
