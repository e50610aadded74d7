package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/eligibility"
	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
)

// QueueStore defines the database operations needed to build the
// pending-approval queue
type QueueStore interface {
	ListPendingEntries(ctx context.Context) ([]db.PendingEntry, error)
}

// QueueEntry is one registration awaiting review, annotated with the
// priority information an administrator orders the queue by
type QueueEntry struct {
	Registration model.Registration
	SlotDate     string
	MonthCount   int
	Tier         eligibility.Tier
}

// PendingQueue lists pending and provisional registrations ordered by
// priority tier, then creation time. Volunteers with fewer
// registrations in the slot's month surface first; the tier never
// affects eligibility, only ordering.
func PendingQueue(ctx context.Context, store QueueStore, eval *eligibility.Evaluator, logger *zap.Logger) ([]QueueEntry, error) {
	pending, err := store.ListPendingEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending registrations: %w", err)
	}

	entries := make([]QueueEntry, 0, len(pending))
	for _, p := range pending {
		slotDate, err := time.Parse("2006-01-02", p.SlotDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse slot date %q: %w", p.SlotDate, err)
		}

		count, tier, err := eval.MonthStanding(ctx, p.Registration.VolunteerID, slotDate.Year(), slotDate.Month())
		if err != nil {
			return nil, fmt.Errorf("failed to compute priority for volunteer %s: %w", p.Registration.VolunteerID, err)
		}

		entries = append(entries, QueueEntry{
			Registration: p.Registration,
			SlotDate:     p.SlotDate,
			MonthCount:   count,
			Tier:         tier,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Tier != entries[j].Tier {
			return entries[i].Tier < entries[j].Tier
		}
		return entries[i].Registration.CreatedAt.Before(entries[j].Registration.CreatedAt)
	})

	logger.Debug("Pending queue built", zap.Int("entries", len(entries)))
	return entries, nil
}
