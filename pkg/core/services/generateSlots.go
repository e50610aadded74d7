package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/core/recurrence"
	"github.com/mgrosjean/presentoir/pkg/db"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

// GenerateStore defines the database operations needed for slot generation
type GenerateStore interface {
	GetActivityType(ctx context.Context, id string) (model.ActivityType, error)
	ListSlots(ctx context.Context, filter db.SlotFilter) ([]model.Slot, error)
	// InsertSlots must be all-or-nothing: no partial batch on failure
	InsertSlots(ctx context.Context, slots []model.Slot) error
}

// GenerateSlotsInput describes a recurring slot series to expand
type GenerateSlotsInput struct {
	ActivityTypeID  string
	Weekday         time.Weekday
	StartTime       string // "15:04"
	EndTime         string // "15:04"
	Frequency       recurrence.Frequency
	StartDate       string // "2006-01-02", defaults to today
	EndDate         string // "2006-01-02", required
	MinParticipants int
	MaxParticipants int
	Notes           string
}

// GenerateSlots expands the series into concrete slots and inserts
// them in one transaction. A range with no occurrences is reported as
// a warning and yields an empty result, not an error. Open-ended
// series are disallowed: the end date is required.
func GenerateSlots(ctx context.Context, store GenerateStore, clock Clock, logger *zap.Logger, in GenerateSlotsInput) ([]model.Slot, error) {
	if _, err := store.GetActivityType(ctx, in.ActivityTypeID); err != nil {
		return nil, fmt.Errorf("failed to fetch activity type: %w", err)
	}
	if err := validateCapacity(in.MinParticipants, in.MaxParticipants); err != nil {
		return nil, err
	}
	if err := validateTimeWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	start := recurrence.Midnight(clock.Now())
	if in.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return nil, errs.Validationf("invalid start date %q", in.StartDate)
		}
		start = parsed
	}

	if in.EndDate == "" {
		return nil, errs.Validationf("end date is required")
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return nil, errs.Validationf("invalid end date %q", in.EndDate)
	}

	dates, err := recurrence.Occurrences(start, in.Weekday, in.Frequency, end)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		logger.Warn("Recurrence produced no occurrences",
			zap.String("activity_type_id", in.ActivityTypeID),
			zap.Stringer("weekday", in.Weekday),
			zap.String("frequency", string(in.Frequency)),
			zap.String("start", start.Format("2006-01-02")),
			zap.String("end", in.EndDate))
		return []model.Slot{}, nil
	}

	slots := make([]model.Slot, len(dates))
	for i, date := range dates {
		slots[i] = model.Slot{
			ID:              uuid.New().String(),
			ActivityTypeID:  in.ActivityTypeID,
			Date:            date.Format("2006-01-02"),
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			MinParticipants: in.MinParticipants,
			MaxParticipants: in.MaxParticipants,
			Active:          true,
			Notes:           in.Notes,
		}
	}

	if err := store.InsertSlots(ctx, slots); err != nil {
		return nil, fmt.Errorf("failed to insert generated slots: %w", err)
	}

	logger.Info("Slots generated",
		zap.String("activity_type_id", in.ActivityTypeID),
		zap.Int("count", len(slots)),
		zap.String("first", slots[0].Date),
		zap.String("last", slots[len(slots)-1].Date))

	return slots, nil
}

// AutoGenerateStore defines the database operations needed for
// recurrence-driven slot generation across activity types
type AutoGenerateStore interface {
	GenerateStore
	ListActivityTypes(ctx context.Context, onlyActive bool) ([]model.ActivityType, error)
}

// GenerateFromActivityTypes expands the recurrence rule of every
// active, auto-generating activity type over the coming horizon and
// inserts the slots that do not exist yet. Dates that already carry a
// slot for the same activity type are skipped.
func GenerateFromActivityTypes(ctx context.Context, store AutoGenerateStore, clock Clock, logger *zap.Logger, horizonDays int) ([]model.Slot, error) {
	if horizonDays <= 0 {
		return nil, errs.Validationf("generation horizon must be positive, got %d", horizonDays)
	}

	types, err := store.ListActivityTypes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity types: %w", err)
	}

	today := recurrence.Midnight(clock.Now())
	until := today.AddDate(0, 0, horizonDays)

	var created []model.Slot
	for _, at := range types {
		if !at.AutoGenerate || !at.Recurrence.Enabled {
			continue
		}

		dates, err := recurrence.RuleOccurrences(at.Recurrence, today, until)
		if err != nil {
			return nil, fmt.Errorf("failed to expand recurrence for activity type %s: %w", at.ID, err)
		}
		if len(dates) == 0 {
			continue
		}

		existing, err := store.ListSlots(ctx, db.SlotFilter{
			ActivityTypeID: at.ID,
			DateFrom:       today.Format("2006-01-02"),
			DateTo:         until.Format("2006-01-02"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list existing slots for activity type %s: %w", at.ID, err)
		}
		taken := make(map[string]bool, len(existing))
		for _, slot := range existing {
			taken[slot.Date] = true
		}

		startTime, endTime := at.Recurrence.StartTime, at.Recurrence.EndTime
		if startTime == "" {
			startTime = at.DefaultStart
		}
		if endTime == "" {
			endTime = at.DefaultEnd
		}

		var batch []model.Slot
		for _, date := range dates {
			day := date.Format("2006-01-02")
			if taken[day] {
				continue
			}
			batch = append(batch, model.Slot{
				ID:              uuid.New().String(),
				ActivityTypeID:  at.ID,
				Date:            day,
				StartTime:       startTime,
				EndTime:         endTime,
				MinParticipants: at.DefaultMin,
				MaxParticipants: at.DefaultMax,
				Active:          true,
			})
		}
		if len(batch) == 0 {
			logger.Debug("All occurrences already have slots", zap.String("activity_type_id", at.ID))
			continue
		}

		if err := store.InsertSlots(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to insert slots for activity type %s: %w", at.ID, err)
		}

		logger.Info("Auto-generated slots",
			zap.String("activity_type_id", at.ID),
			zap.String("activity", at.Name),
			zap.Int("count", len(batch)))

		created = append(created, batch...)
	}

	return created, nil
}
