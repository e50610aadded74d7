package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
)

const slotColumns = `id, activity_type_id, slot_date, start_time, end_time,
	min_participants, max_participants, active, notes, COALESCE(supervisor_id::text, '')`

func scanSlot(row pgx.Row) (model.Slot, error) {
	var s model.Slot
	var date time.Time
	err := row.Scan(&s.ID, &s.ActivityTypeID, &date, &s.StartTime, &s.EndTime,
		&s.MinParticipants, &s.MaxParticipants, &s.Active, &s.Notes, &s.SupervisorID)
	if err != nil {
		return model.Slot{}, err
	}
	s.Date = date.Format("2006-01-02")
	return s, nil
}

// GetSlot retrieves one slot by id
func (d *DB) GetSlot(ctx context.Context, id string) (model.Slot, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id)
	slot, err := scanSlot(row)
	if err != nil {
		return model.Slot{}, fmt.Errorf("failed to get slot: %w", mapNotFound(err, "slot", id))
	}
	return slot, nil
}

// ListSlots retrieves slots matching the filter, ordered by date then
// start time
func (d *DB) ListSlots(ctx context.Context, filter db.SlotFilter) ([]model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE TRUE`
	var args []any

	if filter.ActivityTypeID != "" {
		args = append(args, filter.ActivityTypeID)
		query += fmt.Sprintf(" AND activity_type_id = $%d", len(args))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		query += fmt.Sprintf(" AND slot_date >= $%d", len(args))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		query += fmt.Sprintf(" AND slot_date <= $%d", len(args))
	}
	if filter.OnlyActive {
		query += " AND active"
	}
	query += " ORDER BY slot_date, start_time"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slots: %w", err)
	}

	return slots, nil
}

// InsertSlot inserts a single slot record
func (d *DB) InsertSlot(ctx context.Context, slot *model.Slot) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO slots (id, activity_type_id, slot_date, start_time, end_time,
			min_participants, max_participants, active, notes, supervisor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid)
	`, slot.ID, slot.ActivityTypeID, slot.Date, slot.StartTime, slot.EndTime,
		slot.MinParticipants, slot.MaxParticipants, slot.Active, slot.Notes, slot.SupervisorID)
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

// InsertSlots inserts a generated batch in one transaction so a
// failure partway leaves no partial batch
func (d *DB) InsertSlots(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, slot := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO slots (id, activity_type_id, slot_date, start_time, end_time,
				min_participants, max_participants, active, notes, supervisor_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid)
		`, slot.ID, slot.ActivityTypeID, slot.Date, slot.StartTime, slot.EndTime,
			slot.MinParticipants, slot.MaxParticipants, slot.Active, slot.Notes, slot.SupervisorID)
		if err != nil {
			return fmt.Errorf("failed to insert slot for %s: %w", slot.Date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit slot batch: %w", err)
	}
	return nil
}

// UpdateSlot applies a partial update and returns the updated slot
func (d *DB) UpdateSlot(ctx context.Context, id string, patch db.SlotPatch) (model.Slot, error) {
	set := ""
	var args []any

	addSet := func(column string, value any) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if patch.StartTime != nil {
		addSet("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		addSet("end_time", *patch.EndTime)
	}
	if patch.MinParticipants != nil {
		addSet("min_participants", *patch.MinParticipants)
	}
	if patch.MaxParticipants != nil {
		addSet("max_participants", *patch.MaxParticipants)
	}
	if patch.Notes != nil {
		addSet("notes", *patch.Notes)
	}
	if patch.SupervisorID != nil {
		args = append(args, *patch.SupervisorID)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("supervisor_id = NULLIF($%d, '')::uuid", len(args))
	}
	if patch.Active != nil {
		addSet("active", *patch.Active)
	}

	if set == "" {
		return d.GetSlot(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE slots SET %s WHERE id = $%d RETURNING %s", set, len(args), slotColumns)

	slot, err := scanSlot(d.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Slot{}, fmt.Errorf("failed to update slot: %w", mapNotFound(err, "slot", id))
	}
	return slot, nil
}
