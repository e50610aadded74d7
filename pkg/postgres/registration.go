package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mgrosjean/presentoir/pkg/core/eligibility"
	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
	"github.com/mgrosjean/presentoir/pkg/errs"
)

const registrationColumns = `id, slot_id, volunteer_id, created_at, status, notes`

func scanRegistration(row pgx.Row) (model.Registration, error) {
	var r model.Registration
	var status string
	err := row.Scan(&r.ID, &r.SlotID, &r.VolunteerID, &r.CreatedAt, &status, &r.Notes)
	if err != nil {
		return model.Registration{}, err
	}
	r.Status = model.Status(status)
	return r, nil
}

// GetRegistration retrieves one registration by id
func (d *DB) GetRegistration(ctx context.Context, id string) (model.Registration, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to get registration: %w", mapNotFound(err, "registration", id))
	}
	return reg, nil
}

// InsertRegistration inserts a registration after re-checking the
// monthly cap inside the same transaction, unless enforceCap is false
// (forced replacement sign-ups are allowed past the cap). A
// per-volunteer advisory lock serializes concurrent inserts so two
// slots in the same month cannot both slip under the cap. The partial
// unique index on non-rejected (volunteer, slot) pairs catches
// duplicate races; those surface as ConflictError so the caller can
// retry or give up.
func (d *DB) InsertRegistration(ctx context.Context, reg *model.Registration, monthlyLimit int, enforceCap bool) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if enforceCap {
		// Concurrent inserts for the same volunteer must see each
		// other's rows before counting
		_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, reg.VolunteerID)
		if err != nil {
			return fmt.Errorf("failed to lock volunteer registrations: %w", err)
		}

		// Re-check the monthly cap against the slot's month, counting
		// only non-rejected rows
		var count int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM registrations r
			JOIN slots s ON s.id = r.slot_id
			WHERE r.volunteer_id = $1
			  AND r.status <> 'rejected'
			  AND date_trunc('month', s.slot_date) =
			      (SELECT date_trunc('month', slot_date) FROM slots WHERE id = $2)
		`, reg.VolunteerID, reg.SlotID).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count monthly registrations: %w", err)
		}
		if count >= monthlyLimit {
			return &errs.RuleViolationError{Rules: []string{string(eligibility.RuleMonthlyLimitReached)}}
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO registrations (id, slot_id, volunteer_id, created_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reg.ID, reg.SlotID, reg.VolunteerID, reg.CreatedAt, string(reg.Status), reg.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Conflictf("volunteer %s already holds a registration for slot %s",
				reg.VolunteerID, reg.SlotID)
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

// DeleteRegistration removes a registration row (volunteer withdrawal)
func (d *DB) DeleteRegistration(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("registration", id)
	}
	return nil
}

// UpdateRegistrationStatus sets the status and returns the updated row
func (d *DB) UpdateRegistrationStatus(ctx context.Context, id string, status model.Status) (model.Registration, error) {
	row := d.pool.QueryRow(ctx, `
		UPDATE registrations SET status = $2 WHERE id = $1
		RETURNING `+registrationColumns,
		id, string(status))
	reg, err := scanRegistration(row)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to update registration status: %w", mapNotFound(err, "registration", id))
	}
	return reg, nil
}

// ListRegistrations retrieves registrations matching the filter,
// oldest first
func (d *DB) ListRegistrations(ctx context.Context, filter db.RegistrationFilter) ([]model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE TRUE`
	var args []any

	if filter.SlotID != "" {
		args = append(args, filter.SlotID)
		query += fmt.Sprintf(" AND slot_id = $%d", len(args))
	}
	if filter.VolunteerID != "" {
		args = append(args, filter.VolunteerID)
		query += fmt.Sprintf(" AND volunteer_id = $%d", len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

// ListPendingEntries retrieves registrations awaiting review together
// with their slot dates
func (d *DB) ListPendingEntries(ctx context.Context) ([]db.PendingEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT r.id, r.slot_id, r.volunteer_id, r.created_at, r.status, r.notes, s.slot_date
		FROM registrations r
		JOIN slots s ON s.id = r.slot_id
		WHERE r.status IN ('pending', 'provisional')
		ORDER BY r.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending registrations: %w", err)
	}
	defer rows.Close()

	var entries []db.PendingEntry
	for rows.Next() {
		var e db.PendingEntry
		var status string
		var slotDate time.Time
		err := rows.Scan(&e.Registration.ID, &e.Registration.SlotID, &e.Registration.VolunteerID,
			&e.Registration.CreatedAt, &status, &e.Registration.Notes, &slotDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending registration: %w", err)
		}
		e.Registration.Status = model.Status(status)
		e.SlotDate = slotDate.Format("2006-01-02")
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending registrations: %w", err)
	}

	return entries, nil
}

// CountForVolunteerInMonth counts the volunteer's non-rejected
// registrations whose slot date falls in the given month
func (d *DB) CountForVolunteerInMonth(ctx context.Context, volunteerID string, year int, month time.Month) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM registrations r
		JOIN slots s ON s.id = r.slot_id
		WHERE r.volunteer_id = $1
		  AND r.status <> 'rejected'
		  AND EXTRACT(YEAR FROM s.slot_date) = $2
		  AND EXTRACT(MONTH FROM s.slot_date) = $3
	`, volunteerID, year, int(month)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count monthly registrations: %w", err)
	}
	return count, nil
}

// HasRegistrationForSlot reports whether the volunteer already holds a
// non-rejected registration for the slot
func (d *DB) HasRegistrationForSlot(ctx context.Context, volunteerID, slotID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE volunteer_id = $1 AND slot_id = $2 AND status <> 'rejected'
		)
	`, volunteerID, slotID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration for slot: %w", err)
	}
	return exists, nil
}

// CountConfirmedForSlot counts the slot's confirmed registrations
func (d *DB) CountConfirmedForSlot(ctx context.Context, slotID string) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM registrations WHERE slot_id = $1 AND status = 'confirmed'
	`, slotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}
	return count, nil
}
