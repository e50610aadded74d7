package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mgrosjean/presentoir/pkg/core/model"
	"github.com/mgrosjean/presentoir/pkg/db"
)

const reportColumns = `id, volunteer_id, COALESCE(slot_id::text, ''), year, month,
	hours, placements, videos, bible_studies, approved, COALESCE(approved_by::text, ''),
	approved_at, public, notes`

func scanReport(row pgx.Row) (model.Report, error) {
	var r model.Report
	err := row.Scan(&r.ID, &r.VolunteerID, &r.SlotID, &r.Year, &r.Month,
		&r.Hours, &r.Placements, &r.Videos, &r.BibleStudies, &r.Approved, &r.ApprovedBy,
		&r.ApprovedAt, &r.Public, &r.Notes)
	if err != nil {
		return model.Report{}, err
	}
	return r, nil
}

// GetReport retrieves one report by id
func (d *DB) GetReport(ctx context.Context, id string) (model.Report, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	report, err := scanReport(row)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to get report: %w", mapNotFound(err, "report", id))
	}
	return report, nil
}

// InsertReport inserts a new report record
func (d *DB) InsertReport(ctx context.Context, report *model.Report) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO reports (id, volunteer_id, slot_id, year, month,
			hours, placements, videos, bible_studies, approved, approved_by,
			approved_at, public, notes)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10,
			NULLIF($11, '')::uuid, $12, $13, $14)
	`, report.ID, report.VolunteerID, report.SlotID, report.Year, report.Month,
		report.Hours, report.Placements, report.Videos, report.BibleStudies,
		report.Approved, report.ApprovedBy, report.ApprovedAt, report.Public, report.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// UpdateReport persists approval and visibility changes
func (d *DB) UpdateReport(ctx context.Context, report *model.Report) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE reports
		SET hours = $2, placements = $3, videos = $4, bible_studies = $5,
			approved = $6, approved_by = NULLIF($7, '')::uuid, approved_at = $8,
			public = $9, notes = $10
		WHERE id = $1
	`, report.ID, report.Hours, report.Placements, report.Videos, report.BibleStudies,
		report.Approved, report.ApprovedBy, report.ApprovedAt, report.Public, report.Notes)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update report: %w", mapNotFound(pgx.ErrNoRows, "report", report.ID))
	}
	return nil
}

// ListReports retrieves reports matching the filter
func (d *DB) ListReports(ctx context.Context, filter db.ReportFilter) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE TRUE`
	var args []any

	if filter.VolunteerID != "" {
		args = append(args, filter.VolunteerID)
		query += fmt.Sprintf(" AND volunteer_id = $%d", len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		query += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filter.OnlyPublic {
		query += " AND public"
	}
	query += " ORDER BY year, month, created_at"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}
