package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mgrosjean/presentoir/pkg/core/model"
)

const activityTypeColumns = `id, name, description, default_start, default_end,
	default_min, default_max, recurrence_enabled, recurrence_weekdays, recurrence_weeks,
	recurrence_start, recurrence_end, auto_generate, COALESCE(approver_id::text, ''), active`

func scanActivityType(row pgx.Row) (model.ActivityType, error) {
	var at model.ActivityType
	var weekdays, weeks []int32
	err := row.Scan(&at.ID, &at.Name, &at.Description, &at.DefaultStart, &at.DefaultEnd,
		&at.DefaultMin, &at.DefaultMax, &at.Recurrence.Enabled, &weekdays, &weeks,
		&at.Recurrence.StartTime, &at.Recurrence.EndTime, &at.AutoGenerate, &at.ApproverID, &at.Active)
	if err != nil {
		return model.ActivityType{}, err
	}
	at.Recurrence.Weekdays = toInts(weekdays)
	at.Recurrence.WeeksOfMonth = toInts(weeks)
	return at, nil
}

func toInts(values []int32) []int {
	if len(values) == 0 {
		return nil
	}
	result := make([]int, len(values))
	for i, v := range values {
		result[i] = int(v)
	}
	return result
}

// GetActivityType retrieves one activity type by id
func (d *DB) GetActivityType(ctx context.Context, id string) (model.ActivityType, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+activityTypeColumns+` FROM activity_types WHERE id = $1`, id)
	at, err := scanActivityType(row)
	if err != nil {
		return model.ActivityType{}, fmt.Errorf("failed to get activity type: %w", mapNotFound(err, "activity type", id))
	}
	return at, nil
}

// ListActivityTypes retrieves activity types ordered by name
func (d *DB) ListActivityTypes(ctx context.Context, onlyActive bool) ([]model.ActivityType, error) {
	query := `SELECT ` + activityTypeColumns + ` FROM activity_types`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity types: %w", err)
	}
	defer rows.Close()

	var types []model.ActivityType
	for rows.Next() {
		at, err := scanActivityType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity type: %w", err)
		}
		types = append(types, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity types: %w", err)
	}

	return types, nil
}
