package postgres

import (
	"context"
	"fmt"

	"github.com/mgrosjean/presentoir/pkg/core/model"
)

// GetVolunteer retrieves one volunteer by id
func (d *DB) GetVolunteer(ctx context.Context, id string) (model.Volunteer, error) {
	var v model.Volunteer
	err := d.pool.QueryRow(ctx, `
		SELECT id, profile_id, elder, ministerial_assistant, pioneer, notes
		FROM volunteers WHERE id = $1
	`, id).Scan(&v.ID, &v.ProfileID, &v.Elder, &v.MinisterialAssistant, &v.Pioneer, &v.Notes)
	if err != nil {
		return model.Volunteer{}, fmt.Errorf("failed to get volunteer: %w", mapNotFound(err, "volunteer", id))
	}
	return v, nil
}

// GetProfile retrieves one profile by id
func (d *DB) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	var p model.Profile
	var role string
	err := d.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, role, active
		FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &role, &p.Active)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", mapNotFound(err, "profile", id))
	}
	p.Role = model.Role(role)
	return p, nil
}
