package postgres

import (
	"context"
	"fmt"

	"github.com/mgrosjean/presentoir/pkg/core/model"
)

// InsertNotification records an in-app notification row
func (d *DB) InsertNotification(ctx context.Context, n *model.Notification) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, kind, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.UserID, n.Title, n.Message, string(n.Kind), n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
