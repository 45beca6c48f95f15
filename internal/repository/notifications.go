package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

func (q *Queries) InsertNotification(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications
		(id, user_id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING created_at`
	err := q.db.QueryRow(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Type).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (q *Queries) ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]models.Notification, error) {
	query := `SELECT id, user_id, title, message, type, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
