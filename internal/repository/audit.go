package repository

import (
	"context"
	"fmt"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

func (q *Queries) InsertAuditLog(ctx context.Context, l *models.AuditLog) error {
	query := `INSERT INTO audit_logs
		(id, actor_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW())
		RETURNING created_at`
	err := q.db.QueryRow(ctx, query,
		l.ID, l.ActorID, l.Action, l.EntityType, l.EntityID, l.Detail,
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
