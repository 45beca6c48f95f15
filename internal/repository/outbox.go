package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

const outboxColumns = `id, user_id, routing_key, payload, status, attempts,
	next_retry_at, created_at, updated_at`

func (q *Queries) EnqueueOutbox(ctx context.Context, m *models.OutboxMessage) error {
	query := `INSERT INTO notification_outbox
		(id, user_id, routing_key, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := q.db.QueryRow(ctx, query,
		m.ID, m.UserID, m.RoutingKey, m.Payload, models.OutboxPending,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("enqueue outbox message: %w", err)
	}
	m.Status = models.OutboxPending
	return nil
}

// ClaimOutboxBatch marks a batch of due messages as processing and returns
// them. SKIP LOCKED keeps concurrent dispatchers from claiming the same
// rows; processing rows older than staleBefore are reclaimed so a crashed
// dispatcher cannot strand messages.
func (q *Queries) ClaimOutboxBatch(ctx context.Context, limit int32, staleBefore time.Time) ([]models.OutboxMessage, error) {
	query := `UPDATE notification_outbox SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE (status = $2 AND (next_retry_at IS NULL OR next_retry_at <= NOW()))
			   OR (status = $1 AND updated_at < $3)
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns
	rows, err := q.db.Query(ctx, query, models.OutboxProcessing, models.OutboxPending, staleBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("claim outbox batch: %w", err)
	}
	defer rows.Close()

	var msgs []models.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.RoutingKey, &m.Payload, &m.Status,
			&m.Attempts, &m.NextRetryAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (q *Queries) MarkOutboxPublished(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE notification_outbox SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := q.db.Exec(ctx, query, models.OutboxPublished, id)
	if err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkOutboxFailed returns the message to pending with an incremented
// attempt count; the dispatcher retries it after nextRetryAt.
func (q *Queries) MarkOutboxFailed(ctx context.Context, id uuid.UUID, nextRetryAt time.Time) (int64, error) {
	query := `UPDATE notification_outbox SET
		status = $1, attempts = attempts + 1, next_retry_at = $2, updated_at = NOW()
		WHERE id = $3`
	tag, err := q.db.Exec(ctx, query, models.OutboxPending, nextRetryAt, id)
	if err != nil {
		return 0, fmt.Errorf("mark outbox failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) CountOutboxBacklog(ctx context.Context) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM notification_outbox WHERE status IN ($1, $2)`
	if err := q.db.QueryRow(ctx, query, models.OutboxPending, models.OutboxProcessing).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outbox backlog: %w", err)
	}
	return n, nil
}
