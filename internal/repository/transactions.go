package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

const transactionColumns = `id, user_id, account_id, type, status, amount_cents,
	COALESCE(description, ''), recipient_account_id, COALESCE(recipient_account, ''),
	COALESCE(external_account_name, ''), COALESCE(external_account_number, ''),
	COALESCE(external_routing_number, ''), COALESCE(admin_notes, ''), processed_by,
	processed_at, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }, t *models.Transaction) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Status, &t.AmountCents,
		&t.Description, &t.RecipientAccountID, &t.RecipientAccount,
		&t.ExternalAccountName, &t.ExternalAccountNumber,
		&t.ExternalRoutingNumber, &t.AdminNotes, &t.ProcessedBy,
		&t.ProcessedAt, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (q *Queries) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	query := `INSERT INTO transactions
		(id, user_id, account_id, type, status, amount_cents, description,
		 recipient_account_id, recipient_account, external_account_name,
		 external_account_number, external_routing_number,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''),
		 NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NOW(), NOW())
		RETURNING created_at, updated_at`
	err := q.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.AccountID, t.Type, t.Status, t.AmountCents, t.Description,
		t.RecipientAccountID, t.RecipientAccount, t.ExternalAccountName,
		t.ExternalAccountNumber, t.ExternalRoutingNumber,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (q *Queries) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if err := scanTransaction(q.db.QueryRow(ctx, query, id), t); err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (q *Queries) GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	if err := scanTransaction(q.db.QueryRow(ctx, query, id), t); err != nil {
		return nil, fmt.Errorf("lock transaction: %w", err)
	}
	return t, nil
}

func (q *Queries) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions by user: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (q *Queries) ListTransactions(ctx context.Context, status *domain.TransactionStatus, limit, offset int32) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// UpdateTransactionDecision applies an admin decision guarded by the
// current status; zero rows affected means the row moved underneath us.
func (q *Queries) UpdateTransactionDecision(ctx context.Context, arg UpdateTransactionDecisionParams) (int64, error) {
	query := `UPDATE transactions SET
		status = $1, admin_notes = NULLIF($2, ''), processed_by = $3,
		processed_at = NOW(), updated_at = NOW()
		WHERE id = $4 AND status = $5`
	tag, err := q.db.Exec(ctx, query, arg.Status, arg.AdminNotes, arg.ProcessedBy, arg.ID, arg.FromStatus)
	if err != nil {
		return 0, fmt.Errorf("update transaction decision: %w", err)
	}
	return tag.RowsAffected(), nil
}
