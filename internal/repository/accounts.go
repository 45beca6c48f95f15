package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

const accountColumns = `id, user_id, account_number, routing_number, account_type,
	balance_cents, is_active, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }, a *models.Account) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.RoutingNumber, &a.Type,
		&a.BalanceCents, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (q *Queries) CreateAccount(ctx context.Context, a *models.Account) error {
	query := `INSERT INTO accounts
		(id, user_id, account_number, routing_number, account_type, balance_cents,
		 is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := q.db.QueryRow(ctx, query,
		a.ID, a.UserID, a.AccountNumber, a.RoutingNumber, a.Type, a.BalanceCents, a.IsActive,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (q *Queries) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at LIMIT 1`
	if err := scanAccount(q.db.QueryRow(ctx, query, userID), a); err != nil {
		return nil, fmt.Errorf("get account by user: %w", err)
	}
	return a, nil
}

func (q *Queries) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	if err := scanAccount(q.db.QueryRow(ctx, query, number), a); err != nil {
		return nil, fmt.Errorf("get account by number: %w", err)
	}
	return a, nil
}

func (q *Queries) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	if err := scanAccount(q.db.QueryRow(ctx, query, id), a); err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	return a, nil
}

func (q *Queries) CreditAccount(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error) {
	query := `UPDATE accounts SET balance_cents = balance_cents + $1, updated_at = NOW() WHERE id = $2`
	tag, err := q.db.Exec(ctx, query, amountCents, id)
	if err != nil {
		return 0, fmt.Errorf("credit account: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DebitAccount subtracts from the balance only when funds cover the full
// amount; zero rows affected means insufficient funds.
func (q *Queries) DebitAccount(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error) {
	query := `UPDATE accounts SET balance_cents = balance_cents - $1, updated_at = NOW()
		WHERE id = $2 AND balance_cents >= $1`
	tag, err := q.db.Exec(ctx, query, amountCents, id)
	if err != nil {
		return 0, fmt.Errorf("debit account: %w", err)
	}
	return tag.RowsAffected(), nil
}
