package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// TransactionService accepts customer money-movement requests. Every
// request lands pending; balances only move when an administrator
// approves.
type TransactionService struct {
	store  QueryStore
	audit  *AuditService
	notify *NotifyService
}

func NewTransactionService(store QueryStore, audit *AuditService, notify *NotifyService) *TransactionService {
	return &TransactionService{store: store, audit: audit, notify: notify}
}

type SubmitTransactionCmd struct {
	Type             string
	Amount           string
	Description      string
	RecipientAccount string

	// External bank details for deposits and withdrawals.
	ExternalAccountName   string
	ExternalAccountNumber string
	ExternalRoutingNumber string
}

// Submit validates and records a pending transaction request. Withdrawal
// and transfer requests re-check the sender balance under a row lock in
// the same transaction as the insert, so a submission can never pass
// validation against a balance that another request already spent.
func (s *TransactionService) Submit(ctx context.Context, session domain.Session, cmd SubmitTransactionCmd) (*models.Transaction, error) {
	txType, err := domain.ParseTransactionType(cmd.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	amount, err := domain.ParseAmount(strings.TrimSpace(cmd.Amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	switch txType {
	case domain.TypeTransfer:
		if strings.TrimSpace(cmd.RecipientAccount) == "" {
			return nil, fmt.Errorf("%w: recipient_account is required for transfers", ErrValidation)
		}
	case domain.TypeWithdrawal:
		if strings.TrimSpace(cmd.ExternalAccountNumber) == "" {
			return nil, fmt.Errorf("%w: external_account_number is required for withdrawals", ErrValidation)
		}
	}

	tx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      session.UserID,
		Type:        txType,
		Status:      domain.TransactionPending,
		AmountCents: amount.Cents(),
		Description: strings.TrimSpace(cmd.Description),
	}

	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		profile, err := q.GetProfileByID(ctx, session.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		if profile.Status != domain.UserApproved {
			return ErrUserNotApproved
		}

		account, err := q.GetAccountByUserID(ctx, session.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAccountNotFound
			}
			return err
		}
		tx.AccountID = account.ID

		if txType == domain.TypeWithdrawal || txType == domain.TypeTransfer {
			locked, err := q.GetAccountForUpdate(ctx, account.ID)
			if err != nil {
				return err
			}
			if locked.BalanceCents < amount.Cents() {
				return ErrInsufficientFunds
			}
		}

		switch txType {
		case domain.TypeTransfer:
			recipient, err := q.GetAccountByNumber(ctx, strings.TrimSpace(cmd.RecipientAccount))
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrRecipientNotFound
				}
				return err
			}
			if recipient.UserID == session.UserID {
				return ErrSelfTransfer
			}
			tx.RecipientAccountID = &recipient.ID
			tx.RecipientAccount = recipient.AccountNumber
		case domain.TypeWithdrawal, domain.TypeDeposit:
			tx.ExternalAccountName = strings.TrimSpace(cmd.ExternalAccountName)
			tx.ExternalAccountNumber = strings.TrimSpace(cmd.ExternalAccountNumber)
			tx.ExternalRoutingNumber = strings.TrimSpace(cmd.ExternalRoutingNumber)
		}

		if err := q.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		if err := s.audit.Write(ctx, q, "transaction", tx.ID, &session.UserID, "transaction_submitted",
			fmt.Sprintf("%s %s", tx.Type, domain.Amount(tx.AmountCents))); err != nil {
			return err
		}
		return s.notify.Transaction(ctx, q, profile, account.AccountNumber, tx, "")
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListForUser returns the caller's own requests, newest first.
func (s *TransactionService) ListForUser(ctx context.Context, session domain.Session, limit, offset int32) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListTransactionsByUser(ctx, session.UserID, limit, offset)
}

// Get returns a single transaction; customers only see their own.
func (s *TransactionService) Get(ctx context.Context, session domain.Session, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.store.Queries().GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.UserID != session.UserID && !session.IsAdmin {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}
