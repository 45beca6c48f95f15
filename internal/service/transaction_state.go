package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// decideTransaction moves a locked transaction to its next status and, on
// approval, applies the balance effects in the same transaction. The
// status update is guarded by the previously read status, so a concurrent
// decision makes this one fail instead of double-applying funds.
func decideTransaction(ctx context.Context, q repository.Querier, audit *AuditService, tx *models.Transaction, next domain.TransactionStatus, notes string, adminID uuid.UUID) error {
	if !domain.CanTransitionTransaction(tx.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, tx.Status, next)
	}

	if next == domain.TransactionApproved {
		if err := applyBalanceEffects(ctx, q, tx); err != nil {
			return err
		}
	}

	rows, err := q.UpdateTransactionDecision(ctx, repository.UpdateTransactionDecisionParams{
		ID:          tx.ID,
		FromStatus:  tx.Status,
		Status:      next,
		AdminNotes:  notes,
		ProcessedBy: adminID,
	})
	if err != nil {
		return err
	}
	if err := requireExactlyOne(rows, "update transaction decision"); err != nil {
		return err
	}

	if err := audit.Write(ctx, q, "transaction", tx.ID, &adminID, "transaction_decision",
		transitionDetail(tx.Status.String(), next.String())); err != nil {
		return err
	}

	tx.Status = next
	tx.AdminNotes = notes
	tx.ProcessedBy = &adminID
	return nil
}

// applyBalanceEffects moves money for an approved request. Deposits
// credit the account; withdrawals debit with a non-negative guard;
// transfers debit the sender and credit the recipient resolved at
// submission. Accounts are locked in ID order to avoid deadlocks between
// concurrent transfer approvals.
func applyBalanceEffects(ctx context.Context, q repository.Querier, tx *models.Transaction) error {
	switch tx.Type {
	case domain.TypeDeposit:
		rows, err := q.CreditAccount(ctx, tx.AccountID, tx.AmountCents)
		if err != nil {
			return err
		}
		return requireExactlyOne(rows, "credit account")

	case domain.TypeWithdrawal:
		if _, err := q.GetAccountForUpdate(ctx, tx.AccountID); err != nil {
			return err
		}
		rows, err := q.DebitAccount(ctx, tx.AccountID, tx.AmountCents)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientFunds
		}
		return nil

	case domain.TypeTransfer:
		if tx.RecipientAccountID == nil {
			return fmt.Errorf("transfer %s has no recipient account", tx.ID)
		}
		first, second := tx.AccountID, *tx.RecipientAccountID
		if first.String() > second.String() {
			first, second = second, first
		}
		if _, err := q.GetAccountForUpdate(ctx, first); err != nil {
			return err
		}
		if _, err := q.GetAccountForUpdate(ctx, second); err != nil {
			return err
		}
		rows, err := q.DebitAccount(ctx, tx.AccountID, tx.AmountCents)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientFunds
		}
		rows, err = q.CreditAccount(ctx, *tx.RecipientAccountID, tx.AmountCents)
		if err != nil {
			return err
		}
		return requireExactlyOne(rows, "credit recipient account")

	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
}
