package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/notifier"
)

func TestSubmit_DepositCreatesPendingRequest(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)

	tx, err := svc.Submit(context.Background(), f.user, SubmitTransactionCmd{
		Type:                  "deposit",
		Amount:                "250.00",
		Description:           "payroll",
		ExternalAccountName:   "Payroll Inc",
		ExternalAccountNumber: "9988776655",
		ExternalRoutingNumber: "011000015",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionPending, tx.Status)
	assert.Equal(t, int64(25_000), tx.AmountCents)
	assert.Equal(t, f.account.ID, tx.AccountID)
	assert.Equal(t, "Payroll Inc", tx.ExternalAccountName)
	assert.Equal(t, "9988776655", tx.ExternalAccountNumber)
	assert.Equal(t, "011000015", tx.ExternalRoutingNumber)

	// The submission must not move money.
	account, err := f.store.GetAccountForUpdate(context.Background(), f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), account.BalanceCents)

	msgs := f.outboxByRoute(notifier.RouteTransaction)
	require.Len(t, msgs, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "casey@example.com", payload["user_email"])
	assert.Equal(t, "Casey Rivers", payload["user_name"])
	assert.Equal(t, "deposit", payload["transaction_type"])
	assert.Equal(t, "$250.00", payload["amount"])
	assert.Equal(t, "pending", payload["status"])
	assert.Equal(t, "1234567890", payload["account_number"])
	assert.Equal(t, "Payroll Inc (9988776655)", payload["external_account"])
	assert.Equal(t, tx.ID.String(), payload["transaction_id"])

	require.Len(t, f.store.AuditLogs, 1)
	assert.Equal(t, "transaction_submitted", f.store.AuditLogs[0].Action)
}

func TestSubmit_AmountBounds(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)
	ctx := context.Background()

	for _, amount := range []string{"0", "-10", "10000.01", "12.345", "abc"} {
		_, err := svc.Submit(ctx, f.user, SubmitTransactionCmd{Type: "deposit", Amount: amount})
		assert.ErrorIs(t, err, ErrValidation, "amount %q", amount)
	}

	// Nothing was written for any rejected submission.
	assert.Empty(t, f.store.Transactions)
	assert.Empty(t, f.store.Outbox)
}

func TestSubmit_TransferRules(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)
	ctx := context.Background()

	_, err := svc.Submit(ctx, f.user, SubmitTransactionCmd{Type: "transfer", Amount: "10"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Submit(ctx, f.user, SubmitTransactionCmd{
		Type: "transfer", Amount: "10", RecipientAccount: "0000000000",
	})
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = svc.Submit(ctx, f.user, SubmitTransactionCmd{
		Type: "transfer", Amount: "10", RecipientAccount: f.account.AccountNumber,
	})
	assert.ErrorIs(t, err, ErrSelfTransfer)

	recipient := f.seedRecipient(t, "5555555555", 0)
	tx, err := svc.Submit(ctx, f.user, SubmitTransactionCmd{
		Type: "transfer", Amount: "100", RecipientAccount: "5555555555",
	})
	require.NoError(t, err)
	require.NotNil(t, tx.RecipientAccountID)
	assert.Equal(t, recipient.ID, *tx.RecipientAccountID)
	assert.Equal(t, "5555555555", tx.RecipientAccount)
}

func TestSubmit_WithdrawalRequiresExternalAccountNumber(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)

	_, err := svc.Submit(context.Background(), f.user, SubmitTransactionCmd{
		Type: "withdrawal", Amount: "10",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.store.Transactions)
}

func TestSubmit_BalanceCheckedAtSubmission(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)
	ctx := context.Background()

	// Balance is $500; a $600 withdrawal must be rejected outright.
	_, err := svc.Submit(ctx, f.user, SubmitTransactionCmd{
		Type: "withdrawal", Amount: "600", ExternalAccountNumber: "9988776655",
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Empty(t, f.store.Transactions)

	_, err = svc.Submit(ctx, f.user, SubmitTransactionCmd{
		Type: "withdrawal", Amount: "500", ExternalAccountNumber: "9988776655",
	})
	require.NoError(t, err)
}

func TestSubmit_RequiresApprovedUser(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)
	ctx := context.Background()

	profile := f.store.Profiles[f.user.UserID]
	profile.Status = domain.UserPending
	f.store.Profiles[f.user.UserID] = profile

	_, err := svc.Submit(ctx, f.user, SubmitTransactionCmd{Type: "deposit", Amount: "10"})
	assert.ErrorIs(t, err, ErrUserNotApproved)
}

func TestListForUser_OnlyOwnRows(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.store, f.audit, f.notify)
	ctx := context.Background()

	_, err := svc.Submit(ctx, f.user, SubmitTransactionCmd{Type: "deposit", Amount: "10"})
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, f.user, 50, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := svc.ListForUser(ctx, f.admin, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}
