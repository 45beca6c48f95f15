package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/testutil/memstore"
)

type fixture struct {
	store   *memstore.MemStore
	audit   *AuditService
	notify  *NotifyService
	admin   domain.Session
	user    domain.Session
	account *models.Account
}

// newFixture seeds an approved customer with a funded account and an
// admin profile.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, store.CreateProfile(ctx, &models.Profile{
		ID:        userID,
		Email:     "casey@example.com",
		FirstName: "Casey",
		LastName:  "Rivers",
		Status:    domain.UserApproved,
		KYCStatus: domain.KYCPending,
	}))

	account := &models.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: "1234567890",
		RoutingNumber: domain.RoutingNumber,
		Type:          domain.AccountChecking,
		BalanceCents:  50_000, // $500.00
		IsActive:      true,
	}
	require.NoError(t, store.CreateAccount(ctx, account))

	adminID := uuid.New()
	require.NoError(t, store.CreateProfile(ctx, &models.Profile{
		ID:        adminID,
		Email:     "admin@example.com",
		FirstName: "Avery",
		LastName:  "Banks",
		Status:    domain.UserApproved,
		KYCStatus: domain.KYCApproved,
		IsAdmin:   true,
	}))

	return &fixture{
		store:   store,
		audit:   NewAuditService(),
		notify:  NewNotifyService(),
		admin:   domain.Session{UserID: adminID, Email: "admin@example.com", IsAdmin: true},
		user:    domain.Session{UserID: userID, Email: "casey@example.com"},
		account: account,
	}
}

// seedRecipient adds a second approved customer with an account.
func (f *fixture) seedRecipient(t *testing.T, number string, balanceCents int64) *models.Account {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, f.store.CreateProfile(ctx, &models.Profile{
		ID:        userID,
		Email:     "recipient@example.com",
		FirstName: "Robin",
		LastName:  "Vale",
		Status:    domain.UserApproved,
		KYCStatus: domain.KYCApproved,
	}))
	account := &models.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: number,
		RoutingNumber: domain.RoutingNumber,
		Type:          domain.AccountChecking,
		BalanceCents:  balanceCents,
		IsActive:      true,
	}
	require.NoError(t, f.store.CreateAccount(ctx, account))
	return account
}

func (f *fixture) outboxByRoute(route string) []models.OutboxMessage {
	var out []models.OutboxMessage
	for _, msg := range f.store.Outbox {
		if msg.RoutingKey == route {
			out = append(out, msg)
		}
	}
	return out
}
