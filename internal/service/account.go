package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// AccountService serves the customer's own account view.
type AccountService struct {
	store QueryStore
}

func NewAccountService(store QueryStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) GetForUser(ctx context.Context, session domain.Session) (*models.Account, error) {
	account, err := s.store.Queries().GetAccountByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// provisionAccount opens the checking account granted on user approval:
// generated 10-digit number, shared routing number, zero balance.
func provisionAccount(ctx context.Context, q repository.Querier, userID uuid.UUID) (*models.Account, error) {
	number, err := uniqueAccountNumber(ctx, q)
	if err != nil {
		return nil, err
	}
	account := &models.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: number,
		RoutingNumber: domain.RoutingNumber,
		Type:          domain.AccountChecking,
		BalanceCents:  0,
		IsActive:      true,
	}
	if err := q.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func uniqueAccountNumber(ctx context.Context, q repository.Querier) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		number, err := generateAccountNumber()
		if err != nil {
			return "", err
		}
		_, err = q.GetAccountByNumber(ctx, number)
		if errors.Is(err, pgx.ErrNoRows) {
			return number, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique account number")
}

// generateAccountNumber returns a random 10-digit number with a non-zero
// leading digit.
func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return fmt.Sprintf("%010d", n.Int64()+1_000_000_000), nil
}
