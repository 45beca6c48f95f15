package service

import (
	"context"

	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// QueryStore defines the minimal data access contract required by services.
type QueryStore interface {
	Queries() repository.Querier
	RunInTx(ctx context.Context, fn func(q repository.Querier) error) error
}
