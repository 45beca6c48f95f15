package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// AuditService writes immutable audit trail entries.
type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Write stores a single immutable audit record inside the caller's
// transaction.
func (s *AuditService) Write(ctx context.Context, q repository.Querier, entityType string, entityID uuid.UUID, actorID *uuid.UUID, action, detail string) error {
	log := &models.AuditLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := q.InsertAuditLog(ctx, log); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func transitionDetail(from, to string) string {
	return fmt.Sprintf("%s -> %s", from, to)
}
