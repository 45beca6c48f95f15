package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

// Querier is the data access contract implemented by Queries and by the
// in-memory fakes used in service tests.
type Querier interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
	ListProfiles(ctx context.Context, status *domain.UserStatus, limit, offset int32) ([]models.Profile, error)
	UpdateProfileFields(ctx context.Context, arg UpdateProfileFieldsParams) (int64, error)
	UpdateProfileStatus(ctx context.Context, id uuid.UUID, from, to domain.UserStatus) (int64, error)
	UpdateProfileKYCStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) (int64, error)

	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*models.Account, error)
	GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)
	CreditAccount(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error)
	DebitAccount(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error)

	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]models.Transaction, error)
	ListTransactions(ctx context.Context, status *domain.TransactionStatus, limit, offset int32) ([]models.Transaction, error)
	UpdateTransactionDecision(ctx context.Context, arg UpdateTransactionDecisionParams) (int64, error)

	CreateKYCDocument(ctx context.Context, d *models.KYCDocument) error
	GetKYCDocument(ctx context.Context, id uuid.UUID) (*models.KYCDocument, error)
	GetKYCDocumentForUpdate(ctx context.Context, id uuid.UUID) (*models.KYCDocument, error)
	ListKYCDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]models.KYCDocument, error)
	ListKYCDocuments(ctx context.Context, status *domain.KYCStatus, limit, offset int32) ([]models.KYCDocument, error)
	UpdateKYCDocumentDecision(ctx context.Context, arg UpdateKYCDocumentDecisionParams) (int64, error)

	InsertAuditLog(ctx context.Context, l *models.AuditLog) error

	InsertNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]models.Notification, error)

	EnqueueOutbox(ctx context.Context, m *models.OutboxMessage) error
	ClaimOutboxBatch(ctx context.Context, limit int32, staleBefore time.Time) ([]models.OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, id uuid.UUID) (int64, error)
	MarkOutboxFailed(ctx context.Context, id uuid.UUID, nextRetryAt time.Time) (int64, error)
	CountOutboxBacklog(ctx context.Context) (int64, error)
}

var _ Querier = (*Queries)(nil)

type UpdateProfileFieldsParams struct {
	ID      uuid.UUID
	Phone   string
	Address string
	City    string
	State   string
	ZipCode string
}

type UpdateTransactionDecisionParams struct {
	ID          uuid.UUID
	FromStatus  domain.TransactionStatus
	Status      domain.TransactionStatus
	AdminNotes  string
	ProcessedBy uuid.UUID
}

type UpdateKYCDocumentDecisionParams struct {
	ID         uuid.UUID
	FromStatus domain.KYCStatus
	Status     domain.KYCStatus
	Notes      string
	// ReviewedBy is nil when a document is reset back to pending.
	ReviewedBy *uuid.UUID
}
