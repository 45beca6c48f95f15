package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
)

type Profile struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Phone        string            `json:"phone,omitempty"`
	DateOfBirth  *time.Time        `json:"date_of_birth,omitempty"`
	SSNLast4     string            `json:"ssn_last_4,omitempty"`
	Address      string            `json:"address,omitempty"`
	City         string            `json:"city,omitempty"`
	State        string            `json:"state,omitempty"`
	ZipCode      string            `json:"zip_code,omitempty"`
	Status       domain.UserStatus `json:"status"`
	KYCStatus    domain.KYCStatus  `json:"kyc_status"`
	IsAdmin      bool              `json:"is_admin"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Account struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	AccountNumber string             `json:"account_number"`
	RoutingNumber string             `json:"routing_number"`
	Type          domain.AccountType `json:"account_type"`
	BalanceCents  int64              `json:"balance_cents"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type Transaction struct {
	ID          uuid.UUID                `json:"id"`
	UserID      uuid.UUID                `json:"user_id"`
	AccountID   uuid.UUID                `json:"account_id"`
	Type        domain.TransactionType   `json:"type"`
	Status      domain.TransactionStatus `json:"status"`
	AmountCents int64                    `json:"amount_cents"`
	Description string                   `json:"description,omitempty"`

	// Transfer requests resolve the counterparty at submission time.
	RecipientAccountID *uuid.UUID `json:"recipient_account_id,omitempty"`
	RecipientAccount   string     `json:"recipient_account,omitempty"`

	// Deposits and withdrawals reference an account outside the bank.
	ExternalAccountName   string `json:"external_account_name,omitempty"`
	ExternalAccountNumber string `json:"external_account_number,omitempty"`
	ExternalRoutingNumber string `json:"external_routing_number,omitempty"`

	AdminNotes  string     `json:"admin_notes,omitempty"`
	ProcessedBy *uuid.UUID `json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type KYCDocument struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Type        domain.DocumentType `json:"document_type"`
	Status      domain.KYCStatus    `json:"status"`
	FileName    string              `json:"file_name"`
	StorageKey  string              `json:"-"`
	ContentType string              `json:"content_type"`
	SizeBytes   int64               `json:"size_bytes"`
	Notes       string              `json:"notes,omitempty"`
	ReviewedBy  *uuid.UUID          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time          `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Detail     string     `json:"detail,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Notification is the in-app record shown to the user; delivery to the
// email dispatcher goes through the outbox.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// OutboxMessage is a pending notification publish, written in the same
// transaction as the state change it describes.
type OutboxMessage struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	RoutingKey  string     `json:"routing_key"`
	Payload     []byte     `json:"payload"`
	Status      string     `json:"status"`
	Attempts    int32      `json:"attempts"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Outbox message statuses.
const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxPublished  = "published"
	OutboxFailed     = "failed"
)
