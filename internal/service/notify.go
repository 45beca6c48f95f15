package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/notifier"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// NotifyService records notification intent. Each call writes an outbox
// row for the email dispatcher and an in-app notification row, inside the
// caller's transaction; nothing is sent inline.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

// transactionPayload is the message body consumed by the transaction
// email template.
type transactionPayload struct {
	UserEmail       string `json:"user_email"`
	UserName        string `json:"user_name"`
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	Description     string `json:"description,omitempty"`
	AccountNumber   string `json:"account_number,omitempty"`
	ExternalAccount string `json:"external_account,omitempty"`
	TransactionID   string `json:"transaction_id"`
}

// kycPayload is the message body consumed by the verification email
// template.
type kycPayload struct {
	UserEmail       string `json:"user_email"`
	UserName        string `json:"user_name"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// adminPayload is the message body for administrative action emails.
type adminPayload struct {
	UserEmail  string         `json:"user_email"`
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	ActionType string         `json:"action_type"`
	Details    map[string]any `json:"details,omitempty"`
}

// Transaction enqueues the money-movement message. accountNumber is the
// submitter's own account; when the request has no description the admin
// notes carry the decision context instead.
func (s *NotifyService) Transaction(ctx context.Context, q repository.Querier, profile *models.Profile, accountNumber string, tx *models.Transaction, notes string) error {
	description := tx.Description
	if description == "" {
		description = notes
	}
	payload := transactionPayload{
		UserEmail:       profile.Email,
		UserName:        profile.FullName(),
		TransactionType: tx.Type.String(),
		Amount:          domain.Amount(tx.AmountCents).String(),
		Status:          tx.Status.String(),
		Description:     description,
		AccountNumber:   accountNumber,
		ExternalAccount: externalAccountDetail(tx),
		TransactionID:   tx.ID.String(),
	}
	title := fmt.Sprintf("%s %s", titleCase(tx.Type.String()), tx.Status)
	message := fmt.Sprintf("Your %s request for %s is %s.", tx.Type, domain.Amount(tx.AmountCents), tx.Status)
	return s.enqueue(ctx, q, profile.ID, notifier.RouteTransaction, payload, title, message, "transaction")
}

func (s *NotifyService) KYC(ctx context.Context, q repository.Querier, profile *models.Profile, status domain.KYCStatus, message, rejectionReason string) error {
	payload := kycPayload{
		UserEmail:       profile.Email,
		UserName:        profile.FullName(),
		Status:          status.String(),
		Message:         message,
		RejectionReason: rejectionReason,
	}
	title := "Identity verification " + status.String()
	return s.enqueue(ctx, q, profile.ID, notifier.RouteKYC, payload, title, message, "kyc")
}

func (s *NotifyService) Admin(ctx context.Context, q repository.Querier, profile *models.Profile, subject, message, actionType string, details map[string]any) error {
	payload := adminPayload{
		UserEmail:  profile.Email,
		Subject:    subject,
		Message:    message,
		ActionType: actionType,
		Details:    details,
	}
	return s.enqueue(ctx, q, profile.ID, notifier.RouteAdmin, payload, subject, message, "admin")
}

func (s *NotifyService) enqueue(ctx context.Context, q repository.Querier, userID uuid.UUID, routingKey string, payload any, title, message, kind string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", routingKey, err)
	}
	if err := q.EnqueueOutbox(ctx, &models.OutboxMessage{
		ID:         uuid.New(),
		UserID:     userID,
		RoutingKey: routingKey,
		Payload:    body,
	}); err != nil {
		return err
	}
	if err := q.InsertNotification(ctx, &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}); err != nil {
		return err
	}
	return nil
}

// externalAccountDetail renders the counterparty bank details as
// "name (number)", or just the number when no name was given.
func externalAccountDetail(tx *models.Transaction) string {
	if tx.ExternalAccountNumber == "" {
		return ""
	}
	if tx.ExternalAccountName == "" {
		return tx.ExternalAccountNumber
	}
	return fmt.Sprintf("%s (%s)", tx.ExternalAccountName, tx.ExternalAccountNumber)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
