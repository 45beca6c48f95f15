package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/observability"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// ReviewService is the admin console backend: listing queues and deciding
// users, transactions, and KYC documents. Every mutation here runs in a
// single database transaction together with its audit row and outbox
// messages.
type ReviewService struct {
	store  QueryStore
	audit  *AuditService
	notify *NotifyService
}

func NewReviewService(store QueryStore, audit *AuditService, notify *NotifyService) *ReviewService {
	return &ReviewService{store: store, audit: audit, notify: notify}
}

func requireAdmin(session domain.Session) error {
	if !session.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// ListUsers returns profiles for the console, optionally filtered by
// status.
func (s *ReviewService) ListUsers(ctx context.Context, session domain.Session, status string, limit, offset int32) ([]models.Profile, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	var filter *domain.UserStatus
	if status != "" {
		parsed, err := domain.ParseUserStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		filter = &parsed
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.Queries().ListProfiles(ctx, filter, limit, offset)
}

// ListTransactions returns the review queue decorated with submitter
// profiles.
func (s *ReviewService) ListTransactions(ctx context.Context, session domain.Session, status string, limit, offset int32) ([]TransactionWithProfile, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	var filter *domain.TransactionStatus
	if status != "" {
		parsed, err := domain.ParseTransactionStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		filter = &parsed
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.store.Queries()
	txs, err := q.ListTransactions(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	profiles, err := q.GetProfilesByIDs(ctx, transactionUserIDs(txs))
	if err != nil {
		return nil, err
	}
	return DecorateTransactions(txs, profiles), nil
}

// ListKYCDocuments returns the verification queue decorated with
// submitter profiles.
func (s *ReviewService) ListKYCDocuments(ctx context.Context, session domain.Session, status string, limit, offset int32) ([]DocumentWithProfile, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	var filter *domain.KYCStatus
	if status != "" {
		parsed, err := domain.ParseKYCStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		filter = &parsed
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.store.Queries()
	docs, err := q.ListKYCDocuments(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	profiles, err := q.GetProfilesByIDs(ctx, documentUserIDs(docs))
	if err != nil {
		return nil, err
	}
	return DecorateDocuments(docs, profiles), nil
}

// DecideUser moves a profile to approved, declined, or deactivated.
// First approval provisions the customer's account.
func (s *ReviewService) DecideUser(ctx context.Context, session domain.Session, userID uuid.UUID, status, notes string) (*models.Profile, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	next, err := domain.ParseUserStatus(status)
	if err != nil || next == domain.UserPending {
		return nil, fmt.Errorf("%w: status must be approved, declined, or deactivated", ErrValidation)
	}

	var profile *models.Profile
	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		profile, err = q.GetProfileByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		if profile.Status == next {
			return nil
		}
		if !domain.CanTransitionUser(profile.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, profile.Status, next)
		}

		rows, err := q.UpdateProfileStatus(ctx, userID, profile.Status, next)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "update profile status"); err != nil {
			return err
		}

		if next == domain.UserApproved {
			if _, err := q.GetAccountByUserID(ctx, userID); errors.Is(err, pgx.ErrNoRows) {
				if _, err := provisionAccount(ctx, q, userID); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}

		if err := s.audit.Write(ctx, q, "profile", userID, &session.UserID, "user_decision",
			transitionDetail(profile.Status.String(), next.String())); err != nil {
			return err
		}

		subject := fmt.Sprintf("Your account has been %s", next)
		if err := s.notify.Admin(ctx, q, profile, subject,
			fmt.Sprintf("An administrator has %s your account.", next),
			"account_"+next.String(),
			map[string]any{"notes": notes}); err != nil {
			return err
		}

		profile.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.IncrementDecision("user", next.String())
	return profile, nil
}

// DecideTransaction approves, declines, or delays a pending request.
// Approval applies balance effects atomically; insufficient funds fails
// the whole decision and the request stays pending.
func (s *ReviewService) DecideTransaction(ctx context.Context, session domain.Session, txID uuid.UUID, status, notes string) (*models.Transaction, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	next, err := domain.ParseTransactionStatus(status)
	if err != nil || next == domain.TransactionPending {
		return nil, fmt.Errorf("%w: status must be approved, declined, or delayed", ErrValidation)
	}

	var tx *models.Transaction
	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		tx, err = q.GetTransactionForUpdate(ctx, txID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if tx.Status == next {
			return nil
		}
		if err := decideTransaction(ctx, q, s.audit, tx, next, notes, session.UserID); err != nil {
			return err
		}

		profile, err := q.GetProfileByID(ctx, tx.UserID)
		if err != nil {
			return err
		}
		account, err := q.GetAccountByUserID(ctx, tx.UserID)
		if err != nil {
			return err
		}
		if err := s.notify.Transaction(ctx, q, profile, account.AccountNumber, tx, notes); err != nil {
			return err
		}
		return s.notify.Admin(ctx, q, profile,
			fmt.Sprintf("Transaction %s", next),
			fmt.Sprintf("Your %s request for %s has been %s.", tx.Type, domain.Amount(tx.AmountCents), next),
			"transaction_"+next.String(),
			map[string]any{"transaction_id": tx.ID.String(), "notes": notes})
	})
	if err != nil {
		return nil, err
	}
	observability.IncrementDecision("transaction", next.String())
	return tx, nil
}

// DecideKYCDocument approves or rejects a single document. Deciding a
// government ID drives the profile-level verification status.
func (s *ReviewService) DecideKYCDocument(ctx context.Context, session domain.Session, docID uuid.UUID, status, notes string) (*models.KYCDocument, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	next, err := domain.ParseKYCStatus(status)
	if err != nil || next == domain.KYCPending {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidation)
	}

	var doc *models.KYCDocument
	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		doc, err = q.GetKYCDocumentForUpdate(ctx, docID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrDocumentNotFound
			}
			return err
		}
		if doc.Status == next {
			return nil
		}
		if !domain.CanTransitionKYC(doc.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, doc.Status, next)
		}
		if err := s.applyDocumentDecision(ctx, q, session, doc, next, notes); err != nil {
			return err
		}

		profile, err := q.GetProfileByID(ctx, doc.UserID)
		if err != nil {
			return err
		}
		return s.notifyDocumentDecision(ctx, q, profile, doc, notes)
	})
	if err != nil {
		return nil, err
	}
	observability.IncrementDecision("kyc_document", next.String())
	return doc, nil
}

// DecideAllKYCDocuments applies one decision to every pending document of
// a user in a single transaction; any failure rolls back the whole batch.
func (s *ReviewService) DecideAllKYCDocuments(ctx context.Context, session domain.Session, userID uuid.UUID, status, notes string) ([]models.KYCDocument, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	next, err := domain.ParseKYCStatus(status)
	if err != nil || next == domain.KYCPending {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidation)
	}

	var decided []models.KYCDocument
	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		profile, err := q.GetProfileByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		docs, err := q.ListKYCDocumentsByUser(ctx, userID)
		if err != nil {
			return err
		}
		decided = decided[:0]
		for i := range docs {
			doc := docs[i]
			if doc.Status != domain.KYCPending {
				continue
			}
			if err := s.applyDocumentDecision(ctx, q, session, &doc, next, notes); err != nil {
				return err
			}
			decided = append(decided, doc)
		}
		if len(decided) == 0 {
			return nil
		}
		return s.notifyDocumentDecision(ctx, q, profile, &decided[0], notes)
	})
	if err != nil {
		return nil, err
	}
	for range decided {
		observability.IncrementDecision("kyc_document", next.String())
	}
	return decided, nil
}

// ResetKYCDocuments returns every decided document of a user, and the
// profile verification status, to pending in one transaction.
func (s *ReviewService) ResetKYCDocuments(ctx context.Context, session domain.Session, userID uuid.UUID) ([]models.KYCDocument, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var reset []models.KYCDocument
	err := s.store.RunInTx(ctx, func(q repository.Querier) error {
		profile, err := q.GetProfileByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		docs, err := q.ListKYCDocumentsByUser(ctx, userID)
		if err != nil {
			return err
		}
		reset = reset[:0]
		for i := range docs {
			doc := docs[i]
			if doc.Status == domain.KYCPending {
				continue
			}
			rows, err := q.UpdateKYCDocumentDecision(ctx, repository.UpdateKYCDocumentDecisionParams{
				ID:         doc.ID,
				FromStatus: doc.Status,
				Status:     domain.KYCPending,
				ReviewedBy: nil,
			})
			if err != nil {
				return err
			}
			if err := requireExactlyOne(rows, "reset kyc document"); err != nil {
				return err
			}
			if err := s.audit.Write(ctx, q, "kyc_document", doc.ID, &session.UserID, "kyc_reset",
				transitionDetail(doc.Status.String(), domain.KYCPending.String())); err != nil {
				return err
			}
			doc.Status = domain.KYCPending
			doc.Notes = ""
			doc.ReviewedBy = nil
			doc.ReviewedAt = nil
			reset = append(reset, doc)
		}
		if len(reset) == 0 {
			return nil
		}
		if _, err := q.UpdateProfileKYCStatus(ctx, userID, domain.KYCPending); err != nil {
			return err
		}
		return s.notify.KYC(ctx, q, profile, domain.KYCPending,
			"Your identity verification has been reset and will be reviewed again.", "")
	})
	if err != nil {
		return nil, err
	}
	return reset, nil
}

// applyDocumentDecision updates one document and, for government IDs,
// the profile verification status.
func (s *ReviewService) applyDocumentDecision(ctx context.Context, q repository.Querier, session domain.Session, doc *models.KYCDocument, next domain.KYCStatus, notes string) error {
	rows, err := q.UpdateKYCDocumentDecision(ctx, repository.UpdateKYCDocumentDecisionParams{
		ID:         doc.ID,
		FromStatus: doc.Status,
		Status:     next,
		Notes:      notes,
		ReviewedBy: &session.UserID,
	})
	if err != nil {
		return err
	}
	if err := requireExactlyOne(rows, "update kyc document decision"); err != nil {
		return err
	}
	if err := s.audit.Write(ctx, q, "kyc_document", doc.ID, &session.UserID, "kyc_decision",
		transitionDetail(doc.Status.String(), next.String())); err != nil {
		return err
	}
	if doc.Type.GovernmentID() {
		if _, err := q.UpdateProfileKYCStatus(ctx, doc.UserID, next); err != nil {
			return err
		}
	}
	doc.Status = next
	doc.Notes = notes
	doc.ReviewedBy = &session.UserID
	return nil
}

func (s *ReviewService) notifyDocumentDecision(ctx context.Context, q repository.Querier, profile *models.Profile, doc *models.KYCDocument, notes string) error {
	var message, reason string
	switch doc.Status {
	case domain.KYCApproved:
		message = fmt.Sprintf("Your %s has been verified.", doc.Type)
	case domain.KYCRejected:
		message = fmt.Sprintf("Your %s could not be verified.", doc.Type)
		reason = notes
	}
	if err := s.notify.KYC(ctx, q, profile, doc.Status, message, reason); err != nil {
		return err
	}
	return s.notify.Admin(ctx, q, profile,
		fmt.Sprintf("Identity document %s", doc.Status),
		message,
		"kyc_"+doc.Status.String(),
		map[string]any{"document_id": doc.ID.String(), "document_type": doc.Type.String()})
}

func transactionUserIDs(txs []models.Transaction) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(txs))
	ids := make([]uuid.UUID, 0, len(txs))
	for _, t := range txs {
		if _, ok := seen[t.UserID]; ok {
			continue
		}
		seen[t.UserID] = struct{}{}
		ids = append(ids, t.UserID)
	}
	return ids
}

func documentUserIDs(docs []models.KYCDocument) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(docs))
	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.UserID]; ok {
			continue
		}
		seen[d.UserID] = struct{}{}
		ids = append(ids, d.UserID)
	}
	return ids
}
