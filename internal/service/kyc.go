package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
	"github.com/Justice00000/nucleus-vault-app/internal/storage"
)

// KYCService handles document uploads and retrieval. Review decisions
// live on ReviewService.
type KYCService struct {
	store   QueryStore
	objects storage.ObjectStore
	audit   *AuditService
	notify  *NotifyService
	logger  *zap.Logger
}

func NewKYCService(store QueryStore, objects storage.ObjectStore, audit *AuditService, notify *NotifyService, logger *zap.Logger) *KYCService {
	return &KYCService{store: store, objects: objects, audit: audit, notify: notify, logger: logger}
}

type SubmitDocumentCmd struct {
	Type        string
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Submit stores a KYC document. Size and file type violations abort
// before any write. The blob is uploaded first; if the database insert
// then fails, the orphaned blob is removed best-effort.
//
// Re-uploads append a new row; the newest row per document type is the
// authoritative one and earlier rows stay for audit.
func (s *KYCService) Submit(ctx context.Context, session domain.Session, cmd SubmitDocumentCmd) (*models.KYCDocument, error) {
	docType, err := domain.ParseDocumentType(cmd.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if cmd.SizeBytes <= 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrValidation)
	}
	if cmd.SizeBytes > domain.MaxDocumentBytes {
		return nil, ErrDocumentTooLarge
	}
	ext, ok := domain.AllowedDocumentMIME(cmd.ContentType)
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	key := storage.DocumentKey(session.UserID, docType.String(), ext)
	limited := io.LimitReader(cmd.Body, domain.MaxDocumentBytes+1)
	if err := s.objects.Upload(ctx, key, cmd.ContentType, limited); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	doc := &models.KYCDocument{
		ID:          uuid.New(),
		UserID:      session.UserID,
		Type:        docType,
		Status:      domain.KYCPending,
		FileName:    strings.TrimSpace(cmd.FileName),
		StorageKey:  key,
		ContentType: cmd.ContentType,
		SizeBytes:   cmd.SizeBytes,
	}

	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		profile, err := q.GetProfileByID(ctx, session.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		if err := q.CreateKYCDocument(ctx, doc); err != nil {
			return err
		}
		// A fresh upload reopens review unless the profile is already
		// verified.
		if profile.KYCStatus != domain.KYCApproved {
			if _, err := q.UpdateProfileKYCStatus(ctx, session.UserID, domain.KYCPending); err != nil {
				return err
			}
		}
		if err := s.audit.Write(ctx, q, "kyc_document", doc.ID, &session.UserID, "document_submitted", docType.String()); err != nil {
			return err
		}
		return s.notify.KYC(ctx, q, profile, domain.KYCPending,
			fmt.Sprintf("We received your %s and will review it shortly.", docType), "")
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned document blob left behind",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return doc, nil
}

// ListForUser returns the caller's documents, newest first.
func (s *KYCService) ListForUser(ctx context.Context, session domain.Session) ([]models.KYCDocument, error) {
	return s.store.Queries().ListKYCDocumentsByUser(ctx, session.UserID)
}

// OpenFile streams a stored document. Customers only open their own
// files; admins may open any.
func (s *KYCService) OpenFile(ctx context.Context, session domain.Session, docID uuid.UUID) (*models.KYCDocument, io.ReadCloser, error) {
	doc, err := s.store.Queries().GetKYCDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	if doc.UserID != session.UserID && !session.IsAdmin {
		return nil, nil, ErrDocumentNotFound
	}
	rc, err := s.objects.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	return doc, rc, nil
}
