package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

const kycColumns = `id, user_id, document_type, status, file_name, storage_key,
	content_type, size_bytes, COALESCE(notes, ''), reviewed_by, reviewed_at, created_at`

func scanKYCDocument(row interface{ Scan(...any) error }, d *models.KYCDocument) error {
	return row.Scan(
		&d.ID, &d.UserID, &d.Type, &d.Status, &d.FileName, &d.StorageKey,
		&d.ContentType, &d.SizeBytes, &d.Notes, &d.ReviewedBy, &d.ReviewedAt, &d.CreatedAt,
	)
}

func (q *Queries) CreateKYCDocument(ctx context.Context, d *models.KYCDocument) error {
	query := `INSERT INTO kyc_documents
		(id, user_id, document_type, status, file_name, storage_key, content_type,
		 size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at`
	err := q.db.QueryRow(ctx, query,
		d.ID, d.UserID, d.Type, d.Status, d.FileName, d.StorageKey, d.ContentType, d.SizeBytes,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create kyc document: %w", err)
	}
	return nil
}

func (q *Queries) GetKYCDocument(ctx context.Context, id uuid.UUID) (*models.KYCDocument, error) {
	d := &models.KYCDocument{}
	query := `SELECT ` + kycColumns + ` FROM kyc_documents WHERE id = $1`
	if err := scanKYCDocument(q.db.QueryRow(ctx, query, id), d); err != nil {
		return nil, fmt.Errorf("get kyc document: %w", err)
	}
	return d, nil
}

func (q *Queries) GetKYCDocumentForUpdate(ctx context.Context, id uuid.UUID) (*models.KYCDocument, error) {
	d := &models.KYCDocument{}
	query := `SELECT ` + kycColumns + ` FROM kyc_documents WHERE id = $1 FOR UPDATE`
	if err := scanKYCDocument(q.db.QueryRow(ctx, query, id), d); err != nil {
		return nil, fmt.Errorf("lock kyc document: %w", err)
	}
	return d, nil
}

func (q *Queries) ListKYCDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]models.KYCDocument, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_documents
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list kyc documents by user: %w", err)
	}
	defer rows.Close()

	var docs []models.KYCDocument
	for rows.Next() {
		var d models.KYCDocument
		if err := scanKYCDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("scan kyc document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (q *Queries) ListKYCDocuments(ctx context.Context, status *domain.KYCStatus, limit, offset int32) ([]models.KYCDocument, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_documents
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list kyc documents: %w", err)
	}
	defer rows.Close()

	var docs []models.KYCDocument
	for rows.Next() {
		var d models.KYCDocument
		if err := scanKYCDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("scan kyc document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateKYCDocumentDecision applies a review decision guarded by the
// current status. A nil ReviewedBy clears the review fields, used when a
// document is reset back to pending.
func (q *Queries) UpdateKYCDocumentDecision(ctx context.Context, arg UpdateKYCDocumentDecisionParams) (int64, error) {
	query := `UPDATE kyc_documents SET
		status = $1, notes = NULLIF($2, ''), reviewed_by = $3,
		reviewed_at = CASE WHEN $3::uuid IS NULL THEN NULL ELSE NOW() END
		WHERE id = $4 AND status = $5`
	tag, err := q.db.Exec(ctx, query, arg.Status, arg.Notes, arg.ReviewedBy, arg.ID, arg.FromStatus)
	if err != nil {
		return 0, fmt.Errorf("update kyc document decision: %w", err)
	}
	return tag.RowsAffected(), nil
}
