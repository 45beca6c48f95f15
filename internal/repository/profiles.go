package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

const profileColumns = `id, email, password_hash, first_name, last_name,
	COALESCE(phone, ''), date_of_birth, COALESCE(ssn_last_4, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(zip_code, ''), status, kyc_status, is_admin, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }, p *models.Profile) error {
	return row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
		&p.Phone, &p.DateOfBirth, &p.SSNLast4,
		&p.Address, &p.City, &p.State,
		&p.ZipCode, &p.Status, &p.KYCStatus, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (q *Queries) CreateProfile(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profiles
		(id, email, password_hash, first_name, last_name, phone, date_of_birth,
		 ssn_last_4, address, city, state, zip_code, status, kyc_status, is_admin,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''),
		 NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''),
		 $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := q.db.QueryRow(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.FirstName, p.LastName, p.Phone, p.DateOfBirth,
		p.SSNLast4, p.Address, p.City, p.State, p.ZipCode,
		p.Status, p.KYCStatus, p.IsAdmin,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if err := scanProfile(q.db.QueryRow(ctx, query, id), p); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (q *Queries) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p := &models.Profile{}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	if err := scanProfile(q.db.QueryRow(ctx, query, email), p); err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

func (q *Queries) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1)`
	rows, err := q.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles by ids: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (q *Queries) ListProfiles(ctx context.Context, status *domain.UserStatus, limit, offset int32) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (q *Queries) UpdateProfileFields(ctx context.Context, arg UpdateProfileFieldsParams) (int64, error) {
	query := `UPDATE profiles SET
		phone = NULLIF($2, ''), address = NULLIF($3, ''), city = NULLIF($4, ''),
		state = NULLIF($5, ''), zip_code = NULLIF($6, ''), updated_at = NOW()
		WHERE id = $1`
	tag, err := q.db.Exec(ctx, query, arg.ID, arg.Phone, arg.Address, arg.City, arg.State, arg.ZipCode)
	if err != nil {
		return 0, fmt.Errorf("update profile fields: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) UpdateProfileStatus(ctx context.Context, id uuid.UUID, from, to domain.UserStatus) (int64, error) {
	query := `UPDATE profiles SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	tag, err := q.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return 0, fmt.Errorf("update profile status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) UpdateProfileKYCStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) (int64, error) {
	query := `UPDATE profiles SET kyc_status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := q.db.Exec(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("update profile kyc status: %w", err)
	}
	return tag.RowsAffected(), nil
}
