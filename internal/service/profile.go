package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// ProfileService serves the customer's own profile.
type ProfileService struct {
	store QueryStore
	audit *AuditService
}

func NewProfileService(store QueryStore, audit *AuditService) *ProfileService {
	return &ProfileService{store: store, audit: audit}
}

func (s *ProfileService) Get(ctx context.Context, session domain.Session) (*models.Profile, error) {
	profile, err := s.store.Queries().GetProfileByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return profile, nil
}

type UpdateProfileCmd struct {
	Phone   string
	Address string
	City    string
	State   string
	ZipCode string
}

// Update changes the contact fields a customer may edit. Identity fields
// and statuses are admin-only.
func (s *ProfileService) Update(ctx context.Context, session domain.Session, cmd UpdateProfileCmd) (*models.Profile, error) {
	var profile *models.Profile
	err := s.store.RunInTx(ctx, func(q repository.Querier) error {
		rows, err := q.UpdateProfileFields(ctx, repository.UpdateProfileFieldsParams{
			ID:      session.UserID,
			Phone:   cmd.Phone,
			Address: cmd.Address,
			City:    cmd.City,
			State:   cmd.State,
			ZipCode: cmd.ZipCode,
		})
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "update profile"); err != nil {
			return ErrUserNotFound
		}
		if err := s.audit.Write(ctx, q, "profile", session.UserID, &session.UserID, "profile_update", ""); err != nil {
			return err
		}
		profile, err = q.GetProfileByID(ctx, session.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Notifications(ctx context.Context, session domain.Session, limit, offset int32) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Queries().ListNotificationsByUser(ctx, session.UserID, limit, offset)
}
