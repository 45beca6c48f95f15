package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// AuthService owns signup and credential verification. Tokens are minted
// at the handler layer.
type AuthService struct {
	store QueryStore
	audit *AuditService
}

func NewAuthService(store QueryStore, audit *AuditService) *AuthService {
	return &AuthService{store: store, audit: audit}
}

type SignupCmd struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth *time.Time
	SSNLast4    string
	Address     string
	City        string
	State       string
	ZipCode     string
}

func (c *SignupCmd) validate() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(c.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if c.SSNLast4 != "" && len(c.SSNLast4) != 4 {
		return fmt.Errorf("%w: ssn_last_4 must be exactly four digits", ErrValidation)
	}
	return nil
}

// Signup registers a new customer. The profile starts pending and stays
// locked out of money movement until an administrator approves it.
func (s *AuthService) Signup(ctx context.Context, cmd SignupCmd) (*models.Profile, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        cmd.Email,
		PasswordHash: string(hash),
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Phone:        cmd.Phone,
		DateOfBirth:  cmd.DateOfBirth,
		SSNLast4:     cmd.SSNLast4,
		Address:      cmd.Address,
		City:         cmd.City,
		State:        cmd.State,
		ZipCode:      cmd.ZipCode,
		Status:       domain.UserPending,
		KYCStatus:    domain.KYCPending,
	}

	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetProfileByEmail(ctx, cmd.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check email: %w", err)
		}
		if err := q.CreateProfile(ctx, profile); err != nil {
			return err
		}
		return s.audit.Write(ctx, q, "profile", profile.ID, &profile.ID, "signup", "")
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Login verifies credentials and returns the profile for token minting.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	profile, err := s.store.Queries().GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}
