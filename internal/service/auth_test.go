package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/testutil/memstore"
)

func TestSignupAndLogin(t *testing.T) {
	store := memstore.New()
	svc := NewAuthService(store, NewAuditService())
	ctx := context.Background()

	profile, err := svc.Signup(ctx, SignupCmd{
		Email:     "Jordan@Example.com",
		Password:  "correct-horse",
		FirstName: "Jordan",
		LastName:  "Wells",
		SSNLast4:  "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", profile.Email)
	assert.Equal(t, domain.UserPending, profile.Status)
	assert.Equal(t, domain.KYCPending, profile.KYCStatus)
	assert.False(t, profile.IsAdmin)
	assert.NotEqual(t, "correct-horse", profile.PasswordHash)

	got, err := svc.Login(ctx, "jordan@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)

	_, err = svc.Login(ctx, "jordan@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignup_Validation(t *testing.T) {
	store := memstore.New()
	svc := NewAuthService(store, NewAuditService())
	ctx := context.Background()

	cases := []SignupCmd{
		{Email: "", Password: "longenough", FirstName: "A", LastName: "B"},
		{Email: "not-an-email", Password: "longenough", FirstName: "A", LastName: "B"},
		{Email: "a@b.com", Password: "short", FirstName: "A", LastName: "B"},
		{Email: "a@b.com", Password: "longenough", FirstName: "", LastName: "B"},
		{Email: "a@b.com", Password: "longenough", FirstName: "A", LastName: "B", SSNLast4: "12345"},
	}
	for _, cmd := range cases {
		_, err := svc.Signup(ctx, cmd)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, store.Profiles)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	store := memstore.New()
	svc := NewAuthService(store, NewAuditService())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupCmd{
		Email: "dupe@example.com", Password: "longenough", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupCmd{
		Email: "DUPE@example.com", Password: "longenough", FirstName: "C", LastName: "D",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.Profiles, 1)
}
