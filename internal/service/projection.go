package service

import (
	"github.com/google/uuid"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
)

// TransactionWithProfile is a review-queue row joined with the submitting
// customer's profile. Profile is nil when the profile row is missing.
type TransactionWithProfile struct {
	models.Transaction
	Profile *models.Profile `json:"profile,omitempty"`
}

// DocumentWithProfile is a verification-queue row joined with the
// submitting customer's profile.
type DocumentWithProfile struct {
	models.KYCDocument
	Profile *models.Profile `json:"profile,omitempty"`
}

// DecorateTransactions merges fetched transactions with a batch of
// profiles by user id, preserving the input order. A missing profile
// never fails the projection.
func DecorateTransactions(txs []models.Transaction, profiles []models.Profile) []TransactionWithProfile {
	byID := profilesByID(profiles)
	out := make([]TransactionWithProfile, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionWithProfile{Transaction: t, Profile: byID[t.UserID]})
	}
	return out
}

// DecorateDocuments merges fetched documents with a batch of profiles by
// user id, preserving the input order.
func DecorateDocuments(docs []models.KYCDocument, profiles []models.Profile) []DocumentWithProfile {
	byID := profilesByID(profiles)
	out := make([]DocumentWithProfile, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentWithProfile{KYCDocument: d, Profile: byID[d.UserID]})
	}
	return out
}

func profilesByID(profiles []models.Profile) map[uuid.UUID]*models.Profile {
	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	return byID
}
