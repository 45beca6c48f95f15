package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/notifier"
	"github.com/Justice00000/nucleus-vault-app/internal/storage"
)

func kycFixture(t *testing.T) (*fixture, *KYCService, *ReviewService) {
	t.Helper()
	f := newFixture(t)
	objects, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	return f,
		NewKYCService(f.store, objects, f.audit, f.notify, zap.NewNop()),
		NewReviewService(f.store, f.audit, f.notify)
}

func TestSubmitDocument_SizeAndTypeGating(t *testing.T) {
	f, svc, _ := kycFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "passport", FileName: "p.pdf", ContentType: "application/pdf",
		SizeBytes: domain.MaxDocumentBytes + 1, Body: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	_, err = svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "passport", FileName: "p.gif", ContentType: "image/gif",
		SizeBytes: 10, Body: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "id_card", FileName: "p.pdf", ContentType: "application/pdf",
		SizeBytes: 10, Body: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	// A rejected upload leaves no document row and no notification.
	assert.Empty(t, f.store.Documents)
	assert.Empty(t, f.store.Outbox)
}

func TestSubmitDocument_StoresBlobAndRow(t *testing.T) {
	f, svc, _ := kycFixture(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "drivers_license", FileName: "license.jpg", ContentType: "image/jpeg",
		SizeBytes: 9, Body: strings.NewReader("jpegbytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, doc.Status)
	assert.Contains(t, doc.StorageKey, f.user.UserID.String()+"/drivers_license_")
	assert.True(t, strings.HasSuffix(doc.StorageKey, ".jpg"))

	stored, rc, err := svc.OpenFile(ctx, f.user, doc.ID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "license.jpg", stored.FileName)

	msgs := f.outboxByRoute(notifier.RouteKYC)
	require.Len(t, msgs, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "pending", payload["status"])
	assert.Equal(t, "Casey Rivers", payload["user_name"])
}

func TestOpenFile_OwnershipEnforced(t *testing.T) {
	f, svc, _ := kycFixture(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "passport", FileName: "p.png", ContentType: "image/png",
		SizeBytes: 4, Body: strings.NewReader("pngs"),
	})
	require.NoError(t, err)

	other := f.seedRecipient(t, "7777777777", 0)
	_, _, err = svc.OpenFile(ctx, domain.Session{UserID: other.UserID}, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	// Admins can review any document.
	_, rc, err := svc.OpenFile(ctx, f.admin, doc.ID)
	require.NoError(t, err)
	rc.Close()
}

func TestDecideKYCDocument_GovernmentIDDrivesProfile(t *testing.T) {
	f, svc, review := kycFixture(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "passport", FileName: "p.pdf", ContentType: "application/pdf",
		SizeBytes: 4, Body: strings.NewReader("pdfx"),
	})
	require.NoError(t, err)

	decided, err := review.DecideKYCDocument(ctx, f.admin, doc.ID, "approved", "")
	require.NoError(t, err)
	assert.Equal(t, domain.KYCApproved, decided.Status)

	profile, err := f.store.GetProfileByID(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCApproved, profile.KYCStatus)
}

func TestDecideKYCDocument_NonQualifyingLeavesProfileAlone(t *testing.T) {
	f, svc, review := kycFixture(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "utility_bill", FileName: "bill.pdf", ContentType: "application/pdf",
		SizeBytes: 4, Body: strings.NewReader("pdfx"),
	})
	require.NoError(t, err)

	_, err = review.DecideKYCDocument(ctx, f.admin, doc.ID, "approved", "")
	require.NoError(t, err)

	profile, err := f.store.GetProfileByID(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, profile.KYCStatus)
}

func TestDecideKYCDocument_RejectionWithReason(t *testing.T) {
	f, svc, review := kycFixture(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "drivers_license", FileName: "l.webp", ContentType: "image/webp",
		SizeBytes: 4, Body: strings.NewReader("webp"),
	})
	require.NoError(t, err)

	_, err = review.DecideKYCDocument(ctx, f.admin, doc.ID, "rejected", "image unreadable")
	require.NoError(t, err)

	profile, err := f.store.GetProfileByID(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCRejected, profile.KYCStatus)

	msgs := f.outboxByRoute(notifier.RouteKYC)
	for _, msg := range msgs {
		var p map[string]any
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		if p["status"] == "rejected" {
			assert.Equal(t, "image unreadable", p["rejection_reason"])
			return
		}
	}
	t.Fatal("no rejection message enqueued")
}

func TestDecideAllKYCDocuments_BatchAndReset(t *testing.T) {
	f, svc, review := kycFixture(t)
	ctx := context.Background()

	for _, spec := range []struct{ docType, name, mime string }{
		{"passport", "p.pdf", "application/pdf"},
		{"utility_bill", "u.png", "image/png"},
	} {
		_, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
			Type: spec.docType, FileName: spec.name, ContentType: spec.mime,
			SizeBytes: 4, Body: strings.NewReader("data"),
		})
		require.NoError(t, err)
	}

	decided, err := review.DecideAllKYCDocuments(ctx, f.admin, f.user.UserID, "approved", "")
	require.NoError(t, err)
	assert.Len(t, decided, 2)

	profile, err := f.store.GetProfileByID(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCApproved, profile.KYCStatus)

	reset, err := review.ResetKYCDocuments(ctx, f.admin, f.user.UserID)
	require.NoError(t, err)
	assert.Len(t, reset, 2)
	for _, d := range reset {
		assert.Equal(t, domain.KYCPending, d.Status)
		assert.Nil(t, d.ReviewedBy)
	}

	profile, err = f.store.GetProfileByID(ctx, f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, profile.KYCStatus)
}

func TestDecideKYCDocument_DecidedIsFinalUntilReset(t *testing.T) {
	f, svc, review := kycFixture(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, f.user, SubmitDocumentCmd{
		Type: "bank_statement", FileName: "s.pdf", ContentType: "application/pdf",
		SizeBytes: 4, Body: strings.NewReader("pdfx"),
	})
	require.NoError(t, err)

	_, err = review.DecideKYCDocument(ctx, f.admin, doc.ID, "approved", "")
	require.NoError(t, err)

	_, err = review.DecideKYCDocument(ctx, f.admin, doc.ID, "rejected", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
