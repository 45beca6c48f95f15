package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Justice00000/nucleus-vault-app/internal/api"
	"github.com/Justice00000/nucleus-vault-app/internal/api/middleware"
	"github.com/Justice00000/nucleus-vault-app/internal/config"
	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
	"github.com/Justice00000/nucleus-vault-app/internal/storage"
	"github.com/Justice00000/nucleus-vault-app/internal/testutil/memstore"
)

const (
	testJWTSecret   = "test-secret-0123456789-test-secret"
	testJWTIssuer   = "nucleus-vault-test"
	testJWTAudience = "nucleus-vault-api-test"
	testPassword    = "correct-horse-battery"
)

func TestMain(m *testing.M) {
	middleware.SetJWTSecret(testJWTSecret)
	middleware.SetJWTValidation(testJWTIssuer, testJWTAudience)
	os.Exit(m.Run())
}

func setupAPI(t *testing.T) (*memstore.MemStore, http.Handler) {
	t.Helper()
	store := memstore.New()
	logger := zap.NewNop()

	objects, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	audit := service.NewAuditService()
	notify := service.NewNotifyService()
	authSvc := service.NewAuthService(store, audit)
	profileSvc := service.NewProfileService(store, audit)
	accountSvc := service.NewAccountService(store)
	txSvc := service.NewTransactionService(store, audit, notify)
	kycSvc := service.NewKYCService(store, objects, audit, notify, logger)
	reviewSvc := service.NewReviewService(store, audit, notify)

	cfg := &config.Config{
		HTTPPort:           "0",
		JWTSecret:          testJWTSecret,
		JWTIssuer:          testJWTIssuer,
		JWTAudience:        testJWTAudience,
		PublicRateLimitRPS: 1000,
		AuthRateLimitRPS:   1000,
		OutboxPollInterval: time.Second,
		OutboxBatchSize:    5,
		IdempotencyTTL:     time.Hour,
	}
	router := api.NewRouter(cfg, logger, nil, nil, nil,
		authSvc, profileSvc, accountSvc, txSvc, kycSvc, reviewSvc)
	return store, router.Routes()
}

func seedUser(t *testing.T, store *memstore.MemStore, email string, status domain.UserStatus, isAdmin bool) *models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Casey",
		LastName:     "Rivera",
		Status:       status,
		KYCStatus:    domain.KYCPending,
		IsAdmin:      isAdmin,
	}
	require.NoError(t, store.CreateProfile(context.Background(), profile))
	return profile
}

func seedAccount(t *testing.T, store *memstore.MemStore, userID uuid.UUID, number string, balanceCents int64) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: number,
		RoutingNumber: domain.RoutingNumber,
		Type:          domain.AccountChecking,
		BalanceCents:  balanceCents,
		IsActive:      true,
	}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account
}

func tokenFor(t *testing.T, profile *models.Profile) string {
	t.Helper()
	role := "user"
	if profile.IsAdmin {
		role = "admin"
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": profile.ID.String(),
		"email":   profile.Email,
		"role":    role,
		"iss":     testJWTIssuer,
		"aud":     testJWTAudience,
		"sub":     profile.ID.String(),
		"iat":     now.Unix(),
		"nbf":     now.Add(-30 * time.Second).Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.JWTSecret())
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRFC7807ProblemDetails(t *testing.T) {
	_, router := setupAPI(t)

	req := httptest.NewRequest("GET", "/v1/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["type"])
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.NotEmpty(t, body["title"])
	assert.NotEmpty(t, body["detail"])
	assert.Equal(t, "/v1/me", body["instance"])
	assert.NotEmpty(t, body["request_id"])
}

func TestSignupLoginFlow(t *testing.T) {
	_, router := setupAPI(t)

	w := doJSON(t, router, "POST", "/v1/auth/signup", "", map[string]string{
		"email":      "New.Customer@Example.com",
		"password":   testPassword,
		"first_name": "New",
		"last_name":  "Customer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "new.customer@example.com", created.Email)
	assert.Equal(t, domain.UserPending, created.Status)
	assert.False(t, created.IsAdmin)

	w = doJSON(t, router, "POST", "/v1/auth/login", "", map[string]string{
		"email":    "new.customer@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string         `json:"token"`
		User  models.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.Equal(t, created.ID, loginResp.User.ID)

	parsed, err := jwt.Parse(loginResp.Token, func(token *jwt.Token) (interface{}, error) {
		return middleware.JWTSecret(), nil
	}, jwt.WithIssuer(testJWTIssuer), jwt.WithAudience(testJWTAudience))
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user", claims["role"])

	w = doJSON(t, router, "GET", "/v1/me", loginResp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Profile models.Profile  `json:"profile"`
		Account *models.Account `json:"account"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, created.ID, me.Profile.ID)
	assert.Nil(t, me.Account)
}

func TestSignupRejectsBadRequests(t *testing.T) {
	store, router := setupAPI(t)
	seedUser(t, store, "taken@example.com", domain.UserPending, false)

	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{
			name: "missing_email",
			body: map[string]string{"password": testPassword, "first_name": "A", "last_name": "B"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "short_password",
			body: map[string]string{"email": "a@b.com", "password": "short", "first_name": "A", "last_name": "B"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad_date_of_birth",
			body: map[string]string{"email": "a@b.com", "password": testPassword, "first_name": "A", "last_name": "B", "date_of_birth": "not-a-date"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate_email",
			body: map[string]string{"email": "Taken@Example.com", "password": testPassword, "first_name": "A", "last_name": "B"},
			want: http.StatusConflict,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/v1/auth/signup", "", tc.body)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	store, router := setupAPI(t)
	seedUser(t, store, "casey@example.com", domain.UserApproved, false)

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{name: "wrong_password", email: "casey@example.com", pass: "not-the-password"},
		{name: "unknown_email", email: "ghost@example.com", pass: testPassword},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/v1/auth/login", "", map[string]string{
				"email":    tc.email,
				"password": tc.pass,
			})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestSubmitTransaction(t *testing.T) {
	store, router := setupAPI(t)
	approved := seedUser(t, store, "casey@example.com", domain.UserApproved, false)
	seedAccount(t, store, approved.ID, "1234567890", 50_000)
	pending := seedUser(t, store, "waiting@example.com", domain.UserPending, false)

	cases := []struct {
		name  string
		token string
		body  map[string]string
		want  int
	}{
		{
			name:  "deposit_accepted",
			token: tokenFor(t, approved),
			body:  map[string]string{"type": "deposit", "amount": "250.00"},
			want:  http.StatusCreated,
		},
		{
			name:  "unapproved_user_forbidden",
			token: tokenFor(t, pending),
			body:  map[string]string{"type": "deposit", "amount": "10"},
			want:  http.StatusForbidden,
		},
		{
			name:  "invalid_amount",
			token: tokenFor(t, approved),
			body:  map[string]string{"type": "deposit", "amount": "-5"},
			want:  http.StatusUnprocessableEntity,
		},
		{
			name:  "withdrawal_over_balance",
			token: tokenFor(t, approved),
			body:  map[string]string{"type": "withdrawal", "amount": "600", "external_account_number": "9988776655"},
			want:  http.StatusBadRequest,
		},
		{
			name:  "withdrawal_with_bank_details",
			token: tokenFor(t, approved),
			body: map[string]string{
				"type": "withdrawal", "amount": "100",
				"external_account_name":   "Savings Co",
				"external_account_number": "9988776655",
				"external_routing_number": "011000015",
			},
			want: http.StatusCreated,
		},
		{
			name:  "transfer_missing_recipient",
			token: tokenFor(t, approved),
			body:  map[string]string{"type": "transfer", "amount": "10"},
			want:  http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/v1/transactions", tc.token, tc.body)
			assert.Equal(t, tc.want, w.Code)
		})
	}

	// The accepted deposit is pending and has not touched the balance.
	var deposits int
	for _, tx := range store.Transactions {
		if tx.Type == domain.TypeDeposit {
			deposits++
			assert.Equal(t, domain.TransactionPending, tx.Status)
			assert.Equal(t, int64(25_000), tx.AmountCents)
		}
	}
	assert.Equal(t, 1, deposits)

	// The accepted withdrawal kept the outside bank details.
	var withdrawals int
	for _, tx := range store.Transactions {
		if tx.Type == domain.TypeWithdrawal {
			withdrawals++
			assert.Equal(t, "Savings Co", tx.ExternalAccountName)
			assert.Equal(t, "9988776655", tx.ExternalAccountNumber)
			assert.Equal(t, "011000015", tx.ExternalRoutingNumber)
		}
	}
	assert.Equal(t, 1, withdrawals)

	account, err := store.GetAccountByUserID(context.Background(), approved.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), account.BalanceCents)
}

func TestTransactionDecisionFlow(t *testing.T) {
	store, router := setupAPI(t)
	customer := seedUser(t, store, "casey@example.com", domain.UserApproved, false)
	seedAccount(t, store, customer.ID, "1234567890", 50_000)
	admin := seedUser(t, store, "admin@example.com", domain.UserApproved, true)
	customerToken := tokenFor(t, customer)
	adminToken := tokenFor(t, admin)

	w := doJSON(t, router, "POST", "/v1/transactions", customerToken,
		map[string]string{"type": "deposit", "amount": "100"})
	require.Equal(t, http.StatusCreated, w.Code)
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))

	// Customers cannot reach the review console.
	w = doJSON(t, router, "POST", "/v1/admin/transactions/"+tx.ID.String()+"/decision", customerToken,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "POST", "/v1/admin/transactions/"+tx.ID.String()+"/decision", adminToken,
		map[string]string{"status": "approved", "notes": "verified funding source"})
	require.Equal(t, http.StatusOK, w.Code)
	var decided models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decided))
	assert.Equal(t, domain.TransactionApproved, decided.Status)

	account, err := store.GetAccountByUserID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60_000), account.BalanceCents)

	// Terminal decisions are final.
	w = doJSON(t, router, "POST", "/v1/admin/transactions/"+tx.ID.String()+"/decision", adminToken,
		map[string]string{"status": "declined"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTransactionOwnership(t *testing.T) {
	store, router := setupAPI(t)
	owner := seedUser(t, store, "owner@example.com", domain.UserApproved, false)
	seedAccount(t, store, owner.ID, "1234567890", 50_000)
	other := seedUser(t, store, "other@example.com", domain.UserApproved, false)

	w := doJSON(t, router, "POST", "/v1/transactions", tokenFor(t, owner),
		map[string]string{"type": "deposit", "amount": "10"})
	require.Equal(t, http.StatusCreated, w.Code)
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))

	w = doJSON(t, router, "GET", "/v1/transactions/"+tx.ID.String(), tokenFor(t, other), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "GET", "/v1/transactions/"+tx.ID.String(), tokenFor(t, owner), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func multipartUpload(t *testing.T, docType, fileName, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("document_type", docType))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestKYCUploadListDownload(t *testing.T) {
	store, router := setupAPI(t)
	customer := seedUser(t, store, "casey@example.com", domain.UserApproved, false)
	token := tokenFor(t, customer)
	payload := []byte("front-of-license-bytes")

	body, contentType := multipartUpload(t, "drivers_license", "license.jpg", "image/jpeg", payload)
	req := httptest.NewRequest("POST", "/v1/kyc/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var doc models.KYCDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, domain.KYCPending, doc.Status)
	assert.Equal(t, "license.jpg", doc.FileName)

	w = doJSON(t, router, "GET", "/v1/kyc/documents", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []models.KYCDocument `json:"items"`
		Count int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = doJSON(t, router, "GET", "/v1/kyc/documents/"+doc.ID.String()+"/file", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, payload, w.Body.Bytes())

	// Another customer cannot fetch the file; an admin can.
	other := seedUser(t, store, "other@example.com", domain.UserApproved, false)
	w = doJSON(t, router, "GET", "/v1/kyc/documents/"+doc.ID.String()+"/file", tokenFor(t, other), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	admin := seedUser(t, store, "admin@example.com", domain.UserApproved, true)
	w = doJSON(t, router, "GET", "/v1/kyc/documents/"+doc.ID.String()+"/file", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestKYCUploadRejectsUnsupportedType(t *testing.T) {
	store, router := setupAPI(t)
	customer := seedUser(t, store, "casey@example.com", domain.UserApproved, false)

	body, contentType := multipartUpload(t, "passport", "photo.gif", "image/gif", []byte("gif-bytes"))
	req := httptest.NewRequest("POST", "/v1/kyc/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, customer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Empty(t, store.Documents)
}

func TestAdminKYCDecisionDrivesProfile(t *testing.T) {
	store, router := setupAPI(t)
	customer := seedUser(t, store, "casey@example.com", domain.UserApproved, false)
	admin := seedUser(t, store, "admin@example.com", domain.UserApproved, true)
	adminToken := tokenFor(t, admin)

	body, contentType := multipartUpload(t, "drivers_license", "license.jpg", "image/jpeg", []byte("bytes"))
	req := httptest.NewRequest("POST", "/v1/kyc/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, customer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc models.KYCDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w2 := doJSON(t, router, "POST", "/v1/admin/kyc/documents/"+doc.ID.String()+"/decision", adminToken,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w2.Code)

	profile, err := store.GetProfileByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCApproved, profile.KYCStatus)
}

func TestBatchKYCDecisionAndReset(t *testing.T) {
	store, router := setupAPI(t)
	customer := seedUser(t, store, "casey@example.com", domain.UserApproved, false)
	admin := seedUser(t, store, "admin@example.com", domain.UserApproved, true)
	customerToken := tokenFor(t, customer)
	adminToken := tokenFor(t, admin)

	for _, upload := range []struct{ docType, name, mime string }{
		{"drivers_license", "license.jpg", "image/jpeg"},
		{"utility_bill", "bill.pdf", "application/pdf"},
	} {
		body, contentType := multipartUpload(t, upload.docType, upload.name, upload.mime, []byte("bytes"))
		req := httptest.NewRequest("POST", "/v1/kyc/documents", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+customerToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, "POST", "/v1/admin/users/"+customer.ID.String()+"/kyc/decision", adminToken,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	var batch struct {
		Items []models.KYCDocument `json:"items"`
		Count int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Equal(t, 2, batch.Count)
	for _, d := range batch.Items {
		assert.Equal(t, domain.KYCApproved, d.Status)
	}

	w = doJSON(t, router, "POST", "/v1/admin/users/"+customer.ID.String()+"/kyc/reset", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, d := range store.Documents {
		assert.Equal(t, domain.KYCPending, d.Status)
		assert.Nil(t, d.ReviewedBy)
	}
	profile, err := store.GetProfileByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, profile.KYCStatus)
}

func TestAdminUserDecisionProvisionsAccount(t *testing.T) {
	store, router := setupAPI(t)
	customer := seedUser(t, store, "casey@example.com", domain.UserPending, false)
	admin := seedUser(t, store, "admin@example.com", domain.UserApproved, true)

	w := doJSON(t, router, "POST", "/v1/admin/users/"+customer.ID.String()+"/decision", tokenFor(t, admin),
		map[string]string{"status": "approved", "notes": "documents look good"})
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, domain.UserApproved, profile.Status)

	account, err := store.GetAccountByUserID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Len(t, account.AccountNumber, 10)
	assert.Equal(t, domain.RoutingNumber, account.RoutingNumber)
	assert.Zero(t, account.BalanceCents)
}

func TestAdminListFilters(t *testing.T) {
	store, router := setupAPI(t)
	admin := seedUser(t, store, "admin@example.com", domain.UserApproved, true)
	adminToken := tokenFor(t, admin)

	cases := []struct {
		name string
		path string
		want int
	}{
		{name: "users_ok", path: "/v1/admin/users?status=pending", want: http.StatusOK},
		{name: "users_bad_status", path: "/v1/admin/users?status=bogus", want: http.StatusUnprocessableEntity},
		{name: "transactions_ok", path: "/v1/admin/transactions?status=pending", want: http.StatusOK},
		{name: "transactions_bad_status", path: "/v1/admin/transactions?status=bogus", want: http.StatusUnprocessableEntity},
		{name: "documents_ok", path: "/v1/admin/kyc/documents?status=pending", want: http.StatusOK},
		{name: "documents_bad_status", path: "/v1/admin/kyc/documents?status=bogus", want: http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, "GET", tc.path, adminToken, nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestHealthAndDocs(t *testing.T) {
	_, router := setupAPI(t)

	cases := []struct {
		name string
		path string
	}{
		{name: "live", path: "/health/live"},
		{name: "ready", path: "/health/ready"},
		{name: "metrics", path: "/metrics"},
		{name: "openapi", path: "/openapi.yaml"},
		{name: "swagger", path: "/swagger/index.html"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
