package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/api/middleware"
	"github.com/Justice00000/nucleus-vault-app/internal/api/problem"
	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

func requestSession(r *http.Request) (domain.Session, error) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return domain.Session{}, errors.New("missing session in auth context")
	}
	return session, nil
}

func pathUUID(r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// RespondServiceError maps domain failures onto problem responses.
// Unknown errors are logged and reported as opaque 500s.
func RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		RespondError(w, r, http.StatusUnprocessableEntity, "request/validation", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-credentials", err.Error())
	case errors.Is(err, service.ErrAdminRequired):
		RespondError(w, r, http.StatusForbidden, "auth/insufficient-permissions", err.Error())
	case errors.Is(err, service.ErrUserNotApproved):
		RespondError(w, r, http.StatusForbidden, "user/not-approved", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		RespondError(w, r, http.StatusConflict, "user/email-taken", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		RespondError(w, r, http.StatusConflict, "review/invalid-transition", err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		RespondError(w, r, http.StatusBadRequest, "transaction/insufficient-funds", err.Error())
	case errors.Is(err, service.ErrSelfTransfer):
		RespondError(w, r, http.StatusUnprocessableEntity, "transaction/self-transfer", err.Error())
	case errors.Is(err, service.ErrRecipientNotFound):
		RespondError(w, r, http.StatusUnprocessableEntity, "transaction/recipient-not-found", err.Error())
	case errors.Is(err, service.ErrDocumentTooLarge):
		RespondError(w, r, http.StatusRequestEntityTooLarge, "kyc/document-too-large", err.Error())
	case errors.Is(err, service.ErrUnsupportedFileType):
		RespondError(w, r, http.StatusUnsupportedMediaType, "kyc/unsupported-file-type", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		RespondError(w, r, http.StatusNotFound, "user/not-found", err.Error())
	case errors.Is(err, service.ErrAccountNotFound):
		RespondError(w, r, http.StatusNotFound, "account/not-found", err.Error())
	case errors.Is(err, service.ErrTransactionNotFound):
		RespondError(w, r, http.StatusNotFound, "transaction/not-found", err.Error())
	case errors.Is(err, service.ErrDocumentNotFound):
		RespondError(w, r, http.StatusNotFound, "kyc/document-not-found", err.Error())
	default:
		if status, pType, msg, ok := mapDBError(err); ok {
			RespondError(w, r, status, pType, msg)
			return
		}
		zap.L().Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
		RespondError(w, r, http.StatusInternalServerError, "internal-server-error", "unexpected server error")
	}
}

func mapDBError(err error) (status int, problemType, message string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return 0, "", "", false
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return http.StatusConflict, "db/unique-violation", "resource already exists", true
	case "23503": // foreign_key_violation
		return http.StatusBadRequest, "db/foreign-key-violation", "invalid reference", true
	case "23514": // check_violation
		return http.StatusBadRequest, "db/check-violation", "request violates data constraints", true
	case "23502": // not_null_violation
		return http.StatusBadRequest, "db/not-null-violation", "missing required field", true
	default:
		return 0, "", "", false
	}
}

type listParams struct {
	Status string
	Limit  int32
	Offset int32
}

func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	p := listParams{Status: q.Get("status"), Limit: 50}
	if n, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil && n > 0 {
		p.Limit = int32(n)
	}
	if n, err := strconv.ParseInt(q.Get("offset"), 10, 32); err == nil && n >= 0 {
		p.Offset = int32(n)
	}
	return p
}
