package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

// AdminHandler exposes the review console: queue listings and decisions
// over users, transactions, and KYC documents. All routes sit behind the
// admin role requirement.
type AdminHandler struct {
	svc *service.ReviewService
}

func NewAdminHandler(svc *service.ReviewService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type decisionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	p := parseListParams(r)
	items, err := h.svc.ListUsers(r.Context(), session, p.Status, p.Limit, p.Offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	p := parseListParams(r)
	items, err := h.svc.ListTransactions(r.Context(), session, p.Status, p.Limit, p.Offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *AdminHandler) ListKYCDocuments(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	p := parseListParams(r)
	items, err := h.svc.ListKYCDocuments(r.Context(), session, p.Status, p.Limit, p.Offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *AdminHandler) DecideUser(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	id, ok := pathUUID(r, chi.URLParam(r, "id"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "invalid user id")
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	profile, err := h.svc.DecideUser(r.Context(), session, id, req.Status, req.Notes)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, profile)
}

func (h *AdminHandler) DecideTransaction(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	id, ok := pathUUID(r, chi.URLParam(r, "id"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "invalid transaction id")
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	tx, err := h.svc.DecideTransaction(r.Context(), session, id, req.Status, req.Notes)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, tx)
}

func (h *AdminHandler) DecideKYCDocument(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	id, ok := pathUUID(r, chi.URLParam(r, "id"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "invalid document id")
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	doc, err := h.svc.DecideKYCDocument(r.Context(), session, id, req.Status, req.Notes)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, doc)
}

// DecideUserKYC applies one decision to every pending document of a user
// in a single transaction.
func (h *AdminHandler) DecideUserKYC(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	id, ok := pathUUID(r, chi.URLParam(r, "id"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "invalid user id")
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	docs, err := h.svc.DecideAllKYCDocuments(r.Context(), session, id, req.Status, req.Notes)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": docs, "count": len(docs)})
}

// ResetUserKYC returns a user's decided documents to pending for a fresh
// review round.
func (h *AdminHandler) ResetUserKYC(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	id, ok := pathUUID(r, chi.URLParam(r, "id"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "invalid user id")
		return
	}

	docs, err := h.svc.ResetKYCDocuments(r.Context(), session, id)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": docs, "count": len(docs)})
}
