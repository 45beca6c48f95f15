package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

type TransactionHandler struct {
	svc *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// Submit records a pending money-movement request. Balances do not move
// until an administrator decides the request.
func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	var req struct {
		Type                  string `json:"type"`
		Amount                string `json:"amount"`
		Description           string `json:"description"`
		RecipientAccount      string `json:"recipient_account"`
		ExternalAccountName   string `json:"external_account_name"`
		ExternalAccountNumber string `json:"external_account_number"`
		ExternalRoutingNumber string `json:"external_routing_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	tx, err := h.svc.Submit(r.Context(), session, service.SubmitTransactionCmd{
		Type:                  req.Type,
		Amount:                req.Amount,
		Description:           req.Description,
		RecipientAccount:      req.RecipientAccount,
		ExternalAccountName:   req.ExternalAccountName,
		ExternalAccountNumber: req.ExternalAccountNumber,
		ExternalRoutingNumber: req.ExternalRoutingNumber,
	})
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	p := parseListParams(r)
	items, err := h.svc.ListForUser(r.Context(), session, p.Limit, p.Offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	tx, err := h.svc.Get(r.Context(), session, id)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, tx)
}
