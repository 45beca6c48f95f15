package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

// ProfileHandler serves the authenticated customer's own view: profile,
// account, and in-app notifications.
type ProfileHandler struct {
	profiles *service.ProfileService
	accounts *service.AccountService
}

func NewProfileHandler(profiles *service.ProfileService, accounts *service.AccountService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	profile, err := h.profiles.Get(r.Context(), session)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	resp := map[string]any{"profile": profile}
	account, err := h.accounts.GetForUser(r.Context(), session)
	switch {
	case err == nil:
		resp["account"] = account
	case errors.Is(err, service.ErrAccountNotFound):
		// No account until the profile is approved.
	default:
		RespondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, resp)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	var req struct {
		Phone   string `json:"phone"`
		Address string `json:"address"`
		City    string `json:"city"`
		State   string `json:"state"`
		ZipCode string `json:"zip_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	profile, err := h.profiles.Update(r.Context(), session, service.UpdateProfileCmd{
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	session, err := requestSession(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-session", "invalid session")
		return
	}

	p := parseListParams(r)
	items, err := h.profiles.Notifications(r.Context(), session, p.Limit, p.Offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}
