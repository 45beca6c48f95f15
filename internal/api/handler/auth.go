package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/api/middleware"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	SSNLast4    string `json:"ssn_last_4"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	cmd := service.SignupCmd{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		SSNLast4:  req.SSNLast4,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			RespondError(w, r, http.StatusUnprocessableEntity, "request/validation", "date_of_birth must be YYYY-MM-DD")
			return
		}
		cmd.DateOfBirth = &dob
	}

	profile, err := h.svc.Signup(r.Context(), cmd)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, profile)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	profile, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	token, err := mintToken(profile)
	if err != nil {
		zap.L().Error("sign token failed", zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "auth/token-signing", "Failed to sign token")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  profile,
	})
}

func mintToken(profile *models.Profile) (string, error) {
	role := "user"
	if profile.IsAdmin {
		role = middleware.RoleAdmin
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": profile.ID.String(),
		"email":   profile.Email,
		"role":    role,
		"sub":     profile.ID.String(),
		"iat":     now.Unix(),
		"nbf":     now.Add(-30 * time.Second).Unix(),
		"exp":     now.Add(24 * time.Hour).Unix(),
	}
	if iss := middleware.JWTIssuer(); iss != "" {
		claims["iss"] = iss
	}
	if aud := middleware.JWTAudience(); aud != "" {
		claims["aud"] = aud
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}
