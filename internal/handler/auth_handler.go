package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/internal/service"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// AuthHandler exposes login, token refresh and logout.
type AuthHandler struct {
	auth          *service.AuthService
	workingPoints *service.WorkingPointService
	log           *logger.Logger
}

func NewAuthHandler(auth *service.AuthService, workingPoints *service.WorkingPointService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		workingPoints: workingPoints,
		log:           log,
	}
}

type userDTO struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	PartnerID  *int64 `json:"partner_id,omitempty"`
	OperatorID *int64 `json:"operator_id,omitempty"`
	ClientID   *int64 `json:"client_id,omitempty"`
}

func toUserDTO(u *repository.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		PartnerID:  u.PartnerID,
		OperatorID: u.OperatorID,
		ClientID:   u.ClientID,
	}
}

type loginResponseDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int64   `json:"expires_in"`
	User         userDTO `json:"user"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, apperrors.Validation("email and password are required"))
		return
	}

	resp, err := h.auth.Login(r.Context(), &service.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponseDTO{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         toUserDTO(resp.User),
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.RefreshToken == "" {
		respondError(w, apperrors.Validation("refresh_token is required"))
		return
	}

	pair, err := h.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

// ChangePassword handles POST /auth/change_password for the authenticated
// user.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("not authenticated"))
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(w, apperrors.Validation("current_password and new_password are required"))
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(w, apperrors.Validation("new_password must be at least 8 characters"))
		return
	}

	if err := h.auth.ChangePassword(r.Context(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// Logout handles POST /auth/logout. The session's working point selection
// does not outlive the session, so operator logouts clear it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("not authenticated"))
		return
	}

	if actor.OperatorID != nil {
		if err := h.workingPoints.ClearSelection(r.Context(), *actor.OperatorID); err != nil {
			h.log.Warn().Err(err).Int64("operator_id", *actor.OperatorID).Msg("Failed to clear working point on logout")
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
