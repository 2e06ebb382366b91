package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/internal/service"
	"github.com/bookora/be-booking-access/pkg/apperrors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Auth sentinel
// errors are folded into the coded taxonomy first.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		err = apperrors.Unauthorized(err.Error())
	case errors.Is(err, service.ErrAccountLocked),
		errors.Is(err, service.ErrAccountInactive):
		err = apperrors.Forbidden(err.Error())
	}

	message := err.Error()
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	respondJSON(w, apperrors.HTTPStatus(err), map[string]errorBody{
		"error": {
			Code:    string(apperrors.CodeOf(err)),
			Message: message,
		},
	})
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid %s %q", name, raw)
	}
	return id, nil
}

type assignmentDTO struct {
	ID             int64     `json:"id"`
	OperatorID     int64     `json:"operator_id"`
	ServicePointID int64     `json:"service_point_id"`
	IsActive       bool      `json:"is_active"`
	AssignedAt     time.Time `json:"assigned_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAssignmentDTO(a *repository.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:             a.ID,
		OperatorID:     a.OperatorID,
		ServicePointID: a.ServicePointID,
		IsActive:       a.IsActive,
		AssignedAt:     a.AssignedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAssignmentDTOs(assignments []*repository.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toAssignmentDTO(a))
	}
	return out
}
