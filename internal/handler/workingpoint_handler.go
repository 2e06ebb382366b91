package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/internal/service"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// WorkingPointHandler exposes the operator's current working point
// selection. Only the operator itself may read or change it.
type WorkingPointHandler struct {
	workingPoints *service.WorkingPointService
	log           *logger.Logger
}

func NewWorkingPointHandler(workingPoints *service.WorkingPointService, log *logger.Logger) *WorkingPointHandler {
	return &WorkingPointHandler{
		workingPoints: workingPoints,
		log:           log,
	}
}

func authorizeSelf(r *http.Request, operatorID int64) error {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok || actor.OperatorID == nil || *actor.OperatorID != operatorID {
		return apperrors.Forbidden("working point selection is private to the operator")
	}
	return nil
}

type workingPointDTO struct {
	OperatorID     int64  `json:"operator_id"`
	ServicePointID *int64 `json:"service_point_id"`
}

// Get handles GET /operators/{operatorID}/working_point.
func (h *WorkingPointHandler) Get(w http.ResponseWriter, r *http.Request) {
	operatorID, err := idParam(r, "operatorID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := authorizeSelf(r, operatorID); err != nil {
		respondError(w, err)
		return
	}

	selection, err := h.workingPoints.GetSelection(r.Context(), operatorID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, workingPointDTO{OperatorID: operatorID, ServicePointID: selection})
}

// Put handles PUT /operators/{operatorID}/working_point. A null
// service_point_id clears the selection.
func (h *WorkingPointHandler) Put(w http.ResponseWriter, r *http.Request) {
	operatorID, err := idParam(r, "operatorID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := authorizeSelf(r, operatorID); err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		ServicePointID *int64 `json:"service_point_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	if err := h.workingPoints.SetSelection(r.Context(), operatorID, req.ServicePointID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, workingPointDTO{OperatorID: operatorID, ServicePointID: req.ServicePointID})
}

// Delete handles DELETE /operators/{operatorID}/working_point.
func (h *WorkingPointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	operatorID, err := idParam(r, "operatorID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := authorizeSelf(r, operatorID); err != nil {
		respondError(w, err)
		return
	}

	if err := h.workingPoints.ClearSelection(r.Context(), operatorID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
