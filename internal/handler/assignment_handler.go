package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/internal/service"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// AssignmentHandler exposes the operator to service point assignment
// lifecycle over HTTP.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	log         *logger.Logger
}

func NewAssignmentHandler(assignments *service.AssignmentService, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		log:         log,
	}
}

// authorizeOperatorScope checks the caller may manage the given operator's
// assignments. Partners are restricted to operators they own.
func (h *AssignmentHandler) authorizeOperatorScope(r *http.Request, operatorID int64) error {
	caps := middleware.CapabilitiesFrom(r.Context())
	if !caps.CanManageOperators {
		return apperrors.Forbidden("insufficient permissions")
	}

	operator, err := h.assignments.GetOperator(r.Context(), operatorID)
	if err != nil {
		return err
	}

	if caps.PartnerID != nil && !access.CanAccess(caps, access.ResourceOperator, operator.PartnerID, operator.ID) {
		return apperrors.Forbidden("operator belongs to another partner")
	}
	return nil
}

// authorizeOperatorRead is the relaxed variant for read endpoints: roles
// with the unrestricted view may list assignments even without management
// rights.
func (h *AssignmentHandler) authorizeOperatorRead(r *http.Request, operatorID int64) error {
	caps := middleware.CapabilitiesFrom(r.Context())
	if caps.ViewsEverything() {
		if _, err := h.assignments.GetOperator(r.Context(), operatorID); err != nil {
			return err
		}
		return nil
	}
	return h.authorizeOperatorScope(r, operatorID)
}

func (h *AssignmentHandler) authorizeAssignmentScope(r *http.Request, assignmentID int64) error {
	assignment, err := h.assignments.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		return err
	}
	return h.authorizeOperatorScope(r, assignment.OperatorID)
}

// Assign handles POST /operators/{operatorID}/service_points.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	operatorID, err := idParam(r, "operatorID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.authorizeOperatorScope(r, operatorID); err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		ServicePointID int64 `json:"service_point_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.ServicePointID <= 0 {
		respondError(w, apperrors.Validation("service_point_id is required"))
		return
	}

	assignment, err := h.assignments.Assign(r.Context(), operatorID, req.ServicePointID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

type bulkFailureDTO struct {
	ServicePointID   int64  `json:"service_point_id"`
	ServicePointName string `json:"service_point_name"`
	Error            string `json:"error"`
}

type bulkMetaDTO struct {
	TotalRequested int `json:"total_requested"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
}

type bulkResponseDTO struct {
	Data   []assignmentDTO  `json:"data"`
	Errors []bulkFailureDTO `json:"errors"`
	Meta   bulkMetaDTO      `json:"meta"`
}

// BulkAssign handles POST /operators/{operatorID}/service_points/bulk_assign.
// Partial failure is a 200 with per-item errors, not a request failure.
func (h *AssignmentHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	operatorID, err := idParam(r, "operatorID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.authorizeOperatorScope(r, operatorID); err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		ServicePointIDs []int64 `json:"service_point_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}
	if len(req.ServicePointIDs) == 0 {
		respondError(w, apperrors.Validation("service_point_ids must not be empty"))
		return
	}

	result, err := h.assignments.BulkAssign(r.Context(), operatorID, req.ServicePointIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := bulkResponseDTO{
		Data:   toAssignmentDTOs(result.Succeeded),
		Errors: make([]bulkFailureDTO, 0, len(result.Failed)),
		Meta: bulkMetaDTO{
			TotalRequested: result.Summary.TotalRequested,
			Successful:     result.Summary.Successful,
			Failed:         result.Summary.Failed,
		},
	}
	for _, f := range result.Failed {
		resp.Errors = append(resp.Errors, bulkFailureDTO{
			ServicePointID:   f.ServicePointID,
			ServicePointName: f.ServicePointName,
			Error:            f.Err.Error(),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

// List handles GET /operators/{operatorID}/service_points. Without the
// active query parameter the full history including revoked rows is
// returned.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	operatorID, err := idParam(r, "operatorID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.authorizeOperatorRead(r, operatorID); err != nil {
		respondError(w, err)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	assignments, err := h.assignments.ListAssignments(r.Context(), operatorID, activeOnly)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]assignmentDTO{"data": toAssignmentDTOs(assignments)})
}

// Update handles PATCH /operator_service_points/{assignmentID}.
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := idParam(r, "assignmentID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.authorizeAssignmentScope(r, assignmentID); err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.IsActive == nil {
		respondError(w, apperrors.Validation("is_active is required"))
		return
	}

	assignment, err := h.assignments.UpdateAssignment(r.Context(), assignmentID, *req.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toAssignmentDTO(assignment))
}

// Delete handles DELETE /operator_service_points/{assignmentID}. Deletion is
// a revoke: the row survives with is_active = false.
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := idParam(r, "assignmentID")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.authorizeAssignmentScope(r, assignmentID); err != nil {
		respondError(w, err)
		return
	}

	if err := h.assignments.Unassign(r.Context(), assignmentID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
