package handler

import (
	"net/http"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/pkg/apperrors"
)

// MeHandler reports the caller's resolved capabilities and scoping filters,
// the snapshot the portal frontend drives its UI from.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

type capabilitiesDTO struct {
	CanManageUsers         bool `json:"can_manage_users"`
	CanManagePartners      bool `json:"can_manage_partners"`
	CanManageOperators     bool `json:"can_manage_operators"`
	CanManageServicePoints bool `json:"can_manage_service_points"`
	CanViewAllClients      bool `json:"can_view_all_clients"`
	CanViewAllBookings     bool `json:"can_view_all_bookings"`
	CanViewAuditLogs       bool `json:"can_view_audit_logs"`

	PartnerID               *int64  `json:"partner_id,omitempty"`
	OperatorID              *int64  `json:"operator_id,omitempty"`
	ClientID                *int64  `json:"client_id,omitempty"`
	AssignedServicePointIDs []int64 `json:"assigned_service_point_ids,omitempty"`
}

// Capabilities handles GET /me/capabilities.
func (h *MeHandler) Capabilities(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	caps := middleware.CapabilitiesFrom(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": actor.ID,
		"role":    string(actor.Role),
		"capabilities": capabilitiesDTO{
			CanManageUsers:          caps.CanManageUsers,
			CanManagePartners:       caps.CanManagePartners,
			CanManageOperators:      caps.CanManageOperators,
			CanManageServicePoints:  caps.CanManageServicePoints,
			CanViewAllClients:       caps.CanViewAllClients,
			CanViewAllBookings:      caps.CanViewAllBookings,
			CanViewAuditLogs:        caps.CanViewAuditLogs,
			PartnerID:               caps.PartnerID,
			OperatorID:              caps.OperatorID,
			ClientID:                caps.ClientID,
			AssignedServicePointIDs: caps.AssignedServicePointIDs,
		},
		"filters": access.BuildFilters(caps),
	})
}
