package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// PartnerCatalog is the partner read surface the catalog handler needs.
type PartnerCatalog interface {
	List(ctx context.Context, activeOnly bool) ([]*repository.Partner, error)
	GetByID(ctx context.Context, id int64) (*repository.Partner, error)
}

// ServicePointCatalog is the service point read surface.
type ServicePointCatalog interface {
	ListByIDs(ctx context.Context, ids []int64) ([]*repository.ServicePoint, error)
	ListByPartner(ctx context.Context, partnerID int64, activeOnly bool) ([]*repository.ServicePoint, error)
}

// OperatorCatalog is the operator read surface.
type OperatorCatalog interface {
	ListByPartner(ctx context.Context, partnerID int64, activeOnly bool) ([]*repository.Operator, error)
}

// CatalogHandler serves the partner, service point and operator read
// surface, scoped to what the caller is entitled to see.
type CatalogHandler struct {
	partners      PartnerCatalog
	servicePoints ServicePointCatalog
	operators     OperatorCatalog
	log           *logger.Logger
}

func NewCatalogHandler(partners PartnerCatalog, servicePoints ServicePointCatalog, operators OperatorCatalog, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		partners:      partners,
		servicePoints: servicePoints,
		operators:     operators,
		log:           log,
	}
}

type partnerDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type servicePointDTO struct {
	ID        int64  `json:"id"`
	PartnerID int64  `json:"partner_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	IsActive  bool   `json:"is_active"`
}

type operatorDTO struct {
	ID          int64 `json:"id"`
	PartnerID   int64 `json:"partner_id"`
	UserID      int64 `json:"user_id"`
	AccessLevel int   `json:"access_level"`
	IsActive    bool  `json:"is_active"`
}

func toServicePointDTOs(points []*repository.ServicePoint) []servicePointDTO {
	out := make([]servicePointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, servicePointDTO{
			ID:        p.ID,
			PartnerID: p.PartnerID,
			Name:      p.Name,
			Address:   p.Address,
			IsActive:  p.IsActive,
		})
	}
	return out
}

// ListPartners handles GET /partners. Admins and managers see every
// partner; a partner sees only its own record.
func (h *CatalogHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFrom(r.Context())

	var partners []*repository.Partner
	switch {
	case caps.ViewsEverything():
		all, err := h.partners.List(r.Context(), false)
		if err != nil {
			respondError(w, err)
			return
		}
		partners = all
	case caps.PartnerID != nil:
		own, err := h.partners.GetByID(r.Context(), *caps.PartnerID)
		if err != nil {
			respondError(w, err)
			return
		}
		partners = []*repository.Partner{own}
	default:
		respondError(w, apperrors.Forbidden("insufficient permissions"))
		return
	}

	out := make([]partnerDTO, 0, len(partners))
	for _, p := range partners {
		out = append(out, partnerDTO{ID: p.ID, Name: p.Name, IsActive: p.IsActive, CreatedAt: p.CreatedAt})
	}
	respondJSON(w, http.StatusOK, map[string][]partnerDTO{"data": out})
}

// ListServicePoints handles GET /service_points. Operators get exactly
// their assigned points, partners their own, admins and managers everything
// under an explicit partner_id parameter.
func (h *CatalogHandler) ListServicePoints(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFrom(r.Context())
	filters := access.BuildFilters(caps)

	if filters.RestrictsToNothing() {
		respondJSON(w, http.StatusOK, map[string][]servicePointDTO{"data": {}})
		return
	}

	if ids := filters.ServicePointIDs(); len(ids) > 0 {
		points, err := h.servicePoints.ListByIDs(r.Context(), ids)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string][]servicePointDTO{"data": toServicePointDTOs(points)})
		return
	}

	partnerID, err := h.resolvePartnerScope(r, caps)
	if err != nil {
		respondError(w, err)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	points, err := h.servicePoints.ListByPartner(r.Context(), partnerID, activeOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]servicePointDTO{"data": toServicePointDTOs(points)})
}

// ListOperators handles GET /operators. Partners see their own staff;
// admins and managers pick a partner via the partner_id parameter.
func (h *CatalogHandler) ListOperators(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFrom(r.Context())
	if !caps.CanManageOperators && !caps.ViewsEverything() {
		respondError(w, apperrors.Forbidden("insufficient permissions"))
		return
	}

	partnerID, err := h.resolvePartnerScope(r, caps)
	if err != nil {
		respondError(w, err)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	operators, err := h.operators.ListByPartner(r.Context(), partnerID, activeOnly)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]operatorDTO, 0, len(operators))
	for _, op := range operators {
		out = append(out, operatorDTO{
			ID:          op.ID,
			PartnerID:   op.PartnerID,
			UserID:      op.UserID,
			AccessLevel: op.AccessLevel,
			IsActive:    op.IsActive,
		})
	}
	respondJSON(w, http.StatusOK, map[string][]operatorDTO{"data": out})
}

// resolvePartnerScope pins a partner-scoped caller to its own partner and
// requires an explicit partner_id from unrestricted callers.
func (h *CatalogHandler) resolvePartnerScope(r *http.Request, caps access.CapabilitySet) (int64, error) {
	var partnerID int64
	if caps.PartnerID != nil {
		partnerID = *caps.PartnerID
	} else {
		partnerID = int64(queryInt(r, "partner_id", 0))
		if partnerID <= 0 {
			return 0, apperrors.Validation("partner_id is required")
		}
	}

	if !access.CanAccess(caps, access.ResourcePartner, partnerID, partnerID) {
		return 0, apperrors.Forbidden("partner is outside your scope")
	}
	return partnerID, nil
}
