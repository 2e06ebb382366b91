package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/middleware"
	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// BookingHandler serves the scoped booking listing. The caller's filters
// are derived server-side from its capabilities; clients cannot widen them.
type BookingHandler struct {
	bookings *repository.BookingRepository
	log      *logger.Logger
}

func NewBookingHandler(bookings *repository.BookingRepository, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		log:      log,
	}
}

type bookingDTO struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"client_id"`
	ServicePointID int64     `json:"service_point_id"`
	PartnerID      int64     `json:"partner_id"`
	Status         string    `json:"status"`
	StartsAt       time.Time `json:"starts_at"`
}

func toBookingDTOs(bookings []*repository.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingDTO{
			ID:             b.ID,
			ClientID:       b.ClientID,
			ServicePointID: b.ServicePointID,
			PartnerID:      b.PartnerID,
			Status:         b.Status,
			StartsAt:       b.StartsAt,
		})
	}
	return out
}

// List handles GET /bookings. An operator with no active assignments sees
// an empty list without touching the database.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFrom(r.Context())
	filters := access.BuildFilters(caps)

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	if filters.RestrictsToNothing() {
		respondJSON(w, http.StatusOK, map[string]any{
			"data": []bookingDTO{},
			"meta": map[string]int{"limit": limit, "offset": offset},
		})
		return
	}

	bookings, err := h.bookings.List(r.Context(), filters, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data": toBookingDTOs(bookings),
		"meta": map[string]int{"limit": limit, "offset": offset},
	})
}

// Get handles GET /bookings/{bookingID}, re-checking instance-level access
// with the booking's own ownership data.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID, err := idParam(r, "bookingID")
	if err != nil {
		respondError(w, err)
		return
	}

	booking, err := h.bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		respondError(w, err)
		return
	}

	caps := middleware.CapabilitiesFrom(r.Context())
	allowed := access.CanAccess(caps, access.ResourceBooking, booking.PartnerID, booking.ServicePointID) ||
		access.CanAccess(caps, access.ResourceClient, booking.ClientID, booking.ID)
	if !allowed {
		respondError(w, apperrors.Forbidden("booking is outside your scope"))
		return
	}

	respondJSON(w, http.StatusOK, bookingDTO{
		ID:             booking.ID,
		ClientID:       booking.ClientID,
		ServicePointID: booking.ServicePointID,
		PartnerID:      booking.PartnerID,
		Status:         booking.Status,
		StartsAt:       booking.StartsAt,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
