package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

type BookingRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

func NewBookingRepository(db *pgxpool.Pool, log *logger.Logger) *BookingRepository {
	return &BookingRepository{
		db:  db,
		log: log,
	}
}

const bookingColumns = `
	id, client_id, service_point_id, partner_id, status, starts_at, created_at, updated_at
`

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	booking := &Booking{}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID, &booking.ClientID, &booking.ServicePointID, &booking.PartnerID,
		&booking.Status, &booking.StartsAt, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("booking", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// List retrieves bookings restricted by the actor's scoping filters. The
// caller must handle the zero-visibility case (Filters.RestrictsToNothing)
// before calling; an unrestricted filter set lists everything.
func (r *BookingRepository) List(ctx context.Context, filters access.Filters, limit, offset int) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`

	var args []interface{}
	where := ""
	argCount := 1

	if partnerID, ok := filters[access.FilterPartnerID]; ok {
		id, err := strconv.ParseInt(partnerID, 10, 64)
		if err != nil {
			return nil, apperrors.Validation("invalid partner_id filter %q", partnerID)
		}
		where = fmt.Sprintf(" WHERE partner_id = $%d", argCount)
		args = append(args, id)
		argCount++
	} else if _, ok := filters[access.FilterServicePointIDs]; ok {
		ids := filters.ServicePointIDs()
		where = fmt.Sprintf(" WHERE service_point_id = ANY($%d)", argCount)
		args = append(args, ids)
		argCount++
	} else if clientID, ok := filters[access.FilterClientID]; ok {
		id, err := strconv.ParseInt(clientID, 10, 64)
		if err != nil {
			return nil, apperrors.Validation("invalid client_id filter %q", clientID)
		}
		where = fmt.Sprintf(" WHERE client_id = $%d", argCount)
		args = append(args, id)
		argCount++
	}

	query += where
	query += fmt.Sprintf(" ORDER BY starts_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		booking := &Booking{}
		err := rows.Scan(
			&booking.ID, &booking.ClientID, &booking.ServicePointID, &booking.PartnerID,
			&booking.Status, &booking.StartsAt, &booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}
