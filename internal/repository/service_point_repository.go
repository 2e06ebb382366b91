package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

type ServicePointRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

func NewServicePointRepository(db *pgxpool.Pool, log *logger.Logger) *ServicePointRepository {
	return &ServicePointRepository{
		db:  db,
		log: log,
	}
}

// Create creates a new service point
func (r *ServicePointRepository) Create(ctx context.Context, point *ServicePoint) error {
	query := `
		INSERT INTO service_points (partner_id, name, address, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		point.PartnerID, point.Name, point.Address, point.IsActive,
	).Scan(&point.ID, &point.CreatedAt, &point.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service point: %w", err)
	}

	return nil
}

// GetByID retrieves a service point by ID
func (r *ServicePointRepository) GetByID(ctx context.Context, id int64) (*ServicePoint, error) {
	point := &ServicePoint{}

	query := `
		SELECT id, partner_id, name, address, is_active, created_at, updated_at
		FROM service_points
		WHERE id = $1
	`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&point.ID, &point.PartnerID, &point.Name, &point.Address,
		&point.IsActive, &point.CreatedAt, &point.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("service point", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service point: %w", err)
	}

	return point, nil
}

// ListByPartner retrieves a partner's service points
func (r *ServicePointRepository) ListByPartner(ctx context.Context, partnerID int64, activeOnly bool) ([]*ServicePoint, error) {
	query := `
		SELECT id, partner_id, name, address, is_active, created_at, updated_at
		FROM service_points
		WHERE partner_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service points: %w", err)
	}
	defer rows.Close()

	return scanServicePoints(rows)
}

// ListByIDs retrieves the service points with the given ids, preserving no
// particular order.
func (r *ServicePointRepository) ListByIDs(ctx context.Context, ids []int64) ([]*ServicePoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, partner_id, name, address, is_active, created_at, updated_at
		FROM service_points
		WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list service points by ids: %w", err)
	}
	defer rows.Close()

	return scanServicePoints(rows)
}

func scanServicePoints(rows pgx.Rows) ([]*ServicePoint, error) {
	var points []*ServicePoint
	for rows.Next() {
		point := &ServicePoint{}
		err := rows.Scan(
			&point.ID, &point.PartnerID, &point.Name, &point.Address,
			&point.IsActive, &point.CreatedAt, &point.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service point: %w", err)
		}
		points = append(points, point)
	}
	return points, nil
}
