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

type PartnerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

func NewPartnerRepository(db *pgxpool.Pool, log *logger.Logger) *PartnerRepository {
	return &PartnerRepository{
		db:  db,
		log: log,
	}
}

// Create creates a new partner
func (r *PartnerRepository) Create(ctx context.Context, partner *Partner) error {
	query := `
		INSERT INTO partners (name, is_active)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, partner.Name, partner.IsActive).
		Scan(&partner.ID, &partner.CreatedAt, &partner.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}

	return nil
}

// GetByID retrieves a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*Partner, error) {
	partner := &Partner{}

	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM partners
		WHERE id = $1
	`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&partner.ID, &partner.Name, &partner.IsActive,
		&partner.CreatedAt, &partner.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("partner", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return partner, nil
}

// List retrieves partners, optionally restricted to active ones
func (r *PartnerRepository) List(ctx context.Context, activeOnly bool) ([]*Partner, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM partners
	`
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []*Partner
	for rows.Next() {
		partner := &Partner{}
		err := rows.Scan(
			&partner.ID, &partner.Name, &partner.IsActive,
			&partner.CreatedAt, &partner.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, partner)
	}

	return partners, nil
}
