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

type OperatorRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

func NewOperatorRepository(db *pgxpool.Pool, log *logger.Logger) *OperatorRepository {
	return &OperatorRepository{
		db:  db,
		log: log,
	}
}

// Create creates a new operator
func (r *OperatorRepository) Create(ctx context.Context, operator *Operator) error {
	query := `
		INSERT INTO operators (partner_id, user_id, access_level, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		operator.PartnerID, operator.UserID, operator.AccessLevel, operator.IsActive,
	).Scan(&operator.ID, &operator.CreatedAt, &operator.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}

	return nil
}

// GetByID retrieves an operator by ID
func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (*Operator, error) {
	operator := &Operator{}

	query := `
		SELECT id, partner_id, user_id, access_level, is_active, created_at, updated_at
		FROM operators
		WHERE id = $1
	`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&operator.ID, &operator.PartnerID, &operator.UserID,
		&operator.AccessLevel, &operator.IsActive,
		&operator.CreatedAt, &operator.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("operator", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}

	return operator, nil
}

// ListByPartner retrieves a partner's operators
func (r *OperatorRepository) ListByPartner(ctx context.Context, partnerID int64, activeOnly bool) ([]*Operator, error) {
	query := `
		SELECT id, partner_id, user_id, access_level, is_active, created_at, updated_at
		FROM operators
		WHERE partner_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	defer rows.Close()

	var operators []*Operator
	for rows.Next() {
		operator := &Operator{}
		err := rows.Scan(
			&operator.ID, &operator.PartnerID, &operator.UserID,
			&operator.AccessLevel, &operator.IsActive,
			&operator.CreatedAt, &operator.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operator: %w", err)
		}
		operators = append(operators, operator)
	}

	return operators, nil
}
