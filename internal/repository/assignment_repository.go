package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// Postgres error code for unique_violation. A partial unique index on
// (operator_id, service_point_id) WHERE is_active guards the one-active-
// assignment invariant against concurrent writers.
const pgUniqueViolation = "23505"

type AssignmentRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

func NewAssignmentRepository(db *pgxpool.Pool, log *logger.Logger) *AssignmentRepository {
	return &AssignmentRepository{
		db:  db,
		log: log,
	}
}

const assignmentColumns = `
	id, operator_id, service_point_id, is_active, assigned_at, created_at, updated_at
`

func scanAssignment(row pgx.Row) (*Assignment, error) {
	a := &Assignment{}
	err := row.Scan(
		&a.ID, &a.OperatorID, &a.ServicePointID, &a.IsActive,
		&a.AssignedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an active assignment row. A concurrent duplicate of the
// active pair surfaces as a Conflict.
func (r *AssignmentRepository) Create(ctx context.Context, operatorID, servicePointID int64) (*Assignment, error) {
	query := `
		INSERT INTO operator_service_points (operator_id, service_point_id, is_active, assigned_at)
		VALUES ($1, $2, true, NOW())
		RETURNING ` + assignmentColumns

	assignment, err := scanAssignment(r.db.QueryRow(ctx, query, operatorID, servicePointID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.Wrap(err, apperrors.CodeConflict,
				fmt.Sprintf("operator %d is already assigned to service point %d", operatorID, servicePointID))
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM operator_service_points WHERE id = $1`

	assignment, err := scanAssignment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("assignment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// GetActiveByPair retrieves the current active assignment for an
// (operator, service point) pair, or a NotFound error when none exists.
func (r *AssignmentRepository) GetActiveByPair(ctx context.Context, operatorID, servicePointID int64) (*Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM operator_service_points
		WHERE operator_id = $1 AND service_point_id = $2 AND is_active = true
	`

	assignment, err := scanAssignment(r.db.QueryRow(ctx, query, operatorID, servicePointID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("assignment", fmt.Sprintf("%d/%d", operatorID, servicePointID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}

	return assignment, nil
}

// SetActive toggles the active flag. Revoked rows stay in place to preserve
// assignment history; activation refreshes assigned_at.
func (r *AssignmentRepository) SetActive(ctx context.Context, id int64, isActive bool) (*Assignment, error) {
	query := `
		UPDATE operator_service_points
		SET is_active = $2,
		    assigned_at = CASE WHEN $2 THEN NOW() ELSE assigned_at END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + assignmentColumns

	assignment, err := scanAssignment(r.db.QueryRow(ctx, query, id, isActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("assignment", id)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.Wrap(err, apperrors.CodeConflict,
				fmt.Sprintf("another active assignment exists for assignment %d's pair", id))
		}
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	return assignment, nil
}

// ListByOperator retrieves an operator's assignments, full history unless
// activeOnly is set.
func (r *AssignmentRepository) ListByOperator(ctx context.Context, operatorID int64, activeOnly bool) ([]*Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM operator_service_points WHERE operator_id = $1`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY assigned_at, id"

	rows, err := r.db.Query(ctx, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*Assignment
	for rows.Next() {
		a := &Assignment{}
		err := rows.Scan(
			&a.ID, &a.OperatorID, &a.ServicePointID, &a.IsActive,
			&a.AssignedAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// ListActiveServicePointIDs returns the ids of the service points the
// operator is actively assigned to, in assignment order.
func (r *AssignmentRepository) ListActiveServicePointIDs(ctx context.Context, operatorID int64) ([]int64, error) {
	query := `
		SELECT service_point_id
		FROM operator_service_points
		WHERE operator_id = $1 AND is_active = true
		ORDER BY assigned_at, id
	`

	rows, err := r.db.Query(ctx, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active service point ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan service point id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
