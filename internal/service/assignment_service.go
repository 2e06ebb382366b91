package service

import (
	"context"
	"fmt"

	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// Storage dependencies, satisfied by the pgx repositories and by fakes in
// tests.
type OperatorStore interface {
	GetByID(ctx context.Context, id int64) (*repository.Operator, error)
}

type ServicePointStore interface {
	GetByID(ctx context.Context, id int64) (*repository.ServicePoint, error)
}

type AssignmentStore interface {
	Create(ctx context.Context, operatorID, servicePointID int64) (*repository.Assignment, error)
	GetByID(ctx context.Context, id int64) (*repository.Assignment, error)
	GetActiveByPair(ctx context.Context, operatorID, servicePointID int64) (*repository.Assignment, error)
	SetActive(ctx context.Context, id int64, isActive bool) (*repository.Assignment, error)
	ListByOperator(ctx context.Context, operatorID int64, activeOnly bool) ([]*repository.Assignment, error)
	ListActiveServicePointIDs(ctx context.Context, operatorID int64) ([]int64, error)
}

// BulkFailure reports one service point that could not be assigned.
type BulkFailure struct {
	ServicePointID   int64
	ServicePointName string
	Err              error
}

// BulkSummary counts the outcome of a bulk assign.
type BulkSummary struct {
	TotalRequested int
	Successful     int
	Failed         int
}

// BulkResult is the three-part report of a bulk assign. Partial failure is a
// normal outcome, not an error: the batch always runs to the end.
type BulkResult struct {
	Succeeded []*repository.Assignment
	Failed    []BulkFailure
	Summary   BulkSummary
}

// AssignmentService is the single source of truth for mutating the
// operator/service-point relationship.
type AssignmentService struct {
	operators     OperatorStore
	servicePoints ServicePointStore
	assignments   AssignmentStore
	log           *logger.Logger
}

func NewAssignmentService(
	operators OperatorStore,
	servicePoints ServicePointStore,
	assignments AssignmentStore,
	log *logger.Logger,
) *AssignmentService {
	return &AssignmentService{
		operators:     operators,
		servicePoints: servicePoints,
		assignments:   assignments,
		log:           log,
	}
}

// Assign binds an operator to a service point. Cross-partner bindings are
// rejected with a validation error; a duplicate active pair is a conflict.
func (s *AssignmentService) Assign(ctx context.Context, operatorID, servicePointID int64) (*repository.Assignment, error) {
	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	assignment, _, err := s.assignOne(ctx, operator, servicePointID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("operator_id", operatorID).
		Int64("service_point_id", servicePointID).
		Int64("assignment_id", assignment.ID).
		Msg("Operator assigned to service point")

	return assignment, nil
}

// BulkAssign processes every requested service point independently and
// reports per-item outcomes. One invalid id never aborts the batch; only a
// missing operator fails the request as a whole.
func (s *AssignmentService) BulkAssign(ctx context.Context, operatorID int64, servicePointIDs []int64) (*BulkResult, error) {
	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{
		Summary: BulkSummary{TotalRequested: len(servicePointIDs)},
	}

	for _, servicePointID := range servicePointIDs {
		assignment, point, err := s.assignOne(ctx, operator, servicePointID)
		if err != nil {
			name := ""
			if point != nil {
				name = point.Name
			}
			result.Failed = append(result.Failed, BulkFailure{
				ServicePointID:   servicePointID,
				ServicePointName: name,
				Err:              err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, assignment)
	}

	result.Summary.Successful = len(result.Succeeded)
	result.Summary.Failed = len(result.Failed)

	s.log.Info().
		Int64("operator_id", operatorID).
		Int("requested", result.Summary.TotalRequested).
		Int("successful", result.Summary.Successful).
		Int("failed", result.Summary.Failed).
		Msg("Bulk assignment completed")

	return result, nil
}

// assignOne runs the per-item validation shared by Assign and BulkAssign.
// It returns the service point when it could be loaded so bulk failures can
// be reported by name.
func (s *AssignmentService) assignOne(ctx context.Context, operator *repository.Operator, servicePointID int64) (*repository.Assignment, *repository.ServicePoint, error) {
	point, err := s.servicePoints.GetByID(ctx, servicePointID)
	if err != nil {
		return nil, nil, err
	}

	if err := validateAssignable(operator, point); err != nil {
		return nil, point, err
	}

	if _, err := s.assignments.GetActiveByPair(ctx, operator.ID, servicePointID); err == nil {
		return nil, point, apperrors.Conflict(
			"operator %d is already assigned to service point %d", operator.ID, servicePointID)
	} else if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, point, err
	}

	assignment, err := s.assignments.Create(ctx, operator.ID, servicePointID)
	if err != nil {
		return nil, point, err
	}

	return assignment, point, nil
}

func validateAssignable(operator *repository.Operator, point *repository.ServicePoint) error {
	if point.PartnerID != operator.PartnerID {
		return apperrors.Validation(
			"service point %d belongs to partner %d, not the operator's partner %d",
			point.ID, point.PartnerID, operator.PartnerID)
	}
	if !point.IsActive {
		return apperrors.Validation("service point %d is not active", point.ID)
	}
	if !operator.IsActive {
		return apperrors.Validation("operator %d is not active", operator.ID)
	}
	return nil
}

// GetAssignment returns a single assignment row, revoked or not.
func (s *AssignmentService) GetAssignment(ctx context.Context, assignmentID int64) (*repository.Assignment, error) {
	return s.assignments.GetByID(ctx, assignmentID)
}

// GetOperator returns the operator record, used by callers that need the
// owning partner for authorization decisions.
func (s *AssignmentService) GetOperator(ctx context.Context, operatorID int64) (*repository.Operator, error) {
	return s.operators.GetByID(ctx, operatorID)
}

// UpdateAssignment toggles an assignment's active flag. Setting the current
// value is a no-op success. Re-activating a revoked assignment re-runs the
// same validation as a fresh assign: the partner may no longer own the point.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, assignmentID int64, isActive bool) (*repository.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if assignment.IsActive == isActive {
		return assignment, nil
	}

	if isActive {
		operator, err := s.operators.GetByID(ctx, assignment.OperatorID)
		if err != nil {
			return nil, err
		}
		point, err := s.servicePoints.GetByID(ctx, assignment.ServicePointID)
		if err != nil {
			return nil, err
		}
		if err := validateAssignable(operator, point); err != nil {
			return nil, err
		}
		if _, err := s.assignments.GetActiveByPair(ctx, assignment.OperatorID, assignment.ServicePointID); err == nil {
			return nil, apperrors.Conflict(
				"operator %d already has an active assignment to service point %d",
				assignment.OperatorID, assignment.ServicePointID)
		} else if !apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, err
		}
	}

	updated, err := s.assignments.SetActive(ctx, assignmentID, isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment %d: %w", assignmentID, err)
	}

	s.log.Info().
		Int64("assignment_id", assignmentID).
		Bool("is_active", isActive).
		Msg("Assignment updated")

	return updated, nil
}

// Unassign revokes an assignment. The row is kept with is_active = false;
// the external DELETE endpoint is an alias for this deactivation.
func (s *AssignmentService) Unassign(ctx context.Context, assignmentID int64) error {
	if _, err := s.UpdateAssignment(ctx, assignmentID, false); err != nil {
		return err
	}

	s.log.Info().Int64("assignment_id", assignmentID).Msg("Assignment revoked")
	return nil
}

// ListAssignments returns an operator's assignments; the full history
// including revoked rows unless activeOnly is set.
func (s *AssignmentService) ListAssignments(ctx context.Context, operatorID int64, activeOnly bool) ([]*repository.Assignment, error) {
	if _, err := s.operators.GetByID(ctx, operatorID); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByOperator(ctx, operatorID, activeOnly)
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

// ActiveServicePointIDs returns the ids of an operator's actively assigned
// service points, in assignment order.
func (s *AssignmentService) ActiveServicePointIDs(ctx context.Context, operatorID int64) ([]int64, error) {
	ids, err := s.assignments.ListActiveServicePointIDs(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
