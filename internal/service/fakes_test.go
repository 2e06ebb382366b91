package service

import (
	"context"
	"time"

	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/pkg/apperrors"
)

// In-memory stores mirroring the pgx repositories' contracts, including
// their NotFound/Conflict error codes.

type fakeOperatorStore struct {
	operators map[int64]*repository.Operator
}

func (f *fakeOperatorStore) GetByID(_ context.Context, id int64) (*repository.Operator, error) {
	op, ok := f.operators[id]
	if !ok {
		return nil, apperrors.NotFound("operator", id)
	}
	return op, nil
}

type fakeServicePointStore struct {
	points map[int64]*repository.ServicePoint
}

func (f *fakeServicePointStore) GetByID(_ context.Context, id int64) (*repository.ServicePoint, error) {
	point, ok := f.points[id]
	if !ok {
		return nil, apperrors.NotFound("service point", id)
	}
	return point, nil
}

type fakeAssignmentStore struct {
	assignments []*repository.Assignment
	nextID      int64
}

func (f *fakeAssignmentStore) Create(_ context.Context, operatorID, servicePointID int64) (*repository.Assignment, error) {
	for _, a := range f.assignments {
		if a.OperatorID == operatorID && a.ServicePointID == servicePointID && a.IsActive {
			return nil, apperrors.Conflict("operator %d is already assigned to service point %d", operatorID, servicePointID)
		}
	}

	f.nextID++
	a := &repository.Assignment{
		ID:             f.nextID,
		OperatorID:     operatorID,
		ServicePointID: servicePointID,
		IsActive:       true,
		AssignedAt:     time.Now(),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, id int64) (*repository.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.NotFound("assignment", id)
}

func (f *fakeAssignmentStore) GetActiveByPair(_ context.Context, operatorID, servicePointID int64) (*repository.Assignment, error) {
	for _, a := range f.assignments {
		if a.OperatorID == operatorID && a.ServicePointID == servicePointID && a.IsActive {
			return a, nil
		}
	}
	return nil, apperrors.NotFound("assignment", servicePointID)
}

func (f *fakeAssignmentStore) SetActive(_ context.Context, id int64, isActive bool) (*repository.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			a.IsActive = isActive
			a.UpdatedAt = time.Now()
			if isActive {
				a.AssignedAt = time.Now()
			}
			return a, nil
		}
	}
	return nil, apperrors.NotFound("assignment", id)
}

func (f *fakeAssignmentStore) ListByOperator(_ context.Context, operatorID int64, activeOnly bool) ([]*repository.Assignment, error) {
	var out []*repository.Assignment
	for _, a := range f.assignments {
		if a.OperatorID != operatorID {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssignmentStore) ListActiveServicePointIDs(_ context.Context, operatorID int64) ([]int64, error) {
	var ids []int64
	for _, a := range f.assignments {
		if a.OperatorID == operatorID && a.IsActive {
			ids = append(ids, a.ServicePointID)
		}
	}
	return ids, nil
}
