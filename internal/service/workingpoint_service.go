package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/kvstore"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// WorkingPointService maintains which single assigned service point an
// operator's session currently acts through. The persisted slot is a
// single-writer-per-session key; last write wins.
type WorkingPointService struct {
	assignments AssignmentStore
	store       kvstore.Store
	log         *logger.Logger
}

func NewWorkingPointService(assignments AssignmentStore, store kvstore.Store, log *logger.Logger) *WorkingPointService {
	return &WorkingPointService{
		assignments: assignments,
		store:       store,
		log:         log,
	}
}

func workingPointKey(operatorID int64) string {
	return "working_point:" + strconv.FormatInt(operatorID, 10)
}

// ReduceSelection applies the selection rules to the operator's active
// service point ids and the persisted selection, in input order:
//
//  1. a persisted selection still actively assigned is kept;
//  2. a persisted selection no longer assigned is discarded and replaced by
//     the first active assignment, or nothing when none remain;
//  3. with nothing persisted, a sole active assignment is selected
//     automatically; more than one stays unselected until the operator picks.
//
// Pure function; the service methods wrap it with storage reads and
// write-through.
func ReduceSelection(activeServicePointIDs []int64, persisted *int64) *int64 {
	if persisted != nil {
		for _, id := range activeServicePointIDs {
			if id == *persisted {
				return persisted
			}
		}
		if len(activeServicePointIDs) > 0 {
			first := activeServicePointIDs[0]
			return &first
		}
		return nil
	}

	if len(activeServicePointIDs) == 1 {
		only := activeServicePointIDs[0]
		return &only
	}
	return nil
}

// GetSelection returns the operator's current working point, auto-correcting
// the persisted slot whenever the assignment set has invalidated it.
func (s *WorkingPointService) GetSelection(ctx context.Context, operatorID int64) (*int64, error) {
	activeIDs, err := s.assignments.ListActiveServicePointIDs(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	persisted, err := s.readPersisted(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	selection := ReduceSelection(activeIDs, persisted)

	if err := s.syncPersisted(ctx, operatorID, persisted, selection); err != nil {
		return nil, err
	}

	return selection, nil
}

// SetSelection writes the operator's choice through to the persisted slot.
// A nil id clears the slot rather than writing a sentinel. The chosen point
// must be actively assigned.
func (s *WorkingPointService) SetSelection(ctx context.Context, operatorID int64, servicePointID *int64) error {
	if servicePointID == nil {
		return s.ClearSelection(ctx, operatorID)
	}

	activeIDs, err := s.assignments.ListActiveServicePointIDs(ctx, operatorID)
	if err != nil {
		return err
	}

	assigned := false
	for _, id := range activeIDs {
		if id == *servicePointID {
			assigned = true
			break
		}
	}
	if !assigned {
		return apperrors.Validation(
			"service point %d is not actively assigned to operator %d", *servicePointID, operatorID)
	}

	value := strconv.FormatInt(*servicePointID, 10)
	if err := s.store.Set(ctx, workingPointKey(operatorID), value); err != nil {
		return fmt.Errorf("failed to persist working point: %w", err)
	}

	s.log.Info().
		Int64("operator_id", operatorID).
		Int64("service_point_id", *servicePointID).
		Msg("Working point selected")

	return nil
}

// ClearSelection removes the persisted slot. Called when the operator clears
// the choice explicitly and when the session's role stops being operator.
func (s *WorkingPointService) ClearSelection(ctx context.Context, operatorID int64) error {
	if err := s.store.Remove(ctx, workingPointKey(operatorID)); err != nil {
		return fmt.Errorf("failed to clear working point: %w", err)
	}
	return nil
}

func (s *WorkingPointService) readPersisted(ctx context.Context, operatorID int64) (*int64, error) {
	raw, err := s.store.Get(ctx, workingPointKey(operatorID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read working point: %w", err)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A corrupt slot is treated as empty and cleaned up.
		s.log.Warn().
			Int64("operator_id", operatorID).
			Str("value", raw).
			Msg("Discarding unparseable working point value")
		_ = s.store.Remove(ctx, workingPointKey(operatorID))
		return nil, nil
	}

	return &id, nil
}

// syncPersisted writes the corrected selection back so the next session
// start does not repeat the correction.
func (s *WorkingPointService) syncPersisted(ctx context.Context, operatorID int64, persisted, selection *int64) error {
	switch {
	case selection == nil && persisted != nil:
		return s.ClearSelection(ctx, operatorID)
	case selection != nil && (persisted == nil || *persisted != *selection):
		value := strconv.FormatInt(*selection, 10)
		if err := s.store.Set(ctx, workingPointKey(operatorID), value); err != nil {
			return fmt.Errorf("failed to persist working point: %w", err)
		}
	}
	return nil
}
