package service

import (
	"context"
	"testing"
	"time"

	"github.com/bookora/be-booking-access/internal/repository"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	"github.com/bookora/be-booking-access/pkg/logger"
)

func newAssignmentFixture() (*AssignmentService, *fakeAssignmentStore) {
	operators := &fakeOperatorStore{operators: map[int64]*repository.Operator{
		10: {ID: 10, PartnerID: 1, UserID: 100, AccessLevel: 3, IsActive: true},
		11: {ID: 11, PartnerID: 1, UserID: 101, AccessLevel: 1, IsActive: false},
	}}
	points := &fakeServicePointStore{points: map[int64]*repository.ServicePoint{
		7:  {ID: 7, PartnerID: 1, Name: "Downtown Salon", IsActive: true},
		9:  {ID: 9, PartnerID: 1, Name: "Airport Kiosk", IsActive: true},
		21: {ID: 21, PartnerID: 2, Name: "Rival Branch", IsActive: true},
		22: {ID: 22, PartnerID: 1, Name: "Closed Branch", IsActive: false},
	}}
	assignments := &fakeAssignmentStore{}
	svc := NewAssignmentService(operators, points, assignments, logger.Nop())
	return svc, assignments
}

func TestAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active assignment", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		a, err := svc.Assign(ctx, 10, 7)
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if !a.IsActive {
			t.Error("new assignment should be active")
		}
		if a.OperatorID != 10 || a.ServicePointID != 7 {
			t.Errorf("assignment = (%d, %d), want (10, 7)", a.OperatorID, a.ServicePointID)
		}
	})

	t.Run("rejects duplicate active pair", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		if _, err := svc.Assign(ctx, 10, 7); err != nil {
			t.Fatalf("first Assign() error = %v", err)
		}
		_, err := svc.Assign(ctx, 10, 7)
		if !apperrors.IsCode(err, apperrors.CodeConflict) {
			t.Errorf("duplicate Assign() error = %v, want conflict", err)
		}
	})

	t.Run("rejects cross partner point", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		_, err := svc.Assign(ctx, 10, 21)
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			t.Errorf("cross-partner Assign() error = %v, want validation", err)
		}
	})

	t.Run("rejects inactive point", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		_, err := svc.Assign(ctx, 10, 22)
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			t.Errorf("inactive point Assign() error = %v, want validation", err)
		}
	})

	t.Run("rejects inactive operator", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		_, err := svc.Assign(ctx, 11, 7)
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			t.Errorf("inactive operator Assign() error = %v, want validation", err)
		}
	})

	t.Run("unknown operator", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		_, err := svc.Assign(ctx, 999, 7)
		if !apperrors.IsCode(err, apperrors.CodeNotFound) {
			t.Errorf("unknown operator Assign() error = %v, want not found", err)
		}
	})
}

func TestBulkAssignPartialFailure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssignmentFixture()

	// Pre-assign point 9 so it collides in the bulk request.
	if _, err := svc.Assign(ctx, 10, 9); err != nil {
		t.Fatalf("setup Assign() error = %v", err)
	}

	result, err := svc.BulkAssign(ctx, 10, []int64{7, 9, 21})
	if err != nil {
		t.Fatalf("BulkAssign() error = %v", err)
	}

	if len(result.Succeeded) != 1 {
		t.Errorf("len(Succeeded) = %d, want 1", len(result.Succeeded))
	}
	if len(result.Failed) != 2 {
		t.Fatalf("len(Failed) = %d, want 2", len(result.Failed))
	}
	want := BulkSummary{TotalRequested: 3, Successful: 1, Failed: 2}
	if result.Summary != want {
		t.Errorf("Summary = %+v, want %+v", result.Summary, want)
	}

	if result.Succeeded[0].ServicePointID != 7 {
		t.Errorf("succeeded point = %d, want 7", result.Succeeded[0].ServicePointID)
	}

	byPoint := make(map[int64]BulkFailure, len(result.Failed))
	for _, f := range result.Failed {
		byPoint[f.ServicePointID] = f
	}
	if f, ok := byPoint[9]; !ok || !apperrors.IsCode(f.Err, apperrors.CodeConflict) {
		t.Errorf("point 9 failure = %+v, want conflict", f)
	}
	if f, ok := byPoint[21]; !ok || !apperrors.IsCode(f.Err, apperrors.CodeValidation) {
		t.Errorf("point 21 failure = %+v, want validation", f)
	}
	if byPoint[9].ServicePointName != "Airport Kiosk" {
		t.Errorf("point 9 failure name = %q, want %q", byPoint[9].ServicePointName, "Airport Kiosk")
	}
}

func TestBulkAssignUnknownOperator(t *testing.T) {
	svc, _ := newAssignmentFixture()

	_, err := svc.BulkAssign(context.Background(), 999, []int64{7})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("BulkAssign() error = %v, want not found", err)
	}
}

func TestUpdateAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate then reactivate", func(t *testing.T) {
		svc, _ := newAssignmentFixture()
		a, err := svc.Assign(ctx, 10, 7)
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}

		deactivated, err := svc.UpdateAssignment(ctx, a.ID, false)
		if err != nil {
			t.Fatalf("deactivate error = %v", err)
		}
		if deactivated.IsActive {
			t.Error("assignment should be inactive after deactivation")
		}

		reactivated, err := svc.UpdateAssignment(ctx, a.ID, true)
		if err != nil {
			t.Fatalf("reactivate error = %v", err)
		}
		if !reactivated.IsActive {
			t.Error("assignment should be active after reactivation")
		}
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		svc, store := newAssignmentFixture()
		a, err := svc.Assign(ctx, 10, 7)
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		before := a.UpdatedAt

		time.Sleep(time.Millisecond)
		got, err := svc.UpdateAssignment(ctx, a.ID, true)
		if err != nil {
			t.Fatalf("UpdateAssignment() error = %v", err)
		}
		if !got.IsActive {
			t.Error("assignment should stay active")
		}
		if !store.assignments[0].UpdatedAt.Equal(before) {
			t.Error("no-op update should not touch the row")
		}
	})

	t.Run("reactivation re-validates the binding", func(t *testing.T) {
		svc, store := newAssignmentFixture()
		a, err := svc.Assign(ctx, 10, 7)
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if _, err := svc.UpdateAssignment(ctx, a.ID, false); err != nil {
			t.Fatalf("deactivate error = %v", err)
		}

		// The point closed while the assignment was revoked.
		svc.servicePoints.(*fakeServicePointStore).points[7].IsActive = false

		_, err = svc.UpdateAssignment(ctx, a.ID, true)
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			t.Errorf("reactivate error = %v, want validation", err)
		}
		if store.assignments[0].IsActive {
			t.Error("assignment must stay inactive after failed reactivation")
		}
	})

	t.Run("reactivation rejects duplicate active pair", func(t *testing.T) {
		svc, _ := newAssignmentFixture()
		a, err := svc.Assign(ctx, 10, 7)
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if _, err := svc.UpdateAssignment(ctx, a.ID, false); err != nil {
			t.Fatalf("deactivate error = %v", err)
		}
		if _, err := svc.Assign(ctx, 10, 7); err != nil {
			t.Fatalf("re-Assign() error = %v", err)
		}

		_, err = svc.UpdateAssignment(ctx, a.ID, true)
		if !apperrors.IsCode(err, apperrors.CodeConflict) {
			t.Errorf("reactivate error = %v, want conflict", err)
		}
	})

	t.Run("unknown assignment", func(t *testing.T) {
		svc, _ := newAssignmentFixture()

		_, err := svc.UpdateAssignment(ctx, 999, false)
		if !apperrors.IsCode(err, apperrors.CodeNotFound) {
			t.Errorf("UpdateAssignment() error = %v, want not found", err)
		}
	})
}

func TestUnassign(t *testing.T) {
	ctx := context.Background()
	svc, store := newAssignmentFixture()

	a, err := svc.Assign(ctx, 10, 7)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if err := svc.Unassign(ctx, a.ID); err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}

	// Revocation is a soft toggle, the row survives for history.
	if len(store.assignments) != 1 {
		t.Fatalf("len(assignments) = %d, want 1", len(store.assignments))
	}
	if store.assignments[0].IsActive {
		t.Error("assignment should be inactive after Unassign")
	}

	// The pair can be assigned again afterwards.
	if _, err := svc.Assign(ctx, 10, 7); err != nil {
		t.Errorf("re-Assign() after Unassign error = %v", err)
	}
}

func TestListAssignments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssignmentFixture()

	first, err := svc.Assign(ctx, 10, 7)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if _, err := svc.Assign(ctx, 10, 9); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if err := svc.Unassign(ctx, first.ID); err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}

	all, err := svc.ListAssignments(ctx, 10, false)
	if err != nil {
		t.Fatalf("ListAssignments(all) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}

	active, err := svc.ListAssignments(ctx, 10, true)
	if err != nil {
		t.Fatalf("ListAssignments(active) error = %v", err)
	}
	if len(active) != 1 || active[0].ServicePointID != 9 {
		t.Errorf("active assignments = %+v, want single entry for point 9", active)
	}

	if _, err := svc.ListAssignments(ctx, 999, false); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("ListAssignments(unknown) error = %v, want not found", err)
	}

	ids, err := svc.ActiveServicePointIDs(ctx, 10)
	if err != nil {
		t.Fatalf("ActiveServicePointIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != 9 {
		t.Errorf("ActiveServicePointIDs() = %v, want [9]", ids)
	}
}
