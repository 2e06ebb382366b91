package access

import "testing"

func TestCanAccessPartnerOwnership(t *testing.T) {
	tests := []struct {
		name      string
		partnerID int64
		ownerID   int64
		want      bool
	}{
		{"owns the resource", 5, 5, true},
		{"different partner", 5, 6, false},
		{"other direction", 6, 5, false},
		{"missing owner id", 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := Resolve(&Actor{ID: 1, Role: RolePartner, PartnerID: &tt.partnerID})
			got := CanAccess(caps, ResourceServicePoint, tt.ownerID, 100)
			if got != tt.want {
				t.Errorf("CanAccess(partner=%d, owner=%d) = %v, want %v", tt.partnerID, tt.ownerID, got, tt.want)
			}
		})
	}
}

func TestCanAccessAdminAndManagerShortCircuit(t *testing.T) {
	kinds := []ResourceKind{
		ResourcePartner, ResourceServicePoint, ResourceOperator,
		ResourceBooking, ResourceReview, ResourceClient,
	}

	for _, role := range []Role{RoleAdmin, RoleManager} {
		caps := Resolve(&Actor{ID: 1, Role: role})
		for _, kind := range kinds {
			if !CanAccess(caps, kind, 0, 0) {
				t.Errorf("CanAccess(%s, %s) = false, want true even with no ids", role, kind)
			}
		}
	}
}

func TestCanAccessOperatorContainment(t *testing.T) {
	operatorID := int64(12)
	actor := &Actor{
		ID: 1, Role: RoleOperator,
		OperatorID:              &operatorID,
		AssignedServicePointIDs: []int64{7, 9},
	}
	caps := Resolve(actor)

	tests := []struct {
		name       string
		kind       ResourceKind
		resourceID int64
		want       bool
	}{
		{"assigned service point", ResourceServicePoint, 7, true},
		{"other assigned point", ResourceServicePoint, 9, true},
		{"unassigned service point", ResourceServicePoint, 8, false},
		{"booking at assigned point", ResourceBooking, 7, true},
		{"booking at unassigned point", ResourceBooking, 8, false},
		{"review at assigned point", ResourceReview, 9, true},
		{"own operator record", ResourceOperator, 12, true},
		{"other operator record", ResourceOperator, 13, false},
		{"missing resource id", ResourceServicePoint, 0, false},
		{"partner resource denied", ResourcePartner, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(caps, tt.kind, 0, tt.resourceID); got != tt.want {
				t.Errorf("CanAccess(%s, id=%d) = %v, want %v", tt.kind, tt.resourceID, got, tt.want)
			}
		})
	}
}

func TestCanAccessOperatorWithNoAssignments(t *testing.T) {
	operatorID := int64(12)
	caps := Resolve(&Actor{ID: 1, Role: RoleOperator, OperatorID: &operatorID})

	if CanAccess(caps, ResourceServicePoint, 0, 7) {
		t.Error("CanAccess() granted a service point to an operator with no assignments")
	}
}

func TestCanAccessClientOwnership(t *testing.T) {
	clientID := int64(33)
	caps := Resolve(&Actor{ID: 1, Role: RoleClient, ClientID: &clientID})

	tests := []struct {
		name    string
		kind    ResourceKind
		ownerID int64
		want    bool
	}{
		{"own booking", ResourceBooking, 33, true},
		{"someone else's booking", ResourceBooking, 34, false},
		{"own review", ResourceReview, 33, true},
		{"own client record", ResourceClient, 33, true},
		{"service point denied", ResourceServicePoint, 33, false},
		{"missing owner id", ResourceBooking, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(caps, tt.kind, tt.ownerID, 1); got != tt.want {
				t.Errorf("CanAccess(%s, owner=%d) = %v, want %v", tt.kind, tt.ownerID, got, tt.want)
			}
		})
	}
}

func TestCanAccessAnonymousDeniesEverything(t *testing.T) {
	caps := Resolve(nil)

	for _, kind := range []ResourceKind{ResourceServicePoint, ResourceBooking, ResourcePartner} {
		if CanAccess(caps, kind, 5, 5) {
			t.Errorf("CanAccess(anonymous, %s) = true, want false", kind)
		}
	}
}
