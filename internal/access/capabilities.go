package access

// CapabilitySet is the derived, role-specific set of permitted operations and
// scoping ids. It is a pure function of the actor snapshot: recomputing it is
// always safe, and the zero value grants nothing.
type CapabilitySet struct {
	CanManageUsers         bool
	CanManagePartners      bool
	CanManageOperators     bool
	CanManageServicePoints bool
	CanViewAllClients      bool
	CanViewAllBookings     bool
	CanViewAuditLogs       bool

	PartnerID               *int64
	OperatorID              *int64
	ClientID                *int64
	AssignedServicePointIDs []int64
}

// Resolve derives the capability set for an actor. A nil actor (anonymous
// session) and an unknown role both resolve to the zero set.
func Resolve(actor *Actor) CapabilitySet {
	if actor == nil {
		return CapabilitySet{}
	}

	switch actor.Role {
	case RoleAdmin:
		return CapabilitySet{
			CanManageUsers:         true,
			CanManagePartners:      true,
			CanManageOperators:     true,
			CanManageServicePoints: true,
			CanViewAllClients:      true,
			CanViewAllBookings:     true,
			CanViewAuditLogs:       true,
		}

	case RoleManager:
		// Managers see everything but administer nothing.
		return CapabilitySet{
			CanViewAllClients:  true,
			CanViewAllBookings: true,
			CanViewAuditLogs:   true,
		}

	case RolePartner:
		return CapabilitySet{
			CanManageOperators:     true,
			CanManageServicePoints: true,
			PartnerID:              actor.PartnerID,
		}

	case RoleOperator:
		return CapabilitySet{
			OperatorID:              actor.OperatorID,
			AssignedServicePointIDs: cloneIDs(actor.AssignedServicePointIDs),
		}

	case RoleClient:
		return CapabilitySet{
			ClientID: actor.ClientID,
		}

	default:
		return CapabilitySet{}
	}
}

// ViewsEverything reports whether the set carries the admin/manager-grade
// unrestricted view.
func (c CapabilitySet) ViewsEverything() bool {
	return c.CanViewAllBookings && c.CanViewAllClients
}

func cloneIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
