package access

// ResourceKind identifies what kind of resource an access decision is about.
type ResourceKind string

const (
	ResourcePartner      ResourceKind = "partner"
	ResourceServicePoint ResourceKind = "service_point"
	ResourceOperator     ResourceKind = "operator"
	ResourceBooking      ResourceKind = "booking"
	ResourceReview       ResourceKind = "review"
	ResourceClient       ResourceKind = "client"
)

// CanAccess decides whether the capability set grants access to one resource
// instance. It is total: it never panics and never errors, and a missing id
// (zero) denies, because a missing id is indistinguishable from "cannot prove
// ownership".
//
// The meaning of the two ids depends on the resource kind, supplied by the
// caller since this package does no joins:
//
//   - ownerID: the owning partner id for partner-owned kinds (service points,
//     operators, bookings, reviews), or the authoring client id for
//     client-owned kinds (bookings, reviews) when the actor is a client.
//   - resourceID: the resource's own id; for bookings/reviews evaluated
//     against an operator it must be the resolved containing service-point id.
func CanAccess(caps CapabilitySet, kind ResourceKind, ownerID, resourceID int64) bool {
	if caps.ViewsEverything() {
		return true
	}

	switch {
	case caps.PartnerID != nil:
		return canAccessAsPartner(caps, kind, ownerID, resourceID)
	case caps.OperatorID != nil:
		return canAccessAsOperator(caps, kind, resourceID)
	case caps.ClientID != nil:
		return canAccessAsClient(caps, kind, ownerID)
	default:
		return false
	}
}

func canAccessAsPartner(caps CapabilitySet, kind ResourceKind, ownerID, resourceID int64) bool {
	switch kind {
	case ResourcePartner:
		return resourceID != 0 && resourceID == *caps.PartnerID
	case ResourceServicePoint, ResourceOperator, ResourceBooking, ResourceReview:
		return ownerID != 0 && ownerID == *caps.PartnerID
	default:
		return false
	}
}

func canAccessAsOperator(caps CapabilitySet, kind ResourceKind, resourceID int64) bool {
	switch kind {
	case ResourceOperator:
		return resourceID != 0 && resourceID == *caps.OperatorID
	case ResourceServicePoint, ResourceBooking, ResourceReview:
		// For bookings and reviews the caller passes the containing
		// service-point id as resourceID.
		if resourceID == 0 {
			return false
		}
		for _, id := range caps.AssignedServicePointIDs {
			if id == resourceID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func canAccessAsClient(caps CapabilitySet, kind ResourceKind, ownerID int64) bool {
	switch kind {
	case ResourceBooking, ResourceReview, ResourceClient:
		return ownerID != 0 && ownerID == *caps.ClientID
	default:
		return false
	}
}
