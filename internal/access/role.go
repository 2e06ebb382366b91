// Package access derives what an authenticated actor may see and do. All of
// it is pure computation over an actor snapshot; nothing here touches the
// database, Redis, or the network.
package access

import "strings"

// Role is the closed set of portal roles. Each actor holds exactly one.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RolePartner  Role = "partner"
	RoleOperator Role = "operator"
	RoleClient   Role = "client"

	// RoleUnknown is what unrecognized input parses to. It never grants
	// anything.
	RoleUnknown Role = ""
)

// ParseRole maps a stored or transmitted role string onto the closed set.
// Unrecognized values become RoleUnknown rather than an error: an unknown
// role must resolve to no access, never to a failure a caller might be
// tempted to ignore.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RolePartner:
		return RolePartner
	case RoleOperator:
		return RoleOperator
	case RoleClient:
		return RoleClient
	default:
		return RoleUnknown
	}
}

// Valid reports whether the role is one of the known portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RolePartner, RoleOperator, RoleClient:
		return true
	default:
		return false
	}
}

// Actor is the authenticated identity driving a request. Scoping ids are set
// only for the roles they belong to. AssignedServicePointIDs carries the
// operator's current active assignment set; it is supplied by the caller
// (the auth middleware) because this package performs no I/O.
type Actor struct {
	ID                      int64
	Role                    Role
	PartnerID               *int64
	OperatorID              *int64
	ClientID                *int64
	AssignedServicePointIDs []int64
}
