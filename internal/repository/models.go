package repository

import "time"

// User is a portal account. Exactly one role; the scoping ids are set only
// for the roles they belong to.
type User struct {
	ID                  int64
	Email               string
	PasswordHash        *string
	FirstName           string
	LastName            string
	Role                string
	PartnerID           *int64
	OperatorID          *int64
	ClientID            *int64
	Status              string
	LastLoginAt         *time.Time
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Partner owns service points and employs operators.
type Partner struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServicePoint is a physical location owned by exactly one partner.
type ServicePoint struct {
	ID        int64
	PartnerID int64
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Operator is a field worker belonging to exactly one partner.
type Operator struct {
	ID          int64
	PartnerID   int64
	UserID      int64
	AccessLevel int // 1..5
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Assignment binds one operator to one service point. Revocation flips
// IsActive to false; rows are never deleted, preserving assignment history.
// At most one row per (operator, service point) pair is active at a time.
type Assignment struct {
	ID             int64
	OperatorID     int64
	ServicePointID int64
	IsActive       bool
	AssignedAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Booking is the minimal booking projection the access layer needs: who made
// it and where it takes place.
type Booking struct {
	ID             int64
	ClientID       int64
	ServicePointID int64
	PartnerID      int64
	Status         string
	StartsAt       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
