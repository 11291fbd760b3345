package domain

import "time"

// AdminRole enumerates privilege tiers for the admin control plane.
type AdminRole string

const (
	RoleViewer AdminRole = "viewer"
	RoleAdmin  AdminRole = "admin"

	// RoleUnassigned marks an actor with no stored assignment. Such
	// actors are admitted by default, but the principal records that no
	// role was actually verified so audit trails can tell them apart
	// from real admins.
	RoleUnassigned AdminRole = "unassigned"
)

var roleRank = map[AdminRole]int{
	RoleViewer: 1,
	RoleAdmin:  2,
}

// Valid reports whether the role is a known tier.
func (r AdminRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Meets reports whether the role satisfies the minimum required tier.
// An unknown role never satisfies anything.
func (r AdminRole) Meets(min AdminRole) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}

// RoleAssignment maps an actor identity to a privilege tier. An actor with
// no assignment is admitted by default; see auth.Gate.
type RoleAssignment struct {
	Actor     string
	Role      AdminRole
	CreatedAt time.Time
}
