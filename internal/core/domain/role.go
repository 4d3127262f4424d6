package domain

import (
	"fmt"
	"strings"
)

// Role is a position in the storefront's access hierarchy.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// roleOrder is the single source of truth for the hierarchy, lowest first.
var roleOrder = []Role{RoleCustomer, RoleStaff, RoleAdmin}

// Roles returns every known role from lowest to highest rank.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// Rank returns the position of r in the hierarchy, or -1 for an unknown role.
func (r Role) Rank() int {
	for i, known := range roleOrder {
		if known == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r.Rank() >= 0 }

// CanAccess reports whether a user holding r may see content gated on required.
// Unknown roles never grant access.
func (r Role) CanAccess(required Role) bool {
	have, need := r.Rank(), required.Rank()
	if have < 0 || need < 0 {
		return false
	}
	return have >= need
}

// ParseRole accepts any casing of a known role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}
