package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Built-in role names.
const (
	RoleSuperUser = "superuser"
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleGuest     = "guest"
)

// Role is a named permission group. Admin and user roles live in separate tables
// but share this shape.
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleSet is an unordered set of role names.
type RoleSet map[string]struct{}

// CollectRoles extracts role names into a set. Duplicates collapse.
func CollectRoles(roles []Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r.Name] = struct{}{}
	}
	return set
}

// NewRoleSet builds a set from names.
func NewRoleSet(names ...string) RoleSet {
	set := make(RoleSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s RoleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the role names in sorted order.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
