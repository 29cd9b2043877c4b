package auth

import "github.com/phrazzld/postdesk/internal/domain"

// Policy decides whether verified claims carry a capability.
type Policy interface {
	Authorize(claims *Claims, capability domain.Capability) bool
}

// RolePolicy grants capabilities from a static role table.
type RolePolicy struct {
	grants map[domain.Role]map[domain.Capability]struct{}
}

var _ Policy = (*RolePolicy)(nil)

// NewRolePolicy builds a policy from a role to capabilities table.
func NewRolePolicy(table map[domain.Role][]domain.Capability) *RolePolicy {
	grants := make(map[domain.Role]map[domain.Capability]struct{}, len(table))
	for role, capabilities := range table {
		set := make(map[domain.Capability]struct{}, len(capabilities))
		for _, c := range capabilities {
			set[c] = struct{}{}
		}
		grants[role] = set
	}
	return &RolePolicy{grants: grants}
}

// DefaultPolicy grants post management to administrators only.
func DefaultPolicy() *RolePolicy {
	return NewRolePolicy(map[domain.Role][]domain.Capability{
		domain.RoleAdmin: {domain.CapabilityManagePosts},
	})
}

// Authorize implements Policy. Nil claims are never authorized.
func (p *RolePolicy) Authorize(claims *Claims, capability domain.Capability) bool {
	if claims == nil {
		return false
	}
	_, ok := p.grants[claims.Role][capability]
	return ok
}
