package domain

import "strings"

// Role is the closed set of roles a session can carry.
type Role int

// Known roles. RoleUnknown is the zero value and holds no capabilities.
const (
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

// String returns the claim value for the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole maps a role claim to a Role. Matching is case-insensitive; anything
// unrecognised is RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Capability names an operation class that the access policy can grant.
type Capability int

// Known capabilities.
const (
	// CapabilityManagePosts allows creating, updating and deleting posts.
	CapabilityManagePosts Capability = iota + 1
)

// String returns a readable capability name for logs.
func (c Capability) String() string {
	switch c {
	case CapabilityManagePosts:
		return "manage_posts"
	default:
		return "unknown"
	}
}
