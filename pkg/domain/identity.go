// Package domain holds the identity types shared by every service. The
// gateway is the only component allowed to mint propagation headers; internal
// services consume them through the trust filter.
package domain

import "fmt"

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ParseRole maps a wire value onto the closed Role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Principal is the verified identity attached to one request. It is derived
// from a token or from gateway propagation headers, lives in the request
// context, and is never persisted.
type Principal struct {
	SubjectID int64
	Email     string
	Role      Role
}

// Propagation headers carrying verified identity from the gateway to internal
// services. The gateway overwrites any client-supplied values of these names;
// nothing else may set them.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
)
