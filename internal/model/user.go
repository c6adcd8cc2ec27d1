package model

import (
	"fmt"
	"strings"
)

// Role is the backend's user type. Only equality is meaningful.
type Role int

const (
	RoleCustomer Role = 0
	RoleMerchant Role = 1
	RoleRider    Role = 2
	RoleAdmin    Role = 999
)

var roleNames = map[Role]string{
	RoleCustomer: "CUSTOMER",
	RoleMerchant: "MERCHANT",
	RoleRider:    "RIDER",
	RoleAdmin:    "ADMIN",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole accepts the GraphQL enum name form (e.g. "ADMIN").
func ParseRole(name string) (Role, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// User is the partial session info returned by /api/user/me and
// /api/server/claim.
type User struct {
	ID     string  `json:"user_id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Role   Role    `json:"type"`
	Avatar *string `json:"avatar,omitempty"`
}

func (u User) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u User) IsMerchant() bool { return u.Role == RoleMerchant }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ClaimRequest is the body of POST /api/server/claim.
type ClaimRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
