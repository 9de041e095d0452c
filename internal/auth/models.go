package auth

import (
	"fmt"
	"time"
)

// Role classifies the level of access a user holds within the dashboard.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleTenant    Role = "tenant"
	RoleInspector Role = "inspector"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RoleTenant, RoleInspector:
		return Role(raw), nil
	}
	return "", fmt.Errorf("auth: unknown role %q", raw)
}

// User is the identity record carried by an authenticated session. Permissions
// is always non-nil; Role is always one of the enumerated values.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	Avatar      string     `json:"avatar,omitempty"`
	Department  string     `json:"department,omitempty"`
	Permissions []string   `json:"permissions"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func cloneUser(u User) User {
	clone := u
	clone.Permissions = append([]string(nil), u.Permissions...)
	if clone.Permissions == nil {
		clone.Permissions = []string{}
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		clone.LastLogin = &t
	}
	return clone
}

// SessionState is the observable state of the session container.
//
// Invariants: IsAuthenticated is true exactly when User is non-nil, and
// SessionExpiry is non-nil only while authenticated.
type SessionState struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	Err             string
	SessionExpiry   *time.Time
}

// sessionRecord is the composite document persisted under a single key. It
// replaces the three independent keys the stored session originally occupied,
// so a crash can no longer leave the persisted session half written.
type sessionRecord struct {
	Token    string `json:"token"`
	ExpiryMS int64  `json:"expiry_ms"`
	User     User   `json:"user"`
}

// RegisterInput captures the fields collected by the registration form.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Role       string
	Department string
}

// UserChanges is a partial profile update; nil fields are left untouched.
type UserChanges struct {
	Email      *string
	Name       *string
	Avatar     *string
	Department *string
}

// LoginResult is the credential store's answer to a successful login or
// registration.
type LoginResult struct {
	User      User
	Token     string
	ExpiresIn time.Duration
}

// TokenGrant is a freshly minted token with its validity window.
type TokenGrant struct {
	Token     string
	ExpiresIn time.Duration
}

// Navigator moves the user between views after login, registration, and
// logout. The routing surface itself lives outside this package.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) {
	if f != nil {
		f(path)
	}
}
