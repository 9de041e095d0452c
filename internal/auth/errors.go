package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email/password pair does not
	// match a known account.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrAccountDisabled is returned when the account exists but is inactive.
	ErrAccountDisabled = errors.New("auth: account disabled")
	// ErrUnauthorized is returned when no authenticated session backs a request.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrSessionExpired is returned when the presented session has passed its
	// expiry instant.
	ErrSessionExpired = errors.New("auth: session expired")
	// ErrNotFound is returned when the requested account does not exist.
	ErrNotFound = errors.New("auth: not found")
)

// ValidationError captures field level validation issues that callers can
// surface to users before any credential store call is made.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
