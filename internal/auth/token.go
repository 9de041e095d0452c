package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints the opaque session tokens handed out by the credential
// store. Tokens are HS256 JWTs carrying the user id as subject; callers treat
// them as opaque strings.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. A non-positive ttl falls back to
// one hour, matching the fixed window the mock identity provider advertises.
func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

// TTL reports the validity window applied to issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a token for the given user id.
func (i *TokenIssuer) Issue(userID string) (TokenGrant, error) {
	issuedAt := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return TokenGrant{}, fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return TokenGrant{Token: signed, ExpiresIn: i.ttl}, nil
}

// Subject verifies a token's signature and returns the user id it was issued
// for.
func (i *TokenIssuer) Subject(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("auth: token carries no subject")
	}
	return claims.Subject, nil
}
