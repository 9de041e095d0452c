package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/property-dashboard/internal/auth"
	"github.com/example/property-dashboard/internal/logging"
)

// TokenValidator checks a presented session token and returns its user.
type TokenValidator interface {
	ValidateToken(token string) (auth.User, error)
}

// RequireSession rejects requests that do not carry the token of the active
// session and attaches the authenticated user to the request context.
func RequireSession(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
				return
			}

			user, err := validator.ValidateToken(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrSessionExpired):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_SESSION_EXPIRED",
						Message:   "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an.",
					})
				case errors.Is(err, auth.ErrUnauthorized):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						Message: "Sitzung ungültig. Bitte melden Sie sich erneut an.",
					})
				default:
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
						Message: "Bei der Sitzungsprüfung ist ein Fehler aufgetreten.",
					})
				}
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a per-request logger to the context and records
// request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

func extractTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}
