package httpapi

import (
	"context"
	"log/slog"

	"github.com/example/property-dashboard/internal/auth"
	"github.com/example/property-dashboard/internal/logging"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	orderIDContextKey contextKey = "order_id"
)

// ContextWithUser returns a derived context containing the authenticated user.
func ContextWithUser(ctx context.Context, user auth.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user from context if available.
func UserFromContext(ctx context.Context) (auth.User, bool) {
	user, ok := ctx.Value(userContextKey).(auth.User)
	return user, ok
}

// ContextWithOrderID injects the maintenance-order id resolved from the
// request path.
func ContextWithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDContextKey, orderID)
}

// OrderIDFromContext extracts a maintenance-order id previously associated
// with the context.
func OrderIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(orderIDContextKey).(string)
	return id, ok
}

// LoggerFromContext exposes the request logger attached by RequestLogger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
