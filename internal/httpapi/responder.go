package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/property-dashboard/internal/auth"
)

var (
	errBadRequestBody      = errors.New("Ungültiges Anfrageformat.")
	errMissingSessionToken = errors.New("Bitte geben Sie ein Sitzungstoken an.")
	errInvalidOrderID      = errors.New("Ungültige Auftragsnummer.")
)

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "E-Mail-Adresse oder Passwort ist ungültig.",
		})
	case errors.Is(err, auth.ErrSessionExpired):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an.",
		})
	case errors.Is(err, auth.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "Sie sind nicht berechtigt, diese Aktion auszuführen.",
		})
	case errors.Is(err, auth.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "Die angeforderte Ressource wurde nicht gefunden."})
	default:
		var vErr *auth.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Bitte überprüfen Sie Ihre Eingaben.",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Ein interner Fehler ist aufgetreten."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Ungültige Anfrage."
	case http.StatusUnauthorized:
		return "Anmeldung erforderlich."
	case http.StatusForbidden:
		return "Zugriff verweigert."
	case http.StatusNotFound:
		return "Nicht gefunden."
	case http.StatusConflict:
		return "Konflikt mit vorhandenen Daten."
	}
	return http.StatusText(status)
}
