package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/property-dashboard/internal/auth"
)

// sessionOps is the slice of the session container the handler needs.
type sessionOps interface {
	Login(ctx context.Context, email, password string)
	Register(ctx context.Context, input auth.RegisterInput)
	Logout()
	ResetPassword(ctx context.Context, email string)
	UpdateProfile(ctx context.Context, changes auth.UserChanges)
	RefreshSession(ctx context.Context)
	State() auth.SessionState
	Token() string
}

// userDirectory lists the accounts known to the identity provider.
type userDirectory interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
}

// AuthHandler exposes the session container over HTTP. The container reports
// outcomes through its state rather than through return values, so handlers
// read the state back after each operation.
type AuthHandler struct {
	sessions  sessionOps
	directory userDirectory
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(sessions sessionOps, directory userDirectory, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{sessions: sessions, directory: directory, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
	User      auth.User `json:"user"`
}

// CreateSession handles POST /sessions.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateSession", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := h.log(r.Context(), "CreateSession", "email", email)

	h.sessions.Login(r.Context(), email, req.Password)

	state := h.sessions.State()
	if !state.IsAuthenticated || state.User == nil {
		logger.ErrorContext(r.Context(), "authentication rejected", "reason", state.Err)
		h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   state.Err,
		})
		return
	}

	logger.With("user_id", state.User.ID).InfoContext(r.Context(), "user authenticated")
	h.writeSession(r.Context(), w, http.StatusCreated, state)
}

// DeleteCurrentSession handles DELETE /sessions/current.
func (h *AuthHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.sessions.Logout()
	clearSessionCookie(w)
	h.log(r.Context(), "DeleteCurrentSession").InfoContext(r.Context(), "session revoked")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// RefreshSession handles POST /sessions/refresh.
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.sessions.RefreshSession(r.Context())

	state := h.sessions.State()
	if !state.IsAuthenticated || state.User == nil {
		// The refresh failed and the container logged the session out.
		h.log(r.Context(), "RefreshSession", "error_kind", "session_expired").ErrorContext(r.Context(), "session refresh failed")
		h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an.",
		})
		return
	}

	h.writeSession(r.Context(), w, http.StatusOK, state)
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// Register handles POST /users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode registration request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := h.log(r.Context(), "Register", "email", email)

	h.sessions.Register(r.Context(), auth.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
	})

	state := h.sessions.State()
	if !state.IsAuthenticated || state.User == nil || state.User.Email != email {
		logger.ErrorContext(r.Context(), "registration rejected", "reason", state.Err)
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: state.Err,
		})
		return
	}

	logger.With("user_id", state.User.ID).InfoContext(r.Context(), "user registered")
	h.writeSession(r.Context(), w, http.StatusCreated, state)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset handles POST /password-resets. The container always
// reports the outcome through notifications, so the endpoint acknowledges
// unconditionally.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	h.sessions.ResetPassword(r.Context(), req.Email)
	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, nil)
}

// GetProfile handles GET /profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	Email      *string `json:"email,omitempty"`
	Name       *string `json:"name,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Department *string `json:"department,omitempty"`
}

// UpdateProfile handles PATCH /profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	h.sessions.UpdateProfile(r.Context(), auth.UserChanges{
		Email:      req.Email,
		Name:       req.Name,
		Avatar:     req.Avatar,
		Department: req.Department,
	})

	state := h.sessions.State()
	if state.User == nil {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, *state.User)
}

// ListUsers handles GET /users for administrators.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.directory == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, ok := UserFromContext(r.Context())
	if !ok || user.Role != auth.RoleAdmin {
		h.log(r.Context(), "ListUsers", "error_kind", "forbidden").ErrorContext(r.Context(), "non-administrator requested user listing")
		h.responder.writeJSON(r.Context(), w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "Sie sind nicht berechtigt, diese Aktion auszuführen.",
		})
		return
	}

	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, users)
}

func (h *AuthHandler) writeSession(ctx context.Context, w http.ResponseWriter, status int, state auth.SessionState) {
	token := h.sessions.Token()
	expiresAt := ""
	if state.SessionExpiry != nil {
		expiresAt = state.SessionExpiry.UTC().Format(time.RFC3339Nano)
		setSessionCookie(w, token, *state.SessionExpiry)
	}
	w.Header().Set("X-Session-Token", token)

	h.responder.writeJSON(ctx, w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *state.User,
	})
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     "session_token",
		Value:    token,
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
	}
	if !expires.IsZero() {
		cookie.Expires = expires.UTC()
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
}
