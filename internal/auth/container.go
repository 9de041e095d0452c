package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/example/property-dashboard/internal/notify"
	"github.com/example/property-dashboard/internal/storage"
)

// SessionRecordKey is the storage key holding the composite session record.
const SessionRecordKey = "auth-session"

const (
	homePath  = "/"
	loginPath = "/auth/login"
)

// SessionContainer owns identity, authentication status, session expiry, and
// error state. All failures of its operations become observable state plus a
// notification; nothing escapes its boundary as an error or panic.
//
// One container is constructed per process and handed by reference to
// whichever code needs it.
type SessionContainer struct {
	store     CredentialStore
	kv        storage.KeyValueStore
	notifier  notify.Notifier
	navigator Navigator
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	state    SessionState
	token    string
	watchdog *time.Timer
	watchGen uint64
}

// NewSessionContainer wires the container's dependencies. The state starts in
// the loading phase until Restore has run.
func NewSessionContainer(store CredentialStore, kv storage.KeyValueStore, notifier notify.Notifier, navigator Navigator, now func() time.Time) *SessionContainer {
	return NewSessionContainerWithLogger(store, kv, notifier, navigator, now, nil)
}

// NewSessionContainerWithLogger constructs a SessionContainer with a
// specified logger.
func NewSessionContainerWithLogger(store CredentialStore, kv storage.KeyValueStore, notifier notify.Notifier, navigator Navigator, now func() time.Time, logger *slog.Logger) *SessionContainer {
	if notifier == nil {
		notifier = notify.Nop()
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	if now == nil {
		now = time.Now
	}
	return &SessionContainer{
		store:     store,
		kv:        kv,
		notifier:  notifier,
		navigator: navigator,
		logger:    defaultLogger(logger),
		now:       now,
		state:     SessionState{IsLoading: true},
	}
}

// State returns a snapshot of the current session state.
func (c *SessionContainer) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *SessionContainer) snapshotLocked() SessionState {
	snapshot := c.state
	if c.state.User != nil {
		u := cloneUser(*c.state.User)
		snapshot.User = &u
	}
	if c.state.SessionExpiry != nil {
		t := *c.state.SessionExpiry
		snapshot.SessionExpiry = &t
	}
	return snapshot
}

// Token returns the opaque token of the current session, if any.
func (c *SessionContainer) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Restore attempts to rebuild the session from the persisted record. A valid
// record authenticates, an expired one triggers the full logout sequence, and
// a missing or corrupt one leaves the container anonymous. The loading flag
// is cleared exactly once at the end of the check.
func (c *SessionContainer) Restore(ctx context.Context) {
	logger := containerLogger(ctx, c.logger, "Restore")
	defer func() {
		c.mu.Lock()
		c.state.IsLoading = false
		c.mu.Unlock()
	}()

	raw, ok, err := c.kv.Get(SessionRecordKey)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read persisted session", "error", err)
		return
	}
	if !ok {
		return
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logger.ErrorContext(ctx, "persisted session is corrupt, discarding", "error", err)
		return
	}

	expiry := time.UnixMilli(record.ExpiryMS)
	if !c.now().Before(expiry) {
		logger.InfoContext(ctx, "persisted session expired", "expiry", expiry)
		c.Logout()
		return
	}

	c.mu.Lock()
	user := cloneUser(record.User)
	c.state = SessionState{User: &user, IsAuthenticated: true, IsLoading: true, SessionExpiry: &expiry}
	c.token = record.Token
	c.scheduleWatchdogLocked(expiry)
	c.mu.Unlock()

	logger.InfoContext(ctx, "session restored", "user_id", record.User.ID, "expiry", expiry)
}

// Login authenticates against the credential store. All outcomes are
// reflected as state plus a notification; Login never returns an error.
func (c *SessionContainer) Login(ctx context.Context, email, password string) {
	logger := containerLogger(ctx, c.logger, "Login", "email", strings.TrimSpace(strings.ToLower(email)))

	c.mu.Lock()
	c.state.IsLoading = true
	c.state.Err = ""
	c.mu.Unlock()

	result, err := c.store.Login(ctx, email, password)
	if err != nil {
		message := loginFailureMessage(err)
		c.mu.Lock()
		c.state = SessionState{Err: message}
		c.token = ""
		c.cancelWatchdogLocked()
		c.mu.Unlock()

		logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
		c.notifier.Notify(notify.Notification{
			Title:       "Anmeldung fehlgeschlagen",
			Description: message,
			Destructive: true,
		})
		return
	}

	expiry := c.now().Add(result.ExpiresIn)
	c.establishSession(ctx, result.User, result.Token, expiry)

	logger.InfoContext(ctx, "login succeeded", "user_id", result.User.ID, "expiry", expiry)
	c.notifier.Notify(notify.Notification{
		Title:       "Anmeldung erfolgreich",
		Description: "Willkommen zurück, " + result.User.Name + "!",
	})
	c.navigator.Navigate(homePath)
}

// Register validates the input, creates the account, and signs the new user
// in. Validation or credential failure sets the error state without clearing
// an existing authentication.
func (c *SessionContainer) Register(ctx context.Context, input RegisterInput) {
	logger := containerLogger(ctx, c.logger, "Register", "email", strings.TrimSpace(strings.ToLower(input.Email)))

	if vErr := validateRegisterInput(input); vErr.HasErrors() {
		c.registerFailed(ctx, logger, vErr, registrationMessage(vErr))
		return
	}

	c.mu.Lock()
	c.state.IsLoading = true
	c.mu.Unlock()

	result, err := c.store.Register(ctx, input)
	if err != nil {
		c.registerFailed(ctx, logger, err, "Registrierung fehlgeschlagen")
		return
	}

	expiry := c.now().Add(result.ExpiresIn)
	c.establishSession(ctx, result.User, result.Token, expiry)

	logger.InfoContext(ctx, "registration succeeded", "user_id", result.User.ID)
	c.notifier.Notify(notify.Notification{
		Title:       "Registrierung erfolgreich",
		Description: "Willkommen, " + result.User.Name + "!",
	})
	c.navigator.Navigate(homePath)
}

func (c *SessionContainer) registerFailed(ctx context.Context, logger *slog.Logger, err error, message string) {
	c.mu.Lock()
	c.state.IsLoading = false
	c.state.Err = message
	c.mu.Unlock()

	logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
	c.notifier.Notify(notify.Notification{
		Title:       "Registrierung fehlgeschlagen",
		Description: message,
		Destructive: true,
	})
}

// Logout clears the persisted record, resets to anonymous, and navigates to
// the login view. Calling it while anonymous is a no-op besides re-clearing
// storage.
func (c *SessionContainer) Logout() {
	c.mu.Lock()
	c.state = SessionState{}
	c.token = ""
	c.cancelWatchdogLocked()
	c.mu.Unlock()

	if err := c.kv.Remove(SessionRecordKey); err != nil {
		c.logger.Error("failed to clear persisted session", "error", err)
	}
	c.navigator.Navigate(loginPath)
}

// ResetPassword requests a password reset. Session state is never touched.
func (c *SessionContainer) ResetPassword(ctx context.Context, email string) {
	logger := containerLogger(ctx, c.logger, "ResetPassword")

	if err := c.store.ResetPassword(ctx, email); err != nil {
		logger.ErrorContext(ctx, "password reset failed", "error", err, "error_kind", ErrorKind(err))
		c.notifier.Notify(notify.Notification{
			Title:       "Fehler",
			Description: "Passwort-Reset fehlgeschlagen",
			Destructive: true,
		})
		return
	}

	logger.InfoContext(ctx, "password reset requested")
	c.notifier.Notify(notify.Notification{
		Title:       "Passwort-Reset gesendet",
		Description: "Überprüfen Sie Ihre E-Mail für weitere Anweisungen.",
	})
}

// UpdateProfile merges the provided fields into the current user, locally and
// in the persisted record. Fields not present in the change set keep their
// prior values. A call without an authenticated user is a no-op.
func (c *SessionContainer) UpdateProfile(ctx context.Context, changes UserChanges) {
	logger := containerLogger(ctx, c.logger, "UpdateProfile")

	c.mu.Lock()
	if c.state.User == nil {
		c.mu.Unlock()
		return
	}
	userID := c.state.User.ID
	c.mu.Unlock()

	if err := c.store.UpdateProfile(ctx, userID, changes); err != nil {
		logger.ErrorContext(ctx, "profile update failed", "error", err, "error_kind", ErrorKind(err))
		c.notifier.Notify(notify.Notification{
			Title:       "Fehler",
			Description: "Profil-Update fehlgeschlagen",
			Destructive: true,
		})
		return
	}

	c.mu.Lock()
	if c.state.User == nil {
		c.mu.Unlock()
		return
	}
	applyUserChanges(c.state.User, changes)
	c.state.User.UpdatedAt = c.now()
	user := cloneUser(*c.state.User)
	token := c.token
	var expiry time.Time
	if c.state.SessionExpiry != nil {
		expiry = *c.state.SessionExpiry
	}
	c.mu.Unlock()

	c.persistRecord(ctx, user, token, expiry)

	logger.InfoContext(ctx, "profile updated", "user_id", user.ID)
	c.notifier.Notify(notify.Notification{
		Title:       "Profil aktualisiert",
		Description: "Ihre Profildaten wurden erfolgreich gespeichert.",
	})
}

// RefreshSession obtains a new token/expiry pair. On failure the session is
// logged out.
func (c *SessionContainer) RefreshSession(ctx context.Context) {
	logger := containerLogger(ctx, c.logger, "RefreshSession")

	c.mu.Lock()
	if c.state.User == nil {
		c.mu.Unlock()
		return
	}
	user := cloneUser(*c.state.User)
	c.mu.Unlock()

	grant, err := c.store.RefreshToken(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "session refresh failed, logging out", "error", err, "error_kind", ErrorKind(err))
		c.Logout()
		return
	}

	expiry := c.now().Add(grant.ExpiresIn)
	c.persistRecord(ctx, user, grant.Token, expiry)

	c.mu.Lock()
	if c.state.User != nil {
		c.token = grant.Token
		c.state.SessionExpiry = &expiry
		c.scheduleWatchdogLocked(expiry)
	}
	c.mu.Unlock()

	logger.InfoContext(ctx, "session refreshed", "user_id", user.ID, "expiry", expiry)
}

// HasPermission reports whether the current user holds the permission string
// or the read:all wildcard. Anonymous sessions hold nothing.
func (c *SessionContainer) HasPermission(permission string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.User == nil {
		return false
	}
	for _, p := range c.state.User.Permissions {
		if p == permission || p == "read:all" {
			return true
		}
	}
	return false
}

// HasRole reports whether the current user's role is one of the given roles.
func (c *SessionContainer) HasRole(roles ...Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.User == nil {
		return false
	}
	for _, role := range roles {
		if c.state.User.Role == role {
			return true
		}
	}
	return false
}

// ValidateToken checks a presented token against the current session and
// returns the authenticated user.
func (c *SessionContainer) ValidateToken(token string) (User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.User == nil || c.token == "" {
		return User{}, ErrUnauthorized
	}
	if token != c.token {
		return User{}, ErrUnauthorized
	}
	if c.state.SessionExpiry != nil && !c.now().Before(*c.state.SessionExpiry) {
		return User{}, ErrSessionExpired
	}
	return cloneUser(*c.state.User), nil
}

// Close cancels the expiry watchdog. The container must not be used after.
func (c *SessionContainer) Close() {
	c.mu.Lock()
	c.cancelWatchdogLocked()
	c.mu.Unlock()
}

// establishSession persists the record, installs the authenticated state, and
// arms the expiry watchdog.
func (c *SessionContainer) establishSession(ctx context.Context, user User, token string, expiry time.Time) {
	c.persistRecord(ctx, user, token, expiry)

	c.mu.Lock()
	u := cloneUser(user)
	c.state = SessionState{User: &u, IsAuthenticated: true, SessionExpiry: &expiry}
	c.token = token
	c.scheduleWatchdogLocked(expiry)
	c.mu.Unlock()
}

// persistRecord writes the composite session record. Persistence is best
// effort: failures are logged and absorbed.
func (c *SessionContainer) persistRecord(ctx context.Context, user User, token string, expiry time.Time) {
	record := sessionRecord{Token: token, ExpiryMS: expiry.UnixMilli(), User: user}
	encoded, err := json.Marshal(record)
	if err != nil {
		containerLogger(ctx, c.logger, "persistRecord").ErrorContext(ctx, "failed to encode session record", "error", err)
		return
	}
	if err := c.kv.Set(SessionRecordKey, string(encoded)); err != nil {
		containerLogger(ctx, c.logger, "persistRecord").ErrorContext(ctx, "failed to persist session record", "error", err)
	}
}

// scheduleWatchdogLocked arms a one-shot timer at the expiry instant. Any
// previously scheduled timer is cancelled first so a stale firing cannot log
// out a newer session.
func (c *SessionContainer) scheduleWatchdogLocked(expiry time.Time) {
	c.cancelWatchdogLocked()

	remaining := expiry.Sub(c.now())
	if remaining <= 0 {
		return
	}

	generation := c.watchGen
	c.watchdog = time.AfterFunc(remaining, func() {
		c.sessionExpired(generation)
	})
}

func (c *SessionContainer) cancelWatchdogLocked() {
	c.watchGen++
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
}

func (c *SessionContainer) sessionExpired(generation uint64) {
	c.mu.Lock()
	if generation != c.watchGen {
		c.mu.Unlock()
		return
	}
	c.state = SessionState{}
	c.token = ""
	c.cancelWatchdogLocked()
	c.mu.Unlock()

	c.logger.Info("session expired", "container", "SessionContainer")
	c.notifier.Notify(notify.Notification{
		Title:       "Sitzung abgelaufen",
		Description: "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an.",
		Destructive: true,
	})

	if err := c.kv.Remove(SessionRecordKey); err != nil {
		c.logger.Error("failed to clear persisted session", "error", err)
	}
	c.navigator.Navigate(loginPath)
}

func applyUserChanges(user *User, changes UserChanges) {
	if changes.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*changes.Email))
	}
	if changes.Name != nil {
		user.Name = *changes.Name
	}
	if changes.Avatar != nil {
		user.Avatar = *changes.Avatar
	}
	if changes.Department != nil {
		user.Department = *changes.Department
	}
}

func loginFailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "E-Mail-Adresse oder Passwort ist ungültig."
	case errors.Is(err, ErrAccountDisabled):
		return "Dieses Konto ist deaktiviert."
	}
	return "Anmeldung fehlgeschlagen"
}

func validateRegisterInput(input RegisterInput) *ValidationError {
	vErr := &ValidationError{}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "E-Mail-Adresse ist erforderlich.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "E-Mail-Adresse ist ungültig.")
	}

	if input.Password == "" {
		vErr.add("password", "Passwort ist erforderlich.")
	} else if len(input.Password) < 8 {
		vErr.add("password", "Passwort muss mindestens 8 Zeichen lang sein.")
	}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "Name ist erforderlich.")
	}

	if raw := strings.TrimSpace(input.Role); raw != "" {
		if _, err := ParseRole(raw); err != nil {
			vErr.add("role", "Unbekannte Rolle.")
		}
	}

	return vErr
}

func registrationMessage(vErr *ValidationError) string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return "Registrierung fehlgeschlagen"
	}
	fields := make([]string, 0, len(vErr.FieldErrors))
	for field := range vErr.FieldErrors {
		fields = append(fields, field)
	}
	if len(fields) == 1 {
		return vErr.FieldErrors[fields[0]]
	}
	return "Bitte überprüfen Sie Ihre Eingaben."
}
