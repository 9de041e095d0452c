package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CredentialStore abstracts the identity provider the session container talks
// to, so the bundled mock can later be replaced by a real backend without
// touching container logic.
type CredentialStore interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (LoginResult, error)
	ResetPassword(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, userID string, changes UserChanges) error
	RefreshToken(ctx context.Context, userID string) (TokenGrant, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// MockCredentialStore simulates a remote authentication service: a fixed
// account table sharing one password, artificial latency on every call, and
// tokens minted by the configured issuer.
type MockCredentialStore struct {
	mu           sync.Mutex
	accounts     map[string]User
	passwordHash string

	issuer  *TokenIssuer
	latency time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// MockPassword is the single password every seeded account accepts.
const MockPassword = "password123"

// NewMockCredentialStore seeds the fixed account table. latency applies to
// login, registration, and password resets; profile updates and token
// refreshes take half of it, mirroring the faster endpoints of the service
// this mock stands in for.
func NewMockCredentialStore(issuer *TokenIssuer, latency time.Duration, now func() time.Time) (*MockCredentialStore, error) {
	if now == nil {
		now = time.Now
	}

	hash, err := HashPassword(MockPassword)
	if err != nil {
		return nil, err
	}

	s := &MockCredentialStore{
		accounts:     make(map[string]User),
		passwordHash: hash,
		issuer:       issuer,
		latency:      latency,
		sleep:        sleepContext,
		now:          now,
	}

	for _, u := range seedAccounts() {
		s.accounts[u.Email] = u
	}
	return s, nil
}

func seedAccounts() []User {
	return []User{
		{
			ID:         "1",
			Email:      "admin@example.com",
			Name:       "Sarah Schmidt",
			Role:       RoleAdmin,
			Avatar:     "/placeholder.svg?height=32&width=32",
			Department: "Administration",
			Permissions: []string{
				"read:all", "write:all", "delete:all", "manage:users", "manage:roles",
			},
			IsActive:  true,
			CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "2",
			Email:      "manager@example.com",
			Name:       "Max Weber",
			Role:       RoleManager,
			Avatar:     "/placeholder.svg?height=32&width=32",
			Department: "Property Management",
			Permissions: []string{
				"read:properties", "write:properties", "read:tenants", "write:tenants",
			},
			IsActive:  true,
			CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "3",
			Email:       "tenant@example.com",
			Name:        "Anna Müller",
			Role:        RoleTenant,
			Avatar:      "/placeholder.svg?height=32&width=32",
			Department:  "Resident",
			Permissions: []string{"read:own", "write:own"},
			IsActive:    true,
			CreatedAt:   time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Login verifies the email/password pair against the seeded table.
func (s *MockCredentialStore) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return LoginResult{}, err
	}

	normalized := strings.TrimSpace(strings.ToLower(email))

	s.mu.Lock()
	account, ok := s.accounts[normalized]
	hash := s.passwordHash
	s.mu.Unlock()

	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !account.IsActive {
		return LoginResult{}, ErrAccountDisabled
	}
	if err := VerifyPassword(hash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	account.LastLogin = &now
	account.UpdatedAt = now

	s.mu.Lock()
	s.accounts[normalized] = account
	s.mu.Unlock()

	grant, err := s.issuer.Issue(account.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: cloneUser(account), Token: grant.Token, ExpiresIn: grant.ExpiresIn}, nil
}

// Register fabricates a new identity. It always succeeds once input reaches
// it; field validation happens in the session container beforehand.
func (s *MockCredentialStore) Register(ctx context.Context, input RegisterInput) (LoginResult, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return LoginResult{}, err
	}

	role := RoleTenant
	if parsed, err := ParseRole(input.Role); err == nil {
		role = parsed
	}

	department := strings.TrimSpace(input.Department)
	if department == "" {
		department = "Resident"
	}

	permissions := []string{"read:own", "write:own"}
	if role == RoleAdmin {
		permissions = []string{"read:all", "write:all"}
	}

	now := s.now()
	user := User{
		ID:          uuid.NewString(),
		Email:       strings.TrimSpace(strings.ToLower(input.Email)),
		Name:        strings.TrimSpace(input.Name),
		Role:        role,
		Department:  department,
		Permissions: permissions,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.accounts[user.Email] = user
	s.mu.Unlock()

	grant, err := s.issuer.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: cloneUser(user), Token: grant.Token, ExpiresIn: grant.ExpiresIn}, nil
}

// ResetPassword pretends to dispatch a reset email. Intended to be replaced
// by a real email collaborator.
func (s *MockCredentialStore) ResetPassword(ctx context.Context, email string) error {
	return s.sleep(ctx, s.latency)
}

// UpdateProfile acknowledges a profile change after a short delay. The merge
// itself is owned by the session container.
func (s *MockCredentialStore) UpdateProfile(ctx context.Context, userID string, changes UserChanges) error {
	return s.sleep(ctx, s.latency/2)
}

// RefreshToken mints a fresh token with the fixed validity window.
func (s *MockCredentialStore) RefreshToken(ctx context.Context, userID string) (TokenGrant, error) {
	if err := s.sleep(ctx, s.latency/2); err != nil {
		return TokenGrant{}, err
	}
	return s.issuer.Issue(userID)
}

// ListUsers returns the current account table ordered by id.
func (s *MockCredentialStore) ListUsers(ctx context.Context) ([]User, error) {
	if err := s.sleep(ctx, s.latency/2); err != nil {
		return nil, err
	}

	s.mu.Lock()
	users := make([]User, 0, len(s.accounts))
	for _, u := range s.accounts {
		users = append(users, cloneUser(u))
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
