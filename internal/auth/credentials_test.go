package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *MockCredentialStore {
	t.Helper()

	issuer := NewTokenIssuer("test-secret", time.Hour, nil)
	store, err := NewMockCredentialStore(issuer, 0, nil)
	if err != nil {
		t.Fatalf("NewMockCredentialStore failed: %v", err)
	}
	return store
}

func TestMockCredentialStore_Login(t *testing.T) {
	t.Parallel()

	t.Run("accepts every seeded account", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		for _, email := range []string{"admin@example.com", "manager@example.com", "tenant@example.com"} {
			result, err := store.Login(context.Background(), email, MockPassword)
			if err != nil {
				t.Fatalf("Login(%s) failed: %v", email, err)
			}
			if result.User.Email != email {
				t.Fatalf("expected %s, got %s", email, result.User.Email)
			}
			if result.Token == "" {
				t.Fatal("expected a token")
			}
			if result.ExpiresIn != time.Hour {
				t.Fatalf("expected one hour validity, got %v", result.ExpiresIn)
			}
			if result.User.LastLogin == nil {
				t.Fatal("expected last login to be stamped")
			}
		}
	})

	t.Run("normalizes the email before lookup", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		result, err := store.Login(context.Background(), "  Admin@Example.COM ", MockPassword)
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.User.ID != "1" {
			t.Fatalf("expected admin account, got %s", result.User.ID)
		}
	})

	t.Run("rejects an unknown account", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		if _, err := store.Login(context.Background(), "nobody@example.com", MockPassword); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		if _, err := store.Login(context.Background(), "admin@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("honours context cancellation during the simulated latency", func(t *testing.T) {
		t.Parallel()

		issuer := NewTokenIssuer("test-secret", time.Hour, nil)
		store, err := NewMockCredentialStore(issuer, 5*time.Second, nil)
		if err != nil {
			t.Fatalf("NewMockCredentialStore failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if _, err := store.Login(ctx, "admin@example.com", MockPassword); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context deadline, got %v", err)
		}
	})
}

func TestMockCredentialStore_Register(t *testing.T) {
	t.Parallel()

	t.Run("fabricates a tenant by default", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		result, err := store.Register(context.Background(), RegisterInput{
			Email:    "Neu@Example.com",
			Password: "password123",
			Name:     "  Neue Person  ",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.User.Email != "neu@example.com" {
			t.Fatalf("expected normalized email, got %s", result.User.Email)
		}
		if result.User.Name != "Neue Person" {
			t.Fatalf("expected trimmed name, got %q", result.User.Name)
		}
		if result.User.Role != RoleTenant {
			t.Fatalf("expected tenant default, got %s", result.User.Role)
		}
		if result.User.Department != "Resident" {
			t.Fatalf("expected Resident default, got %s", result.User.Department)
		}
		if result.User.ID == "" {
			t.Fatal("expected a generated id")
		}

		// The new account is immediately usable.
		if _, err := store.Login(context.Background(), "neu@example.com", MockPassword); err != nil {
			t.Fatalf("expected new account to log in: %v", err)
		}
	})

	t.Run("grants admin permissions for the admin role", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		result, err := store.Register(context.Background(), RegisterInput{
			Email:    "chef@example.com",
			Password: "password123",
			Name:     "Chef",
			Role:     "admin",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.User.Role != RoleAdmin {
			t.Fatalf("expected admin role, got %s", result.User.Role)
		}

		found := false
		for _, p := range result.User.Permissions {
			if p == "read:all" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected read:all permission, got %v", result.User.Permissions)
		}
	})
}

func TestMockCredentialStore_RefreshToken(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	grant, err := store.RefreshToken(context.Background(), "2")
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if grant.Token == "" || grant.ExpiresIn != time.Hour {
		t.Fatalf("unexpected grant %+v", grant)
	}

	subject, err := store.issuer.Subject(grant.Token)
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if subject != "2" {
		t.Fatalf("expected subject 2, got %s", subject)
	}
}

func TestMockCredentialStore_ListUsers(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 seeded accounts, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID > users[i].ID {
			t.Fatalf("expected ids in order, got %s before %s", users[i-1].ID, users[i].ID)
		}
	}
}
