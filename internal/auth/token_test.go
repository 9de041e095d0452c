package auth

import (
	"testing"
	"time"
)

func TestTokenIssuer_IssueAndSubject(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret", 45*time.Minute, func() time.Time { return now })

	grant, err := issuer.Issue("user-7")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if grant.ExpiresIn != 45*time.Minute {
		t.Fatalf("expected 45m validity, got %v", grant.ExpiresIn)
	}

	subject, err := issuer.Subject(grant.Token)
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if subject != "user-7" {
		t.Fatalf("expected subject user-7, got %s", subject)
	}
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret-a", time.Hour, nil)
	other := NewTokenIssuer("secret-b", time.Hour, nil)

	grant, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := issuer.Subject(grant.Token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret", time.Minute, func() time.Time { return current })

	grant, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := issuer.Subject(grant.Token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewTokenIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", 0, nil)
	if issuer.TTL() != time.Hour {
		t.Fatalf("expected one hour default, got %v", issuer.TTL())
	}
}
