package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

func staticVerifier(expected string) PasswordVerifier {
	return func(hashedPassword, password string) error {
		if hashedPassword == "hash:"+expected && password == expected {
			return nil
		}
		return ErrInvalidCredentials
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("issues sessions for the correct password", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		repo := newSessionRepositoryStub()
		svc := NewAuthService(repo, "hash:secret", staticVerifier("secret"),
			func() string { return "session-id" },
			func() string { return "session-token" },
			func() time.Time { return now }, time.Hour, nil)

		session, err := svc.Login(context.Background(), "secret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if session.Token != "session-token" {
			t.Fatalf("expected issued token, got %q", session.Token)
		}
		if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Fatalf("expected expiry one hour out, got %v", session.ExpiresAt)
		}
		if _, ok := repo.sessions["session-token"]; !ok {
			t.Fatal("expected session to be persisted")
		}
	})

	t.Run("rejects a wrong password with sentinel error", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newSessionRepositoryStub(), "hash:secret", staticVerifier("secret"), nil, nil, nil, time.Hour, nil)
		_, err := svc.Login(context.Background(), "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("boom")
		repo := newSessionRepositoryStub()
		repo.createErr = expected
		svc := NewAuthService(repo, "hash:secret", staticVerifier("secret"), nil, nil, nil, time.Hour, nil)

		_, err := svc.Login(context.Background(), "secret")
		if !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("returns an administrator principal for live sessions", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepositoryStub()
		repo.seed(persistence.Session{ID: "s1", Token: "live", ExpiresAt: now.Add(time.Minute), CreatedAt: now})
		svc := NewAuthService(repo, "", nil, nil, nil, func() time.Time { return now }, time.Hour, nil)

		principal, err := svc.ValidateSession(context.Background(), "live")
		if err != nil {
			t.Fatalf("ValidateSession failed: %v", err)
		}
		if !principal.IsAdmin {
			t.Fatal("expected administrator principal")
		}
	})

	t.Run("rejects expired sessions", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepositoryStub()
		repo.seed(persistence.Session{ID: "s1", Token: "stale", ExpiresAt: now.Add(-time.Minute), CreatedAt: now})
		svc := NewAuthService(repo, "", nil, nil, nil, func() time.Time { return now }, time.Hour, nil)

		if _, err := svc.ValidateSession(context.Background(), "stale"); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("rejects revoked sessions", func(t *testing.T) {
		t.Parallel()

		revokedAt := now.Add(-time.Second)
		repo := newSessionRepositoryStub()
		repo.seed(persistence.Session{ID: "s1", Token: "revoked", ExpiresAt: now.Add(time.Hour), CreatedAt: now, RevokedAt: &revokedAt})
		svc := NewAuthService(repo, "", nil, nil, nil, func() time.Time { return now }, time.Hour, nil)

		if _, err := svc.ValidateSession(context.Background(), "revoked"); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("treats unknown tokens as unauthorized", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newSessionRepositoryStub(), "", nil, nil, nil, func() time.Time { return now }, time.Hour, nil)
		if _, err := svc.ValidateSession(context.Background(), "missing"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Parallel()

	t.Run("marks the session revoked", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		repo := newSessionRepositoryStub()
		repo.seed(persistence.Session{ID: "s1", Token: "live", ExpiresAt: now.Add(time.Hour), CreatedAt: now})
		svc := NewAuthService(repo, "", nil, nil, nil, func() time.Time { return now }, time.Hour, nil)

		if err := svc.RevokeSession(context.Background(), "live"); err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}
		if repo.sessions["live"].RevokedAt == nil {
			t.Fatal("expected RevokedAt to be set")
		}
	})

	t.Run("reports unknown tokens as unauthorized", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newSessionRepositoryStub(), "", nil, nil, nil, nil, time.Hour, nil)
		if err := svc.RevokeSession(context.Background(), "missing"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("театр-2026", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	if err := VerifyPassword(hash, "театр-2026"); err != nil {
		t.Fatalf("expected hash to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "другое"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := VerifyPassword("not-a-hash", "x"); !errors.Is(err, ErrInvalidPasswordHash) {
		t.Fatalf("expected ErrInvalidPasswordHash, got %v", err)
	}
}
