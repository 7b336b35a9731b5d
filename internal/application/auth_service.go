package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// PasswordVerifier validates a candidate password against a stored hash.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService authenticates the administrator account and manages its
// sessions. There is a single credential, provided as an argon2id hash
// through configuration.
type AuthService struct {
	sessions       persistence.SessionRepository
	adminHash      string
	verifyPassword PasswordVerifier
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService wires dependencies for authentication. Nil functional
// dependencies fall back to sensible defaults.
func NewAuthService(sessions persistence.SessionRepository, adminHash string, verifier PasswordVerifier, idGenerator, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if verifier == nil {
		verifier = VerifyPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		sessions:       sessions,
		adminHash:      adminHash,
		verifyPassword: verifier,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login checks the administrator password and issues a new session token.
func (s *AuthService) Login(ctx context.Context, password string) (session persistence.Session, err error) {
	logger := s.loggerWith(ctx, "Login")
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "login rejected", "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "administrator logged in", "session_id", session.ID)
	}()

	if err = s.verifyPassword(s.adminHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return persistence.Session{}, ErrInvalidCredentials
		}
		return persistence.Session{}, fmt.Errorf("verify password: %w", err)
	}

	now := s.now()
	session, err = s.sessions.CreateSession(ctx, persistence.Session{
		ID:        s.idGenerator(),
		Token:     s.tokenGenerator(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	})
	if err != nil {
		return persistence.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// ValidateSession resolves a bearer token to the administrator principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, fmt.Errorf("load session: %w", err)
	}
	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}
	return Principal{IsAdmin: true}, nil
}

// RevokeSession invalidates a session token. Revoking an unknown token is
// reported as unauthorized to avoid token probing.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	logger := s.loggerWith(ctx, "RevokeSession")
	if _, err := s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrUnauthorized
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err)
		return fmt.Errorf("revoke session: %w", err)
	}
	logger.InfoContext(ctx, "session revoked")
	return nil
}

// PurgeExpiredSessions removes sessions past their expiry. Called
// opportunistically by maintenance jobs.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpiredSessions(ctx, s.now())
}
