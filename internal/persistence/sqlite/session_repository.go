package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool *ConnectionPool
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession persists a new administrator session.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	session.CreatedAt = time.Now().UTC()
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO sessions(id, token, expires_at, created_at, revoked_at)
		VALUES(?, ?, ?, ?, NULL)`,
		session.ID,
		session.Token,
		session.ExpiresAt.UTC().Format(time.RFC3339),
		session.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	return session, nil
}

// GetSession retrieves a session by token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	var session persistence.Session
	var expiresAt, createdAt string
	var revokedAt sql.NullString
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, token, expires_at, created_at, revoked_at FROM sessions WHERE token = ?`, token,
	).Scan(&session.ID, &session.Token, &expiresAt, &createdAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Session{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	session.ExpiresAt = parseTimestamp(expiresAt)
	session.CreatedAt = parseTimestamp(createdAt)
	if revokedAt.Valid {
		t := parseTimestamp(revokedAt.String)
		session.RevokedAt = &t
	}
	return session, nil
}

// RevokeSession marks a session revoked and returns the updated record.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`,
		revokedAt.UTC().Format(time.RFC3339), token,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Session{}, err
	}
	if affected == 0 {
		// Either unknown or already revoked; report what is stored.
		session, getErr := r.GetSession(ctx, token)
		if getErr != nil {
			return persistence.Session{}, persistence.ErrNotFound
		}
		return session, nil
	}
	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions removes sessions expired before the reference time.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, reference.UTC().Format(time.RFC3339))
	return mapError(err)
}
