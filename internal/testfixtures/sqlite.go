package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/theater-roster/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Employees      *sqlite.EmployeeRepository
	Shows          *sqlite.ShowRepository
	Unavailability *sqlite.UnavailabilityRepository
	Windows        *sqlite.WindowRepository
	Events         *sqlite.EventRepository
	Sessions       *sqlite.SessionRepository
	Assignments    *sqlite.AssignmentStore

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness over a temporary database file that is
// migrated automatically. Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "roster.db")
	pool, err := sqlite.NewConnectionPool(path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}
	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Employees:      sqlite.NewEmployeeRepository(pool),
		Shows:          sqlite.NewShowRepository(pool),
		Unavailability: sqlite.NewUnavailabilityRepository(pool),
		Windows:        sqlite.NewWindowRepository(pool),
		Events:         sqlite.NewEventRepository(pool),
		Sessions:       sqlite.NewSessionRepository(pool),
		Assignments:    sqlite.NewAssignmentStore(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
