package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one sequential schema step. Statements run inside a single
// transaction together with the version record, so a failed step leaves the
// schema at the previous version.
type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "core roster schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS employees (
				id TEXT PRIMARY KEY,
				last_name TEXT NOT NULL,
				first_name TEXT NOT NULL,
				tg_id TEXT,
				display TEXT UNIQUE NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS shows (
				id TEXT PRIMARY KEY,
				title TEXT UNIQUE NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS show_employees (
				show_id TEXT NOT NULL,
				employee_id TEXT NOT NULL,
				UNIQUE(show_id, employee_id),
				FOREIGN KEY(show_id) REFERENCES shows(id) ON DELETE CASCADE,
				FOREIGN KEY(employee_id) REFERENCES employees(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS employee_busy (
				employee_id TEXT NOT NULL,
				date_str TEXT NOT NULL,
				UNIQUE(employee_id, date_str),
				FOREIGN KEY(employee_id) REFERENCES employees(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS submission_windows (
				year INTEGER NOT NULL,
				month INTEGER NOT NULL,
				opened_at TEXT,
				broadcast_sent INTEGER DEFAULT 0,
				PRIMARY KEY(year, month)
			)`,
			`CREATE TABLE IF NOT EXISTS user_submissions (
				employee_id TEXT NOT NULL,
				year INTEGER NOT NULL,
				month INTEGER NOT NULL,
				submitted_at TEXT NOT NULL,
				UNIQUE(employee_id, year, month),
				FOREIGN KEY(employee_id) REFERENCES employees(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				date TEXT NOT NULL,
				type TEXT,
				title TEXT,
				time TEXT,
				location TEXT,
				city TEXT,
				employee TEXT,
				duty_employee TEXT,
				info TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
		},
	},
	{
		version:     2,
		description: "admin sessions",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				token TEXT UNIQUE NOT NULL,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
		},
	},
}

// Migrate applies every pending migration in version order, tracking applied
// versions in schema_migrations.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := cp.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to read applied versions: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate versions: %w", err)
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("statement failed: %w", err)
				}
			}
			_, err := tx.Exec(
				`INSERT INTO schema_migrations(version, description, applied_at) VALUES(?, ?, ?)`,
				m.version, m.description, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
	}

	return nil
}
