package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// UnavailabilityRepository implements persistence.UnavailabilityRepository
// using SQLite.
type UnavailabilityRepository struct {
	pool *ConnectionPool
}

// NewUnavailabilityRepository creates a new SQLite unavailability repository.
func NewUnavailabilityRepository(pool *ConnectionPool) *UnavailabilityRepository {
	return &UnavailabilityRepository{pool: pool}
}

// AddBusyDates records the dates for the employee, skipping duplicates, and
// returns the dates actually added.
func (r *UnavailabilityRepository) AddBusyDates(ctx context.Context, employeeID string, dates []string) ([]string, error) {
	var added []string
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, date := range dates {
			result, err := tx.Exec(
				`INSERT OR IGNORE INTO employee_busy(employee_id, date_str) VALUES(?, ?)`,
				employeeID, date,
			)
			if err != nil {
				return mapError(err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected > 0 {
				added = append(added, date)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveBusyDates deletes the dates for the employee and returns the ones
// actually removed.
func (r *UnavailabilityRepository) RemoveBusyDates(ctx context.Context, employeeID string, dates []string) ([]string, error) {
	var removed []string
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, date := range dates {
			result, err := tx.Exec(
				`DELETE FROM employee_busy WHERE employee_id = ? AND date_str = ?`,
				employeeID, date,
			)
			if err != nil {
				return mapError(err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected > 0 {
				removed = append(removed, date)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ClearBusyDates removes every unavailability record of the employee.
func (r *UnavailabilityRepository) ClearBusyDates(ctx context.Context, employeeID string) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM employee_busy WHERE employee_id = ?`, employeeID)
	return mapError(err)
}

// ListBusyDates returns the employee's unavailable dates in ascending order.
func (r *UnavailabilityRepository) ListBusyDates(ctx context.Context, employeeID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT date_str FROM employee_busy WHERE employee_id = ? ORDER BY date_str`, employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// CountBusyForMonth counts the employee's unavailable dates in the month.
func (r *UnavailabilityRepository) CountBusyForMonth(ctx context.Context, employeeID string, year, month int) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM employee_busy WHERE employee_id = ? AND date_str LIKE ?`,
		employeeID, prefix+"%",
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// WindowRepository implements persistence.WindowRepository using SQLite.
type WindowRepository struct {
	pool *ConnectionPool
}

// NewWindowRepository creates a new SQLite window repository.
func NewWindowRepository(pool *ConnectionPool) *WindowRepository {
	return &WindowRepository{pool: pool}
}

// EnsureWindow opens the submission window for the month if it is not open
// already.
func (r *WindowRepository) EnsureWindow(ctx context.Context, year, month int, openedAt time.Time) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO submission_windows(year, month, opened_at) VALUES(?, ?, ?)`,
		year, month, openedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetWindow returns the submission window for the month.
func (r *WindowRepository) GetWindow(ctx context.Context, year, month int) (persistence.SubmissionWindow, error) {
	var window persistence.SubmissionWindow
	var openedAt sql.NullString
	var broadcastSent int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT year, month, opened_at, broadcast_sent FROM submission_windows WHERE year = ? AND month = ?`,
		year, month,
	).Scan(&window.Year, &window.Month, &openedAt, &broadcastSent)
	if err == sql.ErrNoRows {
		return persistence.SubmissionWindow{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.SubmissionWindow{}, mapError(err)
	}
	if openedAt.Valid {
		window.OpenedAt = parseTimestamp(openedAt.String)
	}
	window.BroadcastSent = broadcastSent != 0
	return window, nil
}

// MarkBroadcastSent flags the window's announcement as delivered.
func (r *WindowRepository) MarkBroadcastSent(ctx context.Context, year, month int) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE submission_windows SET broadcast_sent = 1 WHERE year = ? AND month = ?`,
		year, month,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// SetSubmitted records that the employee finished submitting for the month.
func (r *WindowRepository) SetSubmitted(ctx context.Context, employeeID string, year, month int, at time.Time) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_submissions(employee_id, year, month, submitted_at)
		VALUES(?, ?, ?, ?)`,
		employeeID, year, month, at.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UnsetSubmitted clears the employee's submission mark for the month.
func (r *WindowRepository) UnsetSubmitted(ctx context.Context, employeeID string, year, month int) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM user_submissions WHERE employee_id = ? AND year = ? AND month = ?`,
		employeeID, year, month,
	)
	return mapError(err)
}

// HasSubmitted reports whether the employee submitted for the month.
func (r *WindowRepository) HasSubmitted(ctx context.Context, employeeID string, year, month int) (bool, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_submissions WHERE employee_id = ? AND year = ? AND month = ?`,
		employeeID, year, month,
	).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}
