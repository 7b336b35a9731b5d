package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/theater-roster/internal/roster"
)

// AssignmentStore implements the assignment engine's repository contract
// (roster.Repository) over the same connection pool as the CRUD repositories.
type AssignmentStore struct {
	pool *ConnectionPool
}

// NewAssignmentStore creates the engine-facing store.
func NewAssignmentStore(pool *ConnectionPool) *AssignmentStore {
	return &AssignmentStore{pool: pool}
}

const assignmentRowSelect = `
	SELECT id, date, COALESCE(type, ''), COALESCE(title, ''), COALESCE(city, ''),
	       COALESCE(employee, ''), COALESCE(duty_employee, '')
	FROM events`

// ListEventsForMonth returns the engine's view of the month's rows.
func (s *AssignmentStore) ListEventsForMonth(ctx context.Context, year, month int) ([]roster.EventRow, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := s.pool.db.QueryContext(ctx, assignmentRowSelect+` WHERE date LIKE ? ORDER BY date, id`, prefix+"%")
	if err != nil {
		return nil, mapError(err)
	}
	return collectAssignmentRows(rows)
}

// ListAllEvents returns every stored row.
func (s *AssignmentStore) ListAllEvents(ctx context.Context) ([]roster.EventRow, error) {
	rows, err := s.pool.db.QueryContext(ctx, assignmentRowSelect+` ORDER BY date, id`)
	if err != nil {
		return nil, mapError(err)
	}
	return collectAssignmentRows(rows)
}

// QualifiedEmployeeIDs returns the employees linked to the title.
func (s *AssignmentStore) QualifiedEmployeeIDs(ctx context.Context, title string) ([]string, error) {
	rows, err := s.pool.db.QueryContext(ctx, `
		SELECT se.employee_id
		FROM show_employees se
		JOIN shows sh ON sh.id = se.show_id
		WHERE sh.title = ?
		ORDER BY se.employee_id`, title)
	if err != nil {
		return nil, mapError(err)
	}
	return collectStrings(rows)
}

// UnavailableDates returns the employee's declared busy dates.
func (s *AssignmentStore) UnavailableDates(ctx context.Context, employeeID string) ([]string, error) {
	rows, err := s.pool.db.QueryContext(ctx,
		`SELECT date_str FROM employee_busy WHERE employee_id = ? ORDER BY date_str`, employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	return collectStrings(rows)
}

// CountMainAssignments counts the month's rows whose assignee name resolves
// to the employee. The join on display name mirrors the free-text interchange
// of the stored schedule.
func (s *AssignmentStore) CountMainAssignments(ctx context.Context, employeeID string, year, month int) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var count int
	err := s.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM events ev
		JOIN employees e ON e.display = ev.employee
		WHERE e.id = ? AND ev.date LIKE ?`,
		employeeID, prefix+"%",
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// CountDutyAssignments counts the month's distinct days on duty for the
// employee.
func (s *AssignmentStore) CountDutyAssignments(ctx context.Context, employeeID string, year, month int) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var count int
	err := s.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT ev.date)
		FROM events ev
		JOIN employees e ON e.display = ev.duty_employee
		WHERE e.id = ? AND ev.date LIKE ?`,
		employeeID, prefix+"%",
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// AllEmployeeIDs returns every employee id.
func (s *AssignmentStore) AllEmployeeIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.db.QueryContext(ctx, `SELECT id FROM employees ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	return collectStrings(rows)
}

// DisplayName returns the display name for an employee id.
func (s *AssignmentStore) DisplayName(ctx context.Context, employeeID string) (string, error) {
	var name string
	err := s.pool.db.QueryRowContext(ctx,
		`SELECT display FROM employees WHERE id = ?`, employeeID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("unknown employee %s", employeeID)
	}
	if err != nil {
		return "", mapError(err)
	}
	return name, nil
}

// EmployeeIDByDisplayName resolves a display name back to an id. Unknown
// names report ok=false so renamed employees read as unassigned.
func (s *AssignmentStore) EmployeeIDByDisplayName(ctx context.Context, name string) (string, bool, error) {
	var id string
	err := s.pool.db.QueryRowContext(ctx,
		`SELECT id FROM employees WHERE display = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapError(err)
	}
	return id, true, nil
}

// SetMainAssignee writes the value into the assignee field of the given rows
// in one transaction.
func (s *AssignmentStore) SetMainAssignee(ctx context.Context, rowIDs []int64, value string) error {
	if len(rowIDs) == 0 {
		return nil
	}
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, id := range rowIDs {
			if _, err := tx.Exec(`UPDATE events SET employee = ? WHERE id = ?`, value, id); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// SetDutyAssignee writes the value into the duty field of every row on the
// date. A placeholder row is created when the date has no rows, so the day
// still shows up in the schedule. Returns the number of rows touched.
func (s *AssignmentStore) SetDutyAssignee(ctx context.Context, date, value string) (int, error) {
	touched := 0
	err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`UPDATE events SET duty_employee = ? WHERE date = ?`, value, date)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := tx.Exec(`
				INSERT INTO events(date, type, title, time, location, city, employee, duty_employee, info)
				VALUES(?, '', '', '', '', '', '', ?, '')`, date, value); err != nil {
				return mapError(err)
			}
			affected = 1
		}
		touched = int(affected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

func collectAssignmentRows(rows *sql.Rows) ([]roster.EventRow, error) {
	defer rows.Close()
	var out []roster.EventRow
	for rows.Next() {
		var row roster.EventRow
		if err := rows.Scan(&row.ID, &row.Date, &row.Type, &row.Title, &row.City, &row.Assignee, &row.Duty); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}
