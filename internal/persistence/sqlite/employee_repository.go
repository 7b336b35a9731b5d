package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	pool *ConnectionPool
}

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// CreateEmployee inserts a new employee.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" || employee.DisplayName == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO employees (id, last_name, first_name, tg_id, display, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.LastName,
		employee.FirstName,
		nullableString(employee.TelegramID),
		employee.DisplayName,
		employee.CreatedAt.Format(time.RFC3339),
		employee.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateEmployee updates an existing employee.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" || employee.DisplayName == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE employees
		SET last_name = ?, first_name = ?, tg_id = ?, display = ?, updated_at = ?
		WHERE id = ?`,
		employee.LastName,
		employee.FirstName,
		nullableString(employee.TelegramID),
		employee.DisplayName,
		time.Now().UTC().Format(time.RFC3339),
		employee.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetEmployee retrieves an employee by id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := r.pool.db.QueryRowContext(ctx, employeeSelect+` WHERE id = ?`, id)
	return scanEmployee(row)
}

// GetEmployeeByDisplayName retrieves an employee by unique display name.
func (r *EmployeeRepository) GetEmployeeByDisplayName(ctx context.Context, displayName string) (persistence.Employee, error) {
	row := r.pool.db.QueryRowContext(ctx, employeeSelect+` WHERE display = ?`, displayName)
	return scanEmployee(row)
}

// GetEmployeeByTelegramID retrieves an employee by messaging identifier.
func (r *EmployeeRepository) GetEmployeeByTelegramID(ctx context.Context, telegramID string) (persistence.Employee, error) {
	row := r.pool.db.QueryRowContext(ctx, employeeSelect+` WHERE tg_id = ?`, telegramID)
	return scanEmployee(row)
}

// ListEmployees returns all employees ordered by display name.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.pool.db.QueryContext(ctx, employeeSelect+` ORDER BY display`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployeeRows(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee. Qualification links and busy dates
// cascade via foreign keys; past events keep their free-text names.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

const employeeSelect = `SELECT id, last_name, first_name, tg_id, display, created_at, updated_at FROM employees`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row *sql.Row) (persistence.Employee, error) {
	employee, err := scanEmployeeFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, err
}

func scanEmployeeRows(rows *sql.Rows) (persistence.Employee, error) {
	return scanEmployeeFrom(rows)
}

func scanEmployeeFrom(scanner rowScanner) (persistence.Employee, error) {
	var employee persistence.Employee
	var tgID sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(&employee.ID, &employee.LastName, &employee.FirstName, &tgID, &employee.DisplayName, &createdAt, &updatedAt); err != nil {
		return persistence.Employee{}, err
	}
	if tgID.Valid {
		employee.TelegramID = &tgID.String
	}
	employee.CreatedAt = parseTimestamp(createdAt)
	employee.UpdatedAt = parseTimestamp(updatedAt)
	return employee, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil || *value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
