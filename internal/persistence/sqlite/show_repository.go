package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// ShowRepository implements persistence.ShowRepository using SQLite.
type ShowRepository struct {
	pool *ConnectionPool
}

// NewShowRepository creates a new SQLite show repository.
func NewShowRepository(pool *ConnectionPool) *ShowRepository {
	return &ShowRepository{pool: pool}
}

// CreateShow inserts a new show.
func (r *ShowRepository) CreateShow(ctx context.Context, show persistence.Show) error {
	if show.ID == "" || show.Title == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO shows (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		show.ID, show.Title, now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateShow renames an existing show.
func (r *ShowRepository) UpdateShow(ctx context.Context, show persistence.Show) error {
	if show.ID == "" || show.Title == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE shows SET title = ?, updated_at = ? WHERE id = ?`,
		show.Title, time.Now().UTC().Format(time.RFC3339), show.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetShow retrieves a show by id.
func (r *ShowRepository) GetShow(ctx context.Context, id string) (persistence.Show, error) {
	return r.scanOne(r.pool.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM shows WHERE id = ?`, id))
}

// GetShowByTitle retrieves a show by its unique title.
func (r *ShowRepository) GetShowByTitle(ctx context.Context, title string) (persistence.Show, error) {
	return r.scanOne(r.pool.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM shows WHERE title = ?`, title))
}

// ListShows returns all shows ordered by title.
func (r *ShowRepository) ListShows(ctx context.Context) ([]persistence.Show, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM shows ORDER BY title`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var shows []persistence.Show
	for rows.Next() {
		var show persistence.Show
		var createdAt, updatedAt string
		if err := rows.Scan(&show.ID, &show.Title, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		show.CreatedAt = parseTimestamp(createdAt)
		show.UpdatedAt = parseTimestamp(updatedAt)
		shows = append(shows, show)
	}
	return shows, rows.Err()
}

// DeleteShow removes a show; its qualification links cascade.
func (r *ShowRepository) DeleteShow(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// SetQualifiedEmployees replaces the show's qualification set atomically.
func (r *ShowRepository) SetQualifiedEmployees(ctx context.Context, showID string, employeeIDs []string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM show_employees WHERE show_id = ?`, showID); err != nil {
			return mapError(err)
		}
		for _, employeeID := range employeeIDs {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO show_employees(show_id, employee_id) VALUES(?, ?)`,
				showID, employeeID,
			); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// ToggleQualifiedEmployee flips one qualification link.
func (r *ShowRepository) ToggleQualifiedEmployee(ctx context.Context, showID, employeeID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(
			`SELECT COUNT(*) FROM show_employees WHERE show_id = ? AND employee_id = ?`,
			showID, employeeID,
		).Scan(&exists)
		if err != nil {
			return mapError(err)
		}
		if exists > 0 {
			_, err = tx.Exec(
				`DELETE FROM show_employees WHERE show_id = ? AND employee_id = ?`,
				showID, employeeID,
			)
		} else {
			_, err = tx.Exec(
				`INSERT INTO show_employees(show_id, employee_id) VALUES(?, ?)`,
				showID, employeeID,
			)
		}
		return mapError(err)
	})
}

// QualifiedEmployeeIDs returns the employees linked to a title, by id.
func (r *ShowRepository) QualifiedEmployeeIDs(ctx context.Context, title string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT se.employee_id
		FROM show_employees se
		JOIN shows s ON s.id = se.show_id
		WHERE s.title = ?
		ORDER BY se.employee_id`, title)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ShowRepository) scanOne(row *sql.Row) (persistence.Show, error) {
	var show persistence.Show
	var createdAt, updatedAt string
	err := row.Scan(&show.ID, &show.Title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Show{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Show{}, err
	}
	show.CreatedAt = parseTimestamp(createdAt)
	show.UpdatedAt = parseTimestamp(updatedAt)
	return show, nil
}
