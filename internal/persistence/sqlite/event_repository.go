package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/theater-roster/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite.
type EventRepository struct {
	pool *ConnectionPool
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{pool: pool}
}

// ReplaceMonth deletes every event of the month and inserts the given rows in
// one transaction, so a failed import never leaves the month half replaced.
func (r *EventRepository) ReplaceMonth(ctx context.Context, year, month int, events []persistence.Event) (int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	inserted := 0
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM events WHERE date LIKE ?`, prefix+"%"); err != nil {
			return mapError(err)
		}
		stmt, err := tx.Prepare(`
			INSERT INTO events(date, type, title, time, location, city, employee, duty_employee, info)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return mapError(err)
		}
		defer stmt.Close()

		for _, event := range events {
			if _, err := stmt.Exec(
				event.Date, event.Type, event.Title, event.Time,
				event.Location, event.City, event.Assignee, event.Duty, event.Info,
			); err != nil {
				return mapError(err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

const eventSelect = `
	SELECT id, date, COALESCE(type, ''), COALESCE(title, ''), COALESCE(time, ''),
	       COALESCE(location, ''), COALESCE(city, ''), COALESCE(employee, ''),
	       COALESCE(duty_employee, ''), COALESCE(info, '')
	FROM events`

// ListEventsForMonth returns the month's events ordered by date.
func (r *EventRepository) ListEventsForMonth(ctx context.Context, year, month int) ([]persistence.Event, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.pool.db.QueryContext(ctx, eventSelect+` WHERE date LIKE ? ORDER BY date, id`, prefix+"%")
	if err != nil {
		return nil, mapError(err)
	}
	return collectEvents(rows)
}

// ListAllEvents returns every stored event ordered by date.
func (r *EventRepository) ListAllEvents(ctx context.Context) ([]persistence.Event, error) {
	rows, err := r.pool.db.QueryContext(ctx, eventSelect+` ORDER BY date, id`)
	if err != nil {
		return nil, mapError(err)
	}
	return collectEvents(rows)
}

// ListMonths returns the distinct months present in the events table,
// newest first.
func (r *EventRepository) ListMonths(ctx context.Context) ([]persistence.YearMonth, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT DISTINCT substr(date, 1, 4), substr(date, 6, 2)
		FROM events
		WHERE length(date) >= 7
		ORDER BY 1 DESC, 2 DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var months []persistence.YearMonth
	for rows.Next() {
		var yearStr, monthStr string
		if err := rows.Scan(&yearStr, &monthStr); err != nil {
			return nil, err
		}
		var ym persistence.YearMonth
		if _, err := fmt.Sscanf(yearStr+" "+monthStr, "%d %d", &ym.Year, &ym.Month); err != nil {
			continue
		}
		if ym.Month < 1 || ym.Month > 12 {
			continue
		}
		months = append(months, ym)
	}
	return months, rows.Err()
}

func collectEvents(rows *sql.Rows) ([]persistence.Event, error) {
	defer rows.Close()
	var events []persistence.Event
	for rows.Next() {
		var event persistence.Event
		if err := rows.Scan(
			&event.ID, &event.Date, &event.Type, &event.Title, &event.Time,
			&event.Location, &event.City, &event.Assignee, &event.Duty, &event.Info,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
