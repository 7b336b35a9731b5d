package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes CRUD operations for employees.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	GetEmployeeByDisplayName(ctx context.Context, displayName string) (Employee, error)
	GetEmployeeByTelegramID(ctx context.Context, telegramID string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	// DeleteEmployee removes the employee; qualification links and
	// unavailability records cascade with it.
	DeleteEmployee(ctx context.Context, id string) error
}

// ShowRepository stores shows and their qualification links.
type ShowRepository interface {
	CreateShow(ctx context.Context, show Show) error
	UpdateShow(ctx context.Context, show Show) error
	GetShow(ctx context.Context, id string) (Show, error)
	GetShowByTitle(ctx context.Context, title string) (Show, error)
	ListShows(ctx context.Context) ([]Show, error)
	DeleteShow(ctx context.Context, id string) error

	// SetQualifiedEmployees replaces the full qualification set of a show.
	SetQualifiedEmployees(ctx context.Context, showID string, employeeIDs []string) error
	// ToggleQualifiedEmployee flips one qualification link.
	ToggleQualifiedEmployee(ctx context.Context, showID, employeeID string) error
	// QualifiedEmployeeIDs returns the ids of employees linked to the title.
	QualifiedEmployeeIDs(ctx context.Context, title string) ([]string, error)
}

// UnavailabilityRepository stores per-employee unavailable dates.
type UnavailabilityRepository interface {
	// AddBusyDates records the dates and returns the ones actually added
	// (duplicates are ignored).
	AddBusyDates(ctx context.Context, employeeID string, dates []string) ([]string, error)
	// RemoveBusyDates removes the dates and returns the ones actually removed.
	RemoveBusyDates(ctx context.Context, employeeID string, dates []string) ([]string, error)
	ClearBusyDates(ctx context.Context, employeeID string) error
	ListBusyDates(ctx context.Context, employeeID string) ([]string, error)
	CountBusyForMonth(ctx context.Context, employeeID string, year, month int) (int, error)
}

// WindowRepository tracks submission windows and per-employee submissions.
type WindowRepository interface {
	EnsureWindow(ctx context.Context, year, month int, openedAt time.Time) error
	GetWindow(ctx context.Context, year, month int) (SubmissionWindow, error)
	MarkBroadcastSent(ctx context.Context, year, month int) error

	SetSubmitted(ctx context.Context, employeeID string, year, month int, at time.Time) error
	UnsetSubmitted(ctx context.Context, employeeID string, year, month int) error
	HasSubmitted(ctx context.Context, employeeID string, year, month int) (bool, error)
}

// EventRepository stores the imported schedule.
type EventRepository interface {
	// ReplaceMonth deletes every event of the month and inserts the given
	// rows in one transaction, returning the number inserted.
	ReplaceMonth(ctx context.Context, year, month int, events []Event) (int, error)
	ListEventsForMonth(ctx context.Context, year, month int) ([]Event, error)
	ListAllEvents(ctx context.Context) ([]Event, error)
	// ListMonths returns the distinct months present, newest first.
	ListMonths(ctx context.Context) ([]YearMonth, error)
}

// SessionRepository stores administrator session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
