package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

var (
	employeeCounter uint64
	showCounter     uint64
)

var referenceTime = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// surnames and firstNames feed the deterministic employee fixtures; the
// combinations stay unique for well over a hundred generated employees.
var surnames = []string{"Иванов", "Петров", "Сидоров", "Кузнецов", "Смирнов", "Волков", "Соколов", "Морозов"}
var firstNames = []string{"Алексей", "Борис", "Виктор", "Григорий", "Дмитрий", "Евгений", "Игорь", "Константин"}

// EmployeeOption configures a generated employee fixture.
type EmployeeOption func(*persistence.Employee)

// NewEmployee returns a deterministic employee record with optional overrides.
func NewEmployee(opts ...EmployeeOption) persistence.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	last := surnames[int(idx)%len(surnames)]
	first := firstNames[int(idx/uint64(len(surnames)))%len(firstNames)]
	employee := persistence.Employee{
		ID:          fmt.Sprintf("employee-%03d", idx),
		LastName:    last,
		FirstName:   first,
		DisplayName: fmt.Sprintf("%s %s %03d", last, first, idx),
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&employee)
	}
	return employee
}

// WithEmployeeID overrides the generated employee id.
func WithEmployeeID(id string) EmployeeOption {
	return func(e *persistence.Employee) { e.ID = id }
}

// WithEmployeeName overrides the names and display name.
func WithEmployeeName(lastName, firstName string) EmployeeOption {
	return func(e *persistence.Employee) {
		e.LastName = lastName
		e.FirstName = firstName
		e.DisplayName = lastName + " " + firstName
	}
}

// WithTelegramID attaches a messaging id to the fixture.
func WithTelegramID(id string) EmployeeOption {
	return func(e *persistence.Employee) { e.TelegramID = &id }
}

// ShowOption configures a generated show fixture.
type ShowOption func(*persistence.Show)

// NewShow returns a deterministic show record with optional overrides.
func NewShow(opts ...ShowOption) persistence.Show {
	idx := atomic.AddUint64(&showCounter, 1)
	show := persistence.Show{
		ID:        fmt.Sprintf("show-%03d", idx),
		Title:     fmt.Sprintf("Спектакль %03d", idx),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&show)
	}
	return show
}

// WithShowTitle overrides the generated title.
func WithShowTitle(title string) ShowOption {
	return func(s *persistence.Show) { s.Title = title }
}

// EventOption configures a generated event fixture.
type EventOption func(*persistence.Event)

// NewEvent returns an event row for the given date and title.
func NewEvent(date, title string, opts ...EventOption) persistence.Event {
	event := persistence.Event{
		Date:  date,
		Type:  "спектакль",
		Title: title,
		City:  "Москва",
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithEventType overrides the normalized event type.
func WithEventType(eventType string) EventOption {
	return func(e *persistence.Event) { e.Type = eventType }
}

// WithEventCity overrides the venue city.
func WithEventCity(city string) EventOption {
	return func(e *persistence.Event) { e.City = city }
}

// WithEventAssignee presets the main assignee display name.
func WithEventAssignee(name string) EventOption {
	return func(e *persistence.Event) { e.Assignee = name }
}
