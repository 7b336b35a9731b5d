package persistence

import "time"

// Employee is a staff member who can be assigned to events.
type Employee struct {
	ID          string
	LastName    string
	FirstName   string
	DisplayName string
	TelegramID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Show is a named production or rehearsal series with a many-to-many
// qualification relation to employees.
type Show struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is one scheduled occurrence. Assignee and Duty hold employee display
// names as free text, matching the imported schedule interchange; an empty
// string means unassigned. Dates are stored as YYYY-MM-DD strings.
type Event struct {
	ID       int64
	Date     string
	Type     string
	Title    string
	Time     string
	Location string
	City     string
	Assignee string
	Duty     string
	Info     string
}

// SubmissionWindow tracks the unavailability submission period for one month.
type SubmissionWindow struct {
	Year          int
	Month         int
	OpenedAt      time.Time
	BroadcastSent bool
}

// YearMonth identifies one calendar month present in the events table.
type YearMonth struct {
	Year  int
	Month int
}

// Session is a persisted administrator session.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
