package application

import "strings"

// Principal identifies the actor behind a request. Administrator sessions
// carry IsAdmin; self-service flows act on behalf of one employee.
type Principal struct {
	EmployeeID string
	IsAdmin    bool
}

func (p Principal) mayActFor(employeeID string) bool {
	return p.IsAdmin || (p.EmployeeID != "" && p.EmployeeID == employeeID)
}

// DisplayName derives the unique roster name from a last and first name.
func DisplayName(lastName, firstName string) string {
	return strings.TrimSpace(strings.TrimSpace(lastName) + " " + strings.TrimSpace(firstName))
}

// CreateEmployeeParams carries input for EmployeeService.CreateEmployee.
type CreateEmployeeParams struct {
	Principal  Principal
	LastName   string
	FirstName  string
	TelegramID string
}

// UpdateEmployeeParams carries input for EmployeeService.UpdateEmployee.
type UpdateEmployeeParams struct {
	Principal  Principal
	ID         string
	LastName   string
	FirstName  string
	TelegramID string
}

// CreateShowParams carries input for ShowService.CreateShow.
type CreateShowParams struct {
	Principal Principal
	Title     string
}

// RenameShowParams carries input for ShowService.RenameShow.
type RenameShowParams struct {
	Principal Principal
	ID        string
	Title     string
}

// SetQualificationsParams replaces a show's qualified employee set.
type SetQualificationsParams struct {
	Principal   Principal
	ShowID      string
	EmployeeIDs []string
}

// SubmitBusyDaysParams carries a day-list submission for one employee and
// month ("1-3,7" style input).
type SubmitBusyDaysParams struct {
	Principal  Principal
	EmployeeID string
	Year       int
	Month      int
	Days       string
}

// ImportMonthParams carries a parsed schedule for one month.
type ImportMonthParams struct {
	Principal Principal
	Year      int
	Month     int
	Events    []EventInput
}

// EventInput is one imported schedule row.
type EventInput struct {
	Date     string
	Type     string
	Title    string
	Time     string
	Location string
	City     string
	Assignee string
	Info     string
}

// RunAssignmentParams triggers an assignment run for one month.
type RunAssignmentParams struct {
	Principal Principal
	Year      int
	Month     int
}
