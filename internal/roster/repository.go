package roster

import "context"

// Repository is the narrow persistence contract the engine runs against.
// Event rows keep the display-name interchange of the stored schedule; the
// engine resolves names to stable employee ids immediately on read and treats
// unresolvable names as "unassigned" rather than as errors.
type Repository interface {
	// ListEventsForMonth returns every event row whose date falls in the
	// given month.
	ListEventsForMonth(ctx context.Context, year, month int) ([]EventRow, error)
	// ListAllEvents returns every stored event row.
	ListAllEvents(ctx context.Context) ([]EventRow, error)

	// QualifiedEmployeeIDs returns the ids of employees linked to a title.
	QualifiedEmployeeIDs(ctx context.Context, title string) ([]string, error)
	// UnavailableDates returns the dates an employee declared unavailable.
	UnavailableDates(ctx context.Context, employeeID string) ([]string, error)

	// CountMainAssignments counts event rows of the month whose assignee
	// resolves to the employee.
	CountMainAssignments(ctx context.Context, employeeID string, year, month int) (int, error)
	// CountDutyAssignments counts event days of the month whose duty
	// assignee resolves to the employee.
	CountDutyAssignments(ctx context.Context, employeeID string, year, month int) (int, error)

	// AllEmployeeIDs returns every employee id.
	AllEmployeeIDs(ctx context.Context) ([]string, error)
	// DisplayName returns the display name for an employee id.
	DisplayName(ctx context.Context, employeeID string) (string, error)
	// EmployeeIDByDisplayName resolves a display name to an id. The second
	// result is false when no employee carries that name.
	EmployeeIDByDisplayName(ctx context.Context, name string) (string, bool, error)

	// SetMainAssignee writes the value (a display name or the conflict
	// sentinel) into the assignee field of the given rows, atomically.
	SetMainAssignee(ctx context.Context, rowIDs []int64, value string) error
	// SetDutyAssignee writes the value into the duty field of every row on
	// the given date, creating a placeholder row when the date has none.
	// It returns the number of rows touched.
	SetDutyAssignee(ctx context.Context, date, value string) (int, error)
}
