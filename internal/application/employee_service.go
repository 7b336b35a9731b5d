package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// EmployeeRepository captures the persistence interactions needed by the
// employee service.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee persistence.Employee) error
	UpdateEmployee(ctx context.Context, employee persistence.Employee) error
	GetEmployee(ctx context.Context, id string) (persistence.Employee, error)
	GetEmployeeByDisplayName(ctx context.Context, displayName string) (persistence.Employee, error)
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// EmployeeService orchestrates validation and persistence for the staff list.
type EmployeeService struct {
	employees   EmployeeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for employee operations.
func NewEmployeeService(employees EmployeeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee registers a new staff member. Administrators only.
func (s *EmployeeService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (persistence.Employee, error) {
	if !params.Principal.IsAdmin {
		return persistence.Employee{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	lastName := strings.TrimSpace(params.LastName)
	firstName := strings.TrimSpace(params.FirstName)
	if lastName == "" {
		vErr.add("last_name", "фамилия обязательна")
	}
	if firstName == "" {
		vErr.add("first_name", "имя обязательно")
	}
	if vErr.HasErrors() {
		return persistence.Employee{}, vErr
	}

	employee := persistence.Employee{
		ID:          s.idGenerator(),
		LastName:    lastName,
		FirstName:   firstName,
		DisplayName: DisplayName(lastName, firstName),
	}
	if tg := strings.TrimSpace(params.TelegramID); tg != "" {
		employee.TelegramID = &tg
	}

	logger := s.loggerWith(ctx, "CreateEmployee", "display", employee.DisplayName)
	if err := s.employees.CreateEmployee(ctx, employee); err != nil {
		if errors.Is(err, persistence.ErrConstraintViolation) {
			logger.WarnContext(ctx, "duplicate display name", "error", err)
			return persistence.Employee{}, ErrAlreadyExists
		}
		logger.ErrorContext(ctx, "failed to create employee", "error", err)
		return persistence.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	logger.InfoContext(ctx, "employee created", "employee_id", employee.ID)
	return employee, nil
}

// UpdateEmployee edits a staff member's names or messaging id. Administrators
// only.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, params UpdateEmployeeParams) (persistence.Employee, error) {
	if !params.Principal.IsAdmin {
		return persistence.Employee{}, ErrUnauthorized
	}

	existing, err := s.employees.GetEmployee(ctx, params.ID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Employee{}, ErrNotFound
		}
		return persistence.Employee{}, fmt.Errorf("load employee: %w", err)
	}

	lastName := strings.TrimSpace(params.LastName)
	firstName := strings.TrimSpace(params.FirstName)
	if lastName != "" {
		existing.LastName = lastName
	}
	if firstName != "" {
		existing.FirstName = firstName
	}
	existing.DisplayName = DisplayName(existing.LastName, existing.FirstName)
	if tg := strings.TrimSpace(params.TelegramID); tg != "" {
		existing.TelegramID = &tg
	}

	logger := s.loggerWith(ctx, "UpdateEmployee", "employee_id", params.ID)
	if err := s.employees.UpdateEmployee(ctx, existing); err != nil {
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			return persistence.Employee{}, ErrNotFound
		case errors.Is(err, persistence.ErrConstraintViolation):
			return persistence.Employee{}, ErrAlreadyExists
		}
		logger.ErrorContext(ctx, "failed to update employee", "error", err)
		return persistence.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	logger.InfoContext(ctx, "employee updated")
	return existing, nil
}

// GetEmployee loads one staff member.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	employee, err := s.employees.GetEmployee(ctx, id)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.Employee{}, ErrNotFound
	}
	return employee, err
}

// ListEmployees returns the whole staff list.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	return s.employees.ListEmployees(ctx)
}

// DeleteEmployee removes a staff member; qualification links and busy dates
// cascade away, past events keep their free-text names. Administrators only.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, principal Principal, id string) error {
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteEmployee", "employee_id", id)
	if err := s.employees.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to delete employee", "error", err)
		return fmt.Errorf("delete employee: %w", err)
	}
	logger.InfoContext(ctx, "employee deleted")
	return nil
}
