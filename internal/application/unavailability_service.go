package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

// UnavailabilityRepository captures the busy-date persistence interactions
// needed by the unavailability service.
type UnavailabilityRepository interface {
	AddBusyDates(ctx context.Context, employeeID string, dates []string) ([]string, error)
	RemoveBusyDates(ctx context.Context, employeeID string, dates []string) ([]string, error)
	ClearBusyDates(ctx context.Context, employeeID string) error
	ListBusyDates(ctx context.Context, employeeID string) ([]string, error)
}

// WindowRepository captures the submission-window persistence interactions.
type WindowRepository interface {
	EnsureWindow(ctx context.Context, year, month int, openedAt time.Time) error
	GetWindow(ctx context.Context, year, month int) (persistence.SubmissionWindow, error)
	MarkBroadcastSent(ctx context.Context, year, month int) error

	SetSubmitted(ctx context.Context, employeeID string, year, month int, at time.Time) error
	UnsetSubmitted(ctx context.Context, employeeID string, year, month int) error
	HasSubmitted(ctx context.Context, employeeID string, year, month int) (bool, error)
}

// UnavailabilityService handles busy-day submissions and the monthly
// submission windows that gate them.
type UnavailabilityService struct {
	busy    UnavailabilityRepository
	windows WindowRepository
	now     func() time.Time
	logger  *slog.Logger
}

// NewUnavailabilityService wires dependencies for submission operations.
func NewUnavailabilityService(busy UnavailabilityRepository, windows WindowRepository, now func() time.Time, logger *slog.Logger) *UnavailabilityService {
	if now == nil {
		now = time.Now
	}
	return &UnavailabilityService{
		busy:    busy,
		windows: windows,
		now:     now,
		logger:  defaultLogger(logger),
	}
}

func (s *UnavailabilityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UnavailabilityService", operation, attrs...)
}

// OpenWindow opens (or re-records) the submission window for a month.
// Administrators only.
func (s *UnavailabilityService) OpenWindow(ctx context.Context, principal Principal, year, month int) (persistence.SubmissionWindow, error) {
	if !principal.IsAdmin {
		return persistence.SubmissionWindow{}, ErrUnauthorized
	}
	if month < 1 || month > 12 {
		vErr := &ValidationError{}
		vErr.add("month", "месяц вне диапазона 1-12")
		return persistence.SubmissionWindow{}, vErr
	}

	logger := s.loggerWith(ctx, "OpenWindow", "year", year, "month", month)
	if err := s.windows.EnsureWindow(ctx, year, month, s.now()); err != nil {
		logger.ErrorContext(ctx, "failed to open window", "error", err)
		return persistence.SubmissionWindow{}, fmt.Errorf("open window: %w", err)
	}
	window, err := s.windows.GetWindow(ctx, year, month)
	if err != nil {
		return persistence.SubmissionWindow{}, fmt.Errorf("load window: %w", err)
	}
	logger.InfoContext(ctx, "submission window open")
	return window, nil
}

// GetWindow returns the submission window for a month, if opened.
func (s *UnavailabilityService) GetWindow(ctx context.Context, year, month int) (persistence.SubmissionWindow, error) {
	window, err := s.windows.GetWindow(ctx, year, month)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.SubmissionWindow{}, ErrNotFound
	}
	return window, err
}

// MarkBroadcastSent records that the request-for-availability broadcast went
// out for the month, so it is not duplicated.
func (s *UnavailabilityService) MarkBroadcastSent(ctx context.Context, year, month int) error {
	if err := s.windows.MarkBroadcastSent(ctx, year, month); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("mark broadcast: %w", err)
	}
	return nil
}

// SubmitBusyDays records an employee's unavailable days for a month from a
// human day list like "1-3,7". The window must be open; administrators may
// submit on anyone's behalf regardless of window state. Resubmission replaces
// the month's previous days.
func (s *UnavailabilityService) SubmitBusyDays(ctx context.Context, params SubmitBusyDaysParams) ([]string, error) {
	if !params.Principal.mayActFor(params.EmployeeID) {
		return nil, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "SubmitBusyDays",
		"employee_id", params.EmployeeID, "year", params.Year, "month", params.Month)

	if !params.Principal.IsAdmin {
		if _, err := s.windows.GetWindow(ctx, params.Year, params.Month); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				logger.WarnContext(ctx, "submission outside open window")
				return nil, ErrWindowClosed
			}
			return nil, fmt.Errorf("load window: %w", err)
		}
	}

	days := ParseDaysForMonth(params.Days, params.Year, params.Month)
	dates := FormatBusyDates(days, params.Year, params.Month)

	// Resubmission replaces the month: clear the previous days first.
	existing, err := s.busy.ListBusyDates(ctx, params.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("list busy dates: %w", err)
	}
	prefix := fmt.Sprintf("%04d-%02d-", params.Year, params.Month)
	var stale []string
	for _, d := range existing {
		if len(d) >= len(prefix) && d[:len(prefix)] == prefix {
			stale = append(stale, d)
		}
	}
	if len(stale) > 0 {
		if _, err := s.busy.RemoveBusyDates(ctx, params.EmployeeID, stale); err != nil {
			return nil, fmt.Errorf("clear month: %w", err)
		}
	}

	if len(dates) > 0 {
		if _, err := s.busy.AddBusyDates(ctx, params.EmployeeID, dates); err != nil {
			return nil, fmt.Errorf("add busy dates: %w", err)
		}
	}
	if err := s.windows.SetSubmitted(ctx, params.EmployeeID, params.Year, params.Month, s.now()); err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}
	logger.InfoContext(ctx, "busy days submitted", "count", len(dates))
	return dates, nil
}

// ListBusyDates returns an employee's recorded unavailable dates.
func (s *UnavailabilityService) ListBusyDates(ctx context.Context, principal Principal, employeeID string) ([]string, error) {
	if !principal.mayActFor(employeeID) {
		return nil, ErrUnauthorized
	}
	return s.busy.ListBusyDates(ctx, employeeID)
}

// ClearBusyDates removes all recorded unavailable dates for an employee and
// withdraws the month's submission marker.
func (s *UnavailabilityService) ClearBusyDates(ctx context.Context, principal Principal, employeeID string, year, month int) error {
	if !principal.mayActFor(employeeID) {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "ClearBusyDates", "employee_id", employeeID)
	if err := s.busy.ClearBusyDates(ctx, employeeID); err != nil {
		logger.ErrorContext(ctx, "failed to clear busy dates", "error", err)
		return fmt.Errorf("clear busy dates: %w", err)
	}
	if err := s.windows.UnsetSubmitted(ctx, employeeID, year, month); err != nil {
		return fmt.Errorf("withdraw submission: %w", err)
	}
	logger.InfoContext(ctx, "busy dates cleared")
	return nil
}

// HasSubmitted reports whether the employee submitted for the month.
func (s *UnavailabilityService) HasSubmitted(ctx context.Context, employeeID string, year, month int) (bool, error) {
	return s.windows.HasSubmitted(ctx, employeeID, year, month)
}
