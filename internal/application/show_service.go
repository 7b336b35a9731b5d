package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/theater-roster/internal/persistence"
)

// ShowRepository captures the persistence interactions needed by the show
// service.
type ShowRepository interface {
	CreateShow(ctx context.Context, show persistence.Show) error
	UpdateShow(ctx context.Context, show persistence.Show) error
	GetShow(ctx context.Context, id string) (persistence.Show, error)
	ListShows(ctx context.Context) ([]persistence.Show, error)
	DeleteShow(ctx context.Context, id string) error

	SetQualifiedEmployees(ctx context.Context, showID string, employeeIDs []string) error
	ToggleQualifiedEmployee(ctx context.Context, showID, employeeID string) error
	QualifiedEmployeeIDs(ctx context.Context, title string) ([]string, error)
}

// ShowService manages the production catalogue and its qualification links.
type ShowService struct {
	shows       ShowRepository
	idGenerator func() string
	logger      *slog.Logger
}

// NewShowService wires dependencies for show operations.
func NewShowService(shows ShowRepository, idGenerator func() string, logger *slog.Logger) *ShowService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &ShowService{
		shows:       shows,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *ShowService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ShowService", operation, attrs...)
}

// CreateShow registers a new production. Administrators only.
func (s *ShowService) CreateShow(ctx context.Context, params CreateShowParams) (persistence.Show, error) {
	if !params.Principal.IsAdmin {
		return persistence.Show{}, ErrUnauthorized
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		vErr := &ValidationError{}
		vErr.add("title", "название обязательно")
		return persistence.Show{}, vErr
	}

	show := persistence.Show{ID: s.idGenerator(), Title: title}
	logger := s.loggerWith(ctx, "CreateShow", "title", title)
	if err := s.shows.CreateShow(ctx, show); err != nil {
		if errors.Is(err, persistence.ErrConstraintViolation) {
			return persistence.Show{}, ErrAlreadyExists
		}
		logger.ErrorContext(ctx, "failed to create show", "error", err)
		return persistence.Show{}, fmt.Errorf("create show: %w", err)
	}
	logger.InfoContext(ctx, "show created", "show_id", show.ID)
	return show, nil
}

// RenameShow changes a show's title. Qualification links follow the show row,
// so they survive the rename. Administrators only.
func (s *ShowService) RenameShow(ctx context.Context, params RenameShowParams) (persistence.Show, error) {
	if !params.Principal.IsAdmin {
		return persistence.Show{}, ErrUnauthorized
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		vErr := &ValidationError{}
		vErr.add("title", "название обязательно")
		return persistence.Show{}, vErr
	}

	show, err := s.shows.GetShow(ctx, params.ID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Show{}, ErrNotFound
		}
		return persistence.Show{}, fmt.Errorf("load show: %w", err)
	}
	show.Title = title

	logger := s.loggerWith(ctx, "RenameShow", "show_id", params.ID)
	if err := s.shows.UpdateShow(ctx, show); err != nil {
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			return persistence.Show{}, ErrNotFound
		case errors.Is(err, persistence.ErrConstraintViolation):
			return persistence.Show{}, ErrAlreadyExists
		}
		logger.ErrorContext(ctx, "failed to rename show", "error", err)
		return persistence.Show{}, fmt.Errorf("rename show: %w", err)
	}
	logger.InfoContext(ctx, "show renamed", "title", title)
	return show, nil
}

// ListShows returns the production catalogue.
func (s *ShowService) ListShows(ctx context.Context) ([]persistence.Show, error) {
	return s.shows.ListShows(ctx)
}

// DeleteShow removes a production and its qualification links. Administrators
// only.
func (s *ShowService) DeleteShow(ctx context.Context, principal Principal, id string) error {
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteShow", "show_id", id)
	if err := s.shows.DeleteShow(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to delete show", "error", err)
		return fmt.Errorf("delete show: %w", err)
	}
	logger.InfoContext(ctx, "show deleted")
	return nil
}

// SetQualifications replaces the full qualified-employee set of a show.
// Administrators only.
func (s *ShowService) SetQualifications(ctx context.Context, params SetQualificationsParams) error {
	if !params.Principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "SetQualifications", "show_id", params.ShowID)
	if err := s.shows.SetQualifiedEmployees(ctx, params.ShowID, params.EmployeeIDs); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to set qualifications", "error", err)
		return fmt.Errorf("set qualifications: %w", err)
	}
	logger.InfoContext(ctx, "qualifications replaced", "count", len(params.EmployeeIDs))
	return nil
}

// ToggleQualification flips a single qualification link. Administrators only.
func (s *ShowService) ToggleQualification(ctx context.Context, principal Principal, showID, employeeID string) error {
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "ToggleQualification", "show_id", showID, "employee_id", employeeID)
	if err := s.shows.ToggleQualifiedEmployee(ctx, showID, employeeID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to toggle qualification", "error", err)
		return fmt.Errorf("toggle qualification: %w", err)
	}
	return nil
}

// QualifiedEmployeeIDs lists employees qualified for the titled show.
func (s *ShowService) QualifiedEmployeeIDs(ctx context.Context, title string) ([]string, error) {
	return s.shows.QualifiedEmployeeIDs(ctx, title)
}
