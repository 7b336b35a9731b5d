package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/theater-roster/internal/persistence"
	"github.com/example/theater-roster/internal/roster"
)

// EventRepository captures the schedule persistence interactions needed by
// the event service.
type EventRepository interface {
	ReplaceMonth(ctx context.Context, year, month int, events []persistence.Event) (int, error)
	ListEventsForMonth(ctx context.Context, year, month int) ([]persistence.Event, error)
	ListMonths(ctx context.Context) ([]persistence.YearMonth, error)
}

// EventService manages the imported schedule.
type EventService struct {
	events EventRepository
	logger *slog.Logger
}

// NewEventService wires dependencies for schedule operations.
func NewEventService(events EventRepository, logger *slog.Logger) *EventService {
	return &EventService{events: events, logger: defaultLogger(logger)}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// ImportMonth replaces the month's schedule with the given rows in one
// transaction. Rows outside the month or without a title are rejected.
// Administrators only.
func (s *EventService) ImportMonth(ctx context.Context, params ImportMonthParams) (int, error) {
	if !params.Principal.IsAdmin {
		return 0, ErrUnauthorized
	}
	if params.Month < 1 || params.Month > 12 {
		vErr := &ValidationError{}
		vErr.add("month", "месяц вне диапазона 1-12")
		return 0, vErr
	}

	prefix := fmt.Sprintf("%04d-%02d-", params.Year, params.Month)
	vErr := &ValidationError{}
	rows := make([]persistence.Event, 0, len(params.Events))
	for i, in := range params.Events {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			vErr.add(fmt.Sprintf("events[%d].title", i), "название обязательно")
			continue
		}
		if !strings.HasPrefix(in.Date, prefix) {
			vErr.add(fmt.Sprintf("events[%d].date", i), "дата вне импортируемого месяца")
			continue
		}
		rows = append(rows, persistence.Event{
			Date:     in.Date,
			Type:     string(roster.NormalizeType(in.Type)),
			Title:    title,
			Time:     strings.TrimSpace(in.Time),
			Location: strings.TrimSpace(in.Location),
			City:     strings.TrimSpace(in.City),
			Assignee: strings.TrimSpace(in.Assignee),
			Info:     strings.TrimSpace(in.Info),
		})
	}
	if vErr.HasErrors() {
		return 0, vErr
	}

	logger := s.loggerWith(ctx, "ImportMonth", "year", params.Year, "month", params.Month)
	inserted, err := s.events.ReplaceMonth(ctx, params.Year, params.Month, rows)
	if err != nil {
		logger.ErrorContext(ctx, "failed to import month", "error", err)
		return 0, fmt.Errorf("import month: %w", err)
	}
	logger.InfoContext(ctx, "month imported", "rows", inserted)
	return inserted, nil
}

// ListMonth returns the month's schedule ordered by date.
func (s *EventService) ListMonth(ctx context.Context, year, month int) ([]persistence.Event, error) {
	return s.events.ListEventsForMonth(ctx, year, month)
}

// ListMonths returns the distinct months present in the schedule, newest
// first.
func (s *EventService) ListMonths(ctx context.Context) ([]persistence.YearMonth, error) {
	return s.events.ListMonths(ctx)
}
