package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/theater-roster/internal/notify"
	"github.com/example/theater-roster/internal/roster"
)

// AssignmentService runs the staffing engine and reports its outcomes.
// Concurrent runs for the same month are serialized; different months may run
// in parallel.
type AssignmentService struct {
	engine   *roster.Engine
	notifier notify.Notifier
	logger   *slog.Logger

	mu        sync.Mutex
	monthMu   map[roster.Scope]*sync.Mutex
	conflicts map[roster.Scope][]roster.Conflict
}

// NewAssignmentService wires dependencies for assignment runs. A nil notifier
// disables summary delivery.
func NewAssignmentService(engine *roster.Engine, notifier notify.Notifier, logger *slog.Logger) *AssignmentService {
	return &AssignmentService{
		engine:    engine,
		notifier:  notifier,
		logger:    defaultLogger(logger),
		monthMu:   make(map[roster.Scope]*sync.Mutex),
		conflicts: make(map[roster.Scope][]roster.Conflict),
	}
}

func (s *AssignmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AssignmentService", operation, attrs...)
}

func (s *AssignmentService) lockScope(scope roster.Scope) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.monthMu[scope]
	if !ok {
		m = &sync.Mutex{}
		s.monthMu[scope] = m
	}
	return m
}

// Run executes the assignment engine for one month, caches the conflict list
// and hands the rendered summary to the notifier. Administrators only.
func (s *AssignmentService) Run(ctx context.Context, params RunAssignmentParams) (roster.Result, error) {
	if !params.Principal.IsAdmin {
		return roster.Result{}, ErrUnauthorized
	}
	if params.Month < 1 || params.Month > 12 {
		vErr := &ValidationError{}
		vErr.add("month", "месяц вне диапазона 1-12")
		return roster.Result{}, vErr
	}
	scope := roster.Scope{Year: params.Year, Month: params.Month}

	m := s.lockScope(scope)
	m.Lock()
	defer m.Unlock()

	logger := s.loggerWith(ctx, "Run", "year", scope.Year, "month", scope.Month)
	result, err := s.engine.Run(ctx, scope)
	if err != nil {
		logger.ErrorContext(ctx, "assignment run failed", "error", err)
		return result, fmt.Errorf("assignment run: %w", err)
	}

	s.mu.Lock()
	s.conflicts[scope] = result.Conflicts
	s.mu.Unlock()

	s.deliverSummary(ctx, scope, result)
	return result, nil
}

// deliverSummary hands the tally text to the notifier. Delivery failures are
// logged and swallowed; the run itself already succeeded.
func (s *AssignmentService) deliverSummary(ctx context.Context, scope roster.Scope, result roster.Result) {
	if s.notifier == nil {
		return
	}
	text := roster.RenderSummary(scope, result.Tally)
	if text == "" {
		return
	}
	if err := s.notifier.Deliver(ctx, text); err != nil {
		s.loggerWith(ctx, "deliverSummary").WarnContext(ctx, "summary delivery failed", "error", err)
	}
}

// Conflicts returns the conflict list cached by the most recent run for the
// month. ErrNotFound when no run has happened since startup.
func (s *AssignmentService) Conflicts(year, month int) ([]roster.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conflicts, ok := s.conflicts[roster.Scope{Year: year, Month: month}]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]roster.Conflict, len(conflicts))
	copy(out, conflicts)
	return out, nil
}

// Summary re-renders the month's load report on demand without mutating the
// schedule.
func (s *AssignmentService) Summary(ctx context.Context, year, month int) (string, error) {
	if month < 1 || month > 12 {
		vErr := &ValidationError{}
		vErr.add("month", "месяц вне диапазона 1-12")
		return "", vErr
	}
	scope := roster.Scope{Year: year, Month: month}
	tally, err := s.engine.Tally(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("tally: %w", err)
	}
	return roster.RenderSummary(scope, tally), nil
}
