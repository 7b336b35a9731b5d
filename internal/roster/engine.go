package roster

import (
	"context"
	"log/slog"
)

// ConflictKind classifies why a block or day could not be staffed.
type ConflictKind string

const (
	// ConflictUnqualified means no employee is linked to the block's title.
	ConflictUnqualified ConflictKind = "unqualified"
	// ConflictFullyBusy means qualified employees exist but all are
	// unavailable or already committed that day.
	ConflictFullyBusy ConflictKind = "fully_busy"
	// ConflictDutyUncovered means no employee was free to take duty that day.
	ConflictDutyUncovered ConflictKind = "duty_uncovered"
)

// Conflict records one spot where the conflict sentinel was written.
type Conflict struct {
	Date  string
	Title string
	City  string
	Kind  ConflictKind
}

// EmployeeLoad is one line of the post-run tally.
type EmployeeLoad struct {
	EmployeeID  string
	DisplayName string
	Main        int
	Duty        int
}

// Result reports what a run changed.
type Result struct {
	// MainUpdated counts event rows whose assignee field was written,
	// including conflict markers.
	MainUpdated int
	// DutyUpdated counts rows touched by the duty pass, including
	// placeholder rows created for otherwise empty days.
	DutyUpdated int
	Conflicts   []Conflict
	// Tally holds the per-employee month load, present only for scoped runs.
	Tally []EmployeeLoad
}

// Engine produces a conflict-aware, load-balanced staffing plan for the event
// rows currently stored for a month. It runs as one synchronous batch pass;
// callers are expected to serialize concurrent runs for the same month.
type Engine struct {
	repo     Repository
	homeCity string
	logger   *slog.Logger
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithHomeCity overrides the home venue city used by the repeat-avoidance
// rule.
func WithHomeCity(city string) Option {
	return func(e *Engine) {
		if city != "" {
			e.homeCity = city
		}
	}
}

// WithLogger attaches a logger to the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine wires an engine over the given repository.
func NewEngine(repo Repository, opts ...Option) *Engine {
	e := &Engine{repo: repo, homeCity: HomeCity}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Run executes the main assignment pass and, for scoped runs, the duty
// rotation pass and the load tally. Fully assigned blocks and fully covered
// duty days are skipped, so repeating a run without data changes writes
// nothing.
func (e *Engine) Run(ctx context.Context, scope Scope) (Result, error) {
	var result Result

	var rows []EventRow
	var err error
	if scope.IsZero() {
		rows, err = e.repo.ListAllEvents(ctx)
	} else {
		rows, err = e.repo.ListEventsForMonth(ctx, scope.Year, scope.Month)
	}
	if err != nil {
		return result, err
	}

	blocks := BuildBlocks(rows)
	idx, err := buildIndex(ctx, e.repo, blocks)
	if err != nil {
		return result, err
	}

	sel := newSelector(e.repo, idx, e.homeCity)
	mainUpdated, mainConflicts, err := sel.assignBlocks(ctx, blocks)
	result.MainUpdated = mainUpdated
	result.Conflicts = mainConflicts
	if err != nil {
		return result, err
	}

	if scope.IsZero() {
		e.logger.InfoContext(ctx, "assignment run finished",
			"scope", "all", "main_updated", result.MainUpdated, "conflicts", len(result.Conflicts))
		return result, nil
	}

	duty := newDutyAssigner(e.repo, idx)
	dutyUpdated, dutyConflicts, err := duty.assignMonth(ctx, scope, rows)
	result.DutyUpdated = dutyUpdated
	result.Conflicts = append(result.Conflicts, dutyConflicts...)
	if err != nil {
		return result, err
	}

	tally, err := e.tally(ctx, scope)
	if err != nil {
		return result, err
	}
	result.Tally = tally

	e.logger.InfoContext(ctx, "assignment run finished",
		"year", scope.Year, "month", scope.Month,
		"main_updated", result.MainUpdated, "duty_updated", result.DutyUpdated,
		"conflicts", len(result.Conflicts))
	return result, nil
}

// Tally collects the (main, duty) month load for every employee with at least
// one assignment, without touching the schedule.
func (e *Engine) Tally(ctx context.Context, scope Scope) ([]EmployeeLoad, error) {
	return e.tally(ctx, scope)
}

// tally collects the (main, duty) month load for every employee with at least
// one assignment.
func (e *Engine) tally(ctx context.Context, scope Scope) ([]EmployeeLoad, error) {
	ids, err := e.repo.AllEmployeeIDs(ctx)
	if err != nil {
		return nil, err
	}

	var loads []EmployeeLoad
	for _, id := range ids {
		main, err := e.repo.CountMainAssignments(ctx, id, scope.Year, scope.Month)
		if err != nil {
			return nil, err
		}
		duty, err := e.repo.CountDutyAssignments(ctx, id, scope.Year, scope.Month)
		if err != nil {
			return nil, err
		}
		if main == 0 && duty == 0 {
			continue
		}
		name, err := e.repo.DisplayName(ctx, id)
		if err != nil {
			return nil, err
		}
		loads = append(loads, EmployeeLoad{EmployeeID: id, DisplayName: name, Main: main, Duty: duty})
	}
	return loads, nil
}
