package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/theater-roster/internal/roster"
)

// rosterRepoFake is a minimal in-memory roster.Repository for service level
// tests; the engine's own behavior is covered in its package.
type rosterRepoFake struct {
	rows      []roster.EventRow
	employees map[string]string
	qualified map[string][]string
	busy      map[string][]string
}

func (f *rosterRepoFake) ListEventsForMonth(_ context.Context, year, month int) ([]roster.EventRow, error) {
	prefix := monthPrefix(year, month)
	var out []roster.EventRow
	for _, r := range f.rows {
		if strings.HasPrefix(r.Date, prefix) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *rosterRepoFake) ListAllEvents(_ context.Context) ([]roster.EventRow, error) {
	return append([]roster.EventRow(nil), f.rows...), nil
}

func (f *rosterRepoFake) QualifiedEmployeeIDs(_ context.Context, title string) ([]string, error) {
	return f.qualified[title], nil
}

func (f *rosterRepoFake) UnavailableDates(_ context.Context, employeeID string) ([]string, error) {
	return f.busy[employeeID], nil
}

func (f *rosterRepoFake) CountMainAssignments(_ context.Context, employeeID string, year, month int) (int, error) {
	name := f.employees[employeeID]
	prefix := monthPrefix(year, month)
	count := 0
	for _, r := range f.rows {
		if strings.HasPrefix(r.Date, prefix) && r.Assignee == name && name != "" {
			count++
		}
	}
	return count, nil
}

func (f *rosterRepoFake) CountDutyAssignments(_ context.Context, employeeID string, year, month int) (int, error) {
	name := f.employees[employeeID]
	prefix := monthPrefix(year, month)
	dates := make(map[string]struct{})
	for _, r := range f.rows {
		if strings.HasPrefix(r.Date, prefix) && r.Duty == name && name != "" {
			dates[r.Date] = struct{}{}
		}
	}
	return len(dates), nil
}

func (f *rosterRepoFake) AllEmployeeIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.employees))
	for id := range f.employees {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *rosterRepoFake) DisplayName(_ context.Context, employeeID string) (string, error) {
	return f.employees[employeeID], nil
}

func (f *rosterRepoFake) EmployeeIDByDisplayName(_ context.Context, name string) (string, bool, error) {
	for id, display := range f.employees {
		if display == name {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (f *rosterRepoFake) SetMainAssignee(_ context.Context, rowIDs []int64, value string) error {
	for i := range f.rows {
		for _, id := range rowIDs {
			if f.rows[i].ID == id {
				f.rows[i].Assignee = value
			}
		}
	}
	return nil
}

func (f *rosterRepoFake) SetDutyAssignee(_ context.Context, date, value string) (int, error) {
	touched := 0
	for i := range f.rows {
		if f.rows[i].Date == date {
			f.rows[i].Duty = value
			touched++
		}
	}
	if touched == 0 {
		f.rows = append(f.rows, roster.EventRow{ID: int64(len(f.rows) + 1), Date: date, Duty: value})
		touched = 1
	}
	return touched, nil
}

func newAssignmentFixture() *rosterRepoFake {
	return &rosterRepoFake{
		rows: []roster.EventRow{
			{ID: 1, Date: "2026-09-01", Type: "спектакль", Title: "Чайка", City: "Москва"},
			{ID: 2, Date: "2026-09-02", Type: "спектакль", Title: "Без названия", City: "Москва"},
		},
		employees: map[string]string{"e1": "Иванов Пётр", "e2": "Петрова Анна"},
		qualified: map[string][]string{"Чайка": {"e1", "e2"}},
		busy:      map[string][]string{},
	}
}

func TestAssignmentService_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		svc := NewAssignmentService(roster.NewEngine(newAssignmentFixture()), nil, nil)
		_, err := svc.Run(context.Background(), RunAssignmentParams{Year: 2026, Month: 9})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects an out-of-range month", func(t *testing.T) {
		t.Parallel()

		svc := NewAssignmentService(roster.NewEngine(newAssignmentFixture()), nil, nil)
		_, err := svc.Run(context.Background(), RunAssignmentParams{Principal: admin, Year: 2026, Month: 0})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("runs the engine and delivers the summary", func(t *testing.T) {
		t.Parallel()

		repo := newAssignmentFixture()
		notifier := &notifierStub{}
		svc := NewAssignmentService(roster.NewEngine(repo), notifier, nil)

		result, err := svc.Run(context.Background(), RunAssignmentParams{Principal: admin, Year: 2026, Month: 9})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.MainUpdated == 0 {
			t.Fatal("expected the main pass to write assignments")
		}
		if len(notifier.delivered) != 1 {
			t.Fatalf("expected one summary delivery, got %d", len(notifier.delivered))
		}
		if !strings.Contains(notifier.delivered[0], "Сентябрь 2026") {
			t.Fatalf("expected month header in summary, got %q", notifier.delivered[0])
		}
	})

	t.Run("caches the conflict list per month", func(t *testing.T) {
		t.Parallel()

		repo := newAssignmentFixture()
		svc := NewAssignmentService(roster.NewEngine(repo), nil, nil)

		if _, err := svc.Conflicts(2026, 9); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound before any run, got %v", err)
		}

		if _, err := svc.Run(context.Background(), RunAssignmentParams{Principal: admin, Year: 2026, Month: 9}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		conflicts, err := svc.Conflicts(2026, 9)
		if err != nil {
			t.Fatalf("Conflicts failed: %v", err)
		}
		found := false
		for _, c := range conflicts {
			if c.Title == "Без названия" && c.Kind == roster.ConflictUnqualified {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected an unqualified conflict for the unlinked title, got %v", conflicts)
		}
	})

	t.Run("swallows notifier failures", func(t *testing.T) {
		t.Parallel()

		repo := newAssignmentFixture()
		notifier := &notifierStub{err: errors.New("broker down")}
		svc := NewAssignmentService(roster.NewEngine(repo), notifier, nil)

		if _, err := svc.Run(context.Background(), RunAssignmentParams{Principal: admin, Year: 2026, Month: 9}); err != nil {
			t.Fatalf("expected delivery failure to be swallowed, got %v", err)
		}
	})
}

func TestAssignmentService_Summary(t *testing.T) {
	t.Parallel()

	repo := newAssignmentFixture()
	svc := NewAssignmentService(roster.NewEngine(repo), nil, nil)

	if _, err := svc.Run(context.Background(), RunAssignmentParams{Principal: admin, Year: 2026, Month: 9}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text, err := svc.Summary(context.Background(), 2026, 9)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if !strings.Contains(text, "Сентябрь 2026") {
		t.Fatalf("expected month header, got %q", text)
	}
	if !strings.Contains(text, "— 1") {
		t.Fatalf("expected a load line, got %q", text)
	}
}
