package sqlite

import (
	"context"
	"testing"

	"github.com/example/theater-roster/internal/persistence"
	"github.com/example/theater-roster/internal/roster"
)

func TestAssignmentStore_Counters(t *testing.T) {
	pool := newTestPool(t)
	store := NewAssignmentStore(pool)
	events := NewEventRepository(pool)
	ctx := context.Background()

	seedEmployees(t, pool, "emp1")
	name := "Сотрудник emp1"

	if _, err := events.ReplaceMonth(ctx, 2026, 9, []persistence.Event{
		{Date: "2026-09-05", Type: "спектакль", Title: "Чайка", Assignee: name},
		{Date: "2026-09-06", Type: "спектакль", Title: "Чайка", Assignee: name, Duty: name},
		{Date: "2026-09-06", Type: "монтаж", Title: "Чайка", Duty: name},
		{Date: "2026-09-07", Type: "спектакль", Title: "Чайка", Assignee: roster.ConflictSentinel},
	}); err != nil {
		t.Fatalf("ReplaceMonth failed: %v", err)
	}

	main, err := store.CountMainAssignments(ctx, "emp1", 2026, 9)
	if err != nil || main != 2 {
		t.Errorf("CountMainAssignments = (%d, %v), want 2 (sentinel rows resolve to no one)", main, err)
	}

	duty, err := store.CountDutyAssignments(ctx, "emp1", 2026, 9)
	if err != nil || duty != 1 {
		t.Errorf("CountDutyAssignments = (%d, %v), want 1 distinct day", duty, err)
	}
}

func TestAssignmentStore_NameResolution(t *testing.T) {
	pool := newTestPool(t)
	store := NewAssignmentStore(pool)
	ctx := context.Background()

	seedEmployees(t, pool, "emp1")

	id, ok, err := store.EmployeeIDByDisplayName(ctx, "Сотрудник emp1")
	if err != nil || !ok || id != "emp1" {
		t.Errorf("EmployeeIDByDisplayName = (%q, %v, %v), want emp1", id, ok, err)
	}

	_, ok, err = store.EmployeeIDByDisplayName(ctx, "Уволенный Давно")
	if err != nil || ok {
		t.Errorf("unknown name should resolve to ok=false, got (%v, %v)", ok, err)
	}
}

func TestAssignmentStore_SetDutyAssignee(t *testing.T) {
	pool := newTestPool(t)
	store := NewAssignmentStore(pool)
	events := NewEventRepository(pool)
	ctx := context.Background()

	if _, err := events.ReplaceMonth(ctx, 2026, 9, []persistence.Event{
		{Date: "2026-09-05", Type: "спектакль", Title: "Чайка"},
		{Date: "2026-09-05", Type: "монтаж", Title: "Чайка"},
	}); err != nil {
		t.Fatalf("ReplaceMonth failed: %v", err)
	}

	t.Run("updates every row of the date", func(t *testing.T) {
		touched, err := store.SetDutyAssignee(ctx, "2026-09-05", "Иванов Иван")
		if err != nil || touched != 2 {
			t.Fatalf("SetDutyAssignee = (%d, %v), want 2", touched, err)
		}
		rows, _ := store.ListEventsForMonth(ctx, 2026, 9)
		for _, row := range rows {
			if row.Date == "2026-09-05" && row.Duty != "Иванов Иван" {
				t.Errorf("row %d duty = %q", row.ID, row.Duty)
			}
		}
	})

	t.Run("creates a placeholder for an empty date", func(t *testing.T) {
		touched, err := store.SetDutyAssignee(ctx, "2026-09-06", roster.ConflictSentinel)
		if err != nil || touched != 1 {
			t.Fatalf("SetDutyAssignee = (%d, %v), want 1 placeholder", touched, err)
		}
		rows, _ := store.ListEventsForMonth(ctx, 2026, 9)
		found := false
		for _, row := range rows {
			if row.Date == "2026-09-06" {
				found = true
				if row.Duty != roster.ConflictSentinel || row.Title != "" {
					t.Errorf("placeholder row = %+v", row)
				}
			}
		}
		if !found {
			t.Error("placeholder row missing")
		}
	})
}

func TestAssignmentStore_EndToEndEngineRun(t *testing.T) {
	pool := newTestPool(t)
	store := NewAssignmentStore(pool)
	employees := NewEmployeeRepository(pool)
	shows := NewShowRepository(pool)
	busyRepo := NewUnavailabilityRepository(pool)
	events := NewEventRepository(pool)
	ctx := context.Background()

	for _, e := range []persistence.Employee{
		{ID: "emp1", LastName: "Иванов", FirstName: "Иван", DisplayName: "Иванов Иван"},
		{ID: "emp2", LastName: "Петров", FirstName: "Пётр", DisplayName: "Петров Пётр"},
	} {
		if err := employees.CreateEmployee(ctx, e); err != nil {
			t.Fatalf("CreateEmployee: %v", err)
		}
	}
	if err := shows.CreateShow(ctx, persistence.Show{ID: "show1", Title: "Чайка"}); err != nil {
		t.Fatalf("CreateShow: %v", err)
	}
	if err := shows.SetQualifiedEmployees(ctx, "show1", []string{"emp1", "emp2"}); err != nil {
		t.Fatalf("SetQualifiedEmployees: %v", err)
	}
	if _, err := busyRepo.AddBusyDates(ctx, "emp1", []string{"2026-09-05"}); err != nil {
		t.Fatalf("AddBusyDates: %v", err)
	}
	if _, err := events.ReplaceMonth(ctx, 2026, 9, []persistence.Event{
		{Date: "2026-09-05", Type: "спектакль", Title: "Чайка", City: "Москва"},
	}); err != nil {
		t.Fatalf("ReplaceMonth: %v", err)
	}

	engine := roster.NewEngine(store)
	result, err := engine.Run(ctx, roster.Scope{Year: 2026, Month: 9})
	if err != nil {
		t.Fatalf("engine.Run: %v", err)
	}
	if result.MainUpdated != 1 {
		t.Errorf("MainUpdated = %d, want 1", result.MainUpdated)
	}

	rows, err := store.ListEventsForMonth(ctx, 2026, 9)
	if err != nil {
		t.Fatalf("ListEventsForMonth: %v", err)
	}
	for _, row := range rows {
		if row.Date == "2026-09-05" && row.Title == "Чайка" {
			if row.Assignee != "Петров Пётр" {
				t.Errorf("assignee = %q, want the available Петров Пётр", row.Assignee)
			}
			// emp2 took the main slot and emp1 declared the 5th busy,
			// leaving nobody for duty.
			if row.Duty != roster.ConflictSentinel {
				t.Errorf("duty = %q, want the conflict sentinel", row.Duty)
			}
		}
	}

	// Re-run writes nothing.
	again, err := engine.Run(ctx, roster.Scope{Year: 2026, Month: 9})
	if err != nil {
		t.Fatalf("second engine.Run: %v", err)
	}
	if again.MainUpdated != 0 || again.DutyUpdated != 0 {
		t.Errorf("second run wrote main=%d duty=%d, want 0/0", again.MainUpdated, again.DutyUpdated)
	}
}
