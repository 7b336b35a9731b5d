package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/theater-roster/internal/persistence"
)

func TestNewEmployeeGeneratesUniqueRecords(t *testing.T) {
	a := NewEmployee()
	b := NewEmployee()
	if a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q twice", a.ID)
	}
	if a.DisplayName == b.DisplayName {
		t.Fatalf("expected unique display names, got %q twice", a.DisplayName)
	}

	named := NewEmployee(WithEmployeeName("Иванов", "Пётр"))
	if named.DisplayName != "Иванов Пётр" {
		t.Fatalf("expected override to rebuild display name, got %q", named.DisplayName)
	}
}

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("emp")
	if got := gen.Next(); got != "emp-1" {
		t.Fatalf("expected emp-1, got %q", got)
	}
	if got := gen.Next(); got != "emp-2" {
		t.Fatalf("expected emp-2, got %q", got)
	}
}

func TestClockAdvance(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected reference time, got %v", clock.Now())
	}
	updated := clock.Advance(time.Hour)
	if !updated.Equal(ReferenceTime().Add(time.Hour)) {
		t.Fatalf("advance returned %v", updated)
	}
}

func TestSQLiteHarnessRoundTrip(t *testing.T) {
	harness := NewSQLiteHarness(t)
	ctx := context.Background()

	employee := NewEmployee()
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	show := NewShow()
	if err := harness.Shows.CreateShow(ctx, show); err != nil {
		t.Fatalf("CreateShow failed: %v", err)
	}
	if err := harness.Shows.SetQualifiedEmployees(ctx, show.ID, []string{employee.ID}); err != nil {
		t.Fatalf("SetQualifiedEmployees failed: %v", err)
	}

	events := []persistence.Event{NewEvent("2026-09-01", show.Title)}
	if _, err := harness.Events.ReplaceMonth(ctx, 2026, 9, events); err != nil {
		t.Fatalf("ReplaceMonth failed: %v", err)
	}

	ids, err := harness.Assignments.QualifiedEmployeeIDs(ctx, show.Title)
	if err != nil {
		t.Fatalf("QualifiedEmployeeIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != employee.ID {
		t.Fatalf("expected qualification link through the store, got %v", ids)
	}
}
