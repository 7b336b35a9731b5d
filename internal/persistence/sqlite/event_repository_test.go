package sqlite

import (
	"context"
	"testing"

	"github.com/example/theater-roster/internal/persistence"
)

func TestEventRepository_ReplaceMonth(t *testing.T) {
	pool := newTestPool(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	first := []persistence.Event{
		{Date: "2026-09-05", Type: "спектакль", Title: "Чайка", City: "Москва"},
		{Date: "2026-09-06", Type: "репетиция", Title: "Чайка", City: "Москва"},
	}
	inserted, err := repo.ReplaceMonth(ctx, 2026, 9, first)
	if err != nil || inserted != 2 {
		t.Fatalf("ReplaceMonth = (%d, %v), want 2 rows", inserted, err)
	}

	// Another month is untouched by a replace.
	if _, err := repo.ReplaceMonth(ctx, 2026, 10, []persistence.Event{
		{Date: "2026-10-01", Type: "спектакль", Title: "Буря"},
	}); err != nil {
		t.Fatalf("ReplaceMonth (october) failed: %v", err)
	}

	second := []persistence.Event{
		{Date: "2026-09-07", Type: "монтаж", Title: "Буря", City: "Тула"},
	}
	if _, err := repo.ReplaceMonth(ctx, 2026, 9, second); err != nil {
		t.Fatalf("ReplaceMonth (re-import) failed: %v", err)
	}

	september, err := repo.ListEventsForMonth(ctx, 2026, 9)
	if err != nil {
		t.Fatalf("ListEventsForMonth failed: %v", err)
	}
	if len(september) != 1 || september[0].Title != "Буря" {
		t.Errorf("september after re-import = %+v, want only the new row", september)
	}

	all, err := repo.ListAllEvents(ctx)
	if err != nil {
		t.Fatalf("ListAllEvents failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("total rows = %d, want 2 (september replaced, october kept)", len(all))
	}

	months, err := repo.ListMonths(ctx)
	if err != nil {
		t.Fatalf("ListMonths failed: %v", err)
	}
	if len(months) != 2 || months[0].Month != 10 || months[1].Month != 9 {
		t.Errorf("months = %+v, want october then september", months)
	}
}
