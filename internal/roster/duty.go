package roster

import (
	"context"
	"sort"
)

// dutyAssigner runs the per-day duty rotation pass. Every calendar day of the
// scoped month gets exactly one duty person, drawn from the whole staff pool
// regardless of show qualification, excluding anyone holding a main assignment
// or an unavailability record that day.
type dutyAssigner struct {
	repo Repository
	idx  *availabilityIndex
	// lastDuty is the previous day's duty employee id, used for the
	// "not the same as yesterday" tie-break.
	lastDuty string
}

func newDutyAssigner(repo Repository, idx *availabilityIndex) *dutyAssigner {
	return &dutyAssigner{repo: repo, idx: idx}
}

// assignMonth walks every day of the month in order. Days whose rows all
// carry a duty assignee already are skipped, so re-running is a no-op. It
// returns the number of rows touched and the uncovered days.
func (d *dutyAssigner) assignMonth(ctx context.Context, scope Scope, rows []EventRow) (int, []Conflict, error) {
	employees, err := d.repo.AllEmployeeIDs(ctx)
	if err != nil {
		return 0, nil, err
	}
	sort.Strings(employees)
	for _, id := range employees {
		if err := d.idx.loadBusy(ctx, id); err != nil {
			return 0, nil, err
		}
	}

	rowsByDate := make(map[string][]EventRow)
	for _, row := range rows {
		if row.Date != "" {
			rowsByDate[row.Date] = append(rowsByDate[row.Date], row)
		}
	}

	updated := 0
	var conflicts []Conflict

	for day := 1; day <= scope.Days(); day++ {
		date := scope.FormatDate(day)

		if existing, done := dutyCovered(rowsByDate[date]); done {
			// Keep the rotation memo coherent across re-runs.
			if id, ok, err := d.repo.EmployeeIDByDisplayName(ctx, existing); err != nil {
				return updated, conflicts, err
			} else if ok {
				d.lastDuty = id
			}
			continue
		}

		pool := make([]string, 0, len(employees))
		for _, id := range employees {
			if d.idx.isAssigned(id, date) || d.idx.isBusy(id, date) {
				continue
			}
			pool = append(pool, id)
		}

		if len(pool) == 0 {
			touched, err := d.repo.SetDutyAssignee(ctx, date, ConflictSentinel)
			if err != nil {
				return updated, conflicts, err
			}
			updated += touched
			conflicts = append(conflicts, Conflict{Date: date, Kind: ConflictDutyUncovered})
			d.lastDuty = ""
			continue
		}

		chosen, err := d.pick(ctx, scope, pool)
		if err != nil {
			return updated, conflicts, err
		}
		name, err := d.repo.DisplayName(ctx, chosen)
		if err != nil {
			return updated, conflicts, err
		}
		touched, err := d.repo.SetDutyAssignee(ctx, date, name)
		if err != nil {
			return updated, conflicts, err
		}
		updated += touched
		d.lastDuty = chosen
	}

	return updated, conflicts, nil
}

// pick ranks the pool by combined main+duty load for the month, lowest first
// with ascending id tie-break, then steps past yesterday's duty person when an
// alternative exists.
func (d *dutyAssigner) pick(ctx context.Context, scope Scope, pool []string) (string, error) {
	type scored struct {
		count int
		id    string
	}
	ranked := make([]scored, 0, len(pool))
	for _, id := range pool {
		main, err := d.repo.CountMainAssignments(ctx, id, scope.Year, scope.Month)
		if err != nil {
			return "", err
		}
		duty, err := d.repo.CountDutyAssignments(ctx, id, scope.Year, scope.Month)
		if err != nil {
			return "", err
		}
		ranked = append(ranked, scored{count: main + duty, id: id})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count < ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) > 1 && d.lastDuty != "" && ranked[0].id == d.lastDuty {
		return ranked[1].id, nil
	}
	return ranked[0].id, nil
}

// dutyCovered reports whether the date needs no duty write: it has at least
// one row and every row already carries a duty value. The value of the first
// row is returned for the rotation memo.
func dutyCovered(rows []EventRow) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	for _, row := range rows {
		if row.Duty == "" {
			return "", false
		}
	}
	return rows[0].Duty, true
}
