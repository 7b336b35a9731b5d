package roster

import (
	"context"
	"sort"
)

// availabilityIndex precomputes, for one run, who is qualified for which
// title, who is unavailable on which date, and who is already committed to a
// main assignment per date. The selector mutates it as blocks are assigned so
// later blocks in the same run see earlier decisions.
type availabilityIndex struct {
	repo Repository

	// qualified maps title -> employee ids, sorted ascending so tie-breaks
	// are deterministic.
	qualified map[string][]string
	// busy maps employee id -> declared-unavailable dates.
	busy map[string]map[string]struct{}
	// assigned maps date -> employee ids already holding a main assignment
	// that day.
	assigned map[string]map[string]struct{}
}

// buildIndex loads qualification and unavailability state for the titles and
// rows of the current run. Assignee names that resolve to no employee are
// ignored: a renamed or deleted employee reads as "unassigned".
func buildIndex(ctx context.Context, repo Repository, blocks []Block) (*availabilityIndex, error) {
	idx := &availabilityIndex{
		repo:      repo,
		qualified: make(map[string][]string),
		busy:      make(map[string]map[string]struct{}),
		assigned:  make(map[string]map[string]struct{}),
	}

	for _, block := range blocks {
		title := block.Key.Title
		if title == "" {
			continue
		}
		if _, ok := idx.qualified[title]; ok {
			continue
		}
		ids, err := repo.QualifiedEmployeeIDs(ctx, title)
		if err != nil {
			return nil, err
		}
		sort.Strings(ids)
		idx.qualified[title] = ids
		for _, id := range ids {
			if err := idx.loadBusy(ctx, id); err != nil {
				return nil, err
			}
		}
	}

	for _, block := range blocks {
		for _, row := range block.Rows {
			if row.Date == "" || row.Assignee == "" {
				continue
			}
			id, ok, err := repo.EmployeeIDByDisplayName(ctx, row.Assignee)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			idx.markAssigned(row.Date, id)
		}
	}

	return idx, nil
}

func (idx *availabilityIndex) loadBusy(ctx context.Context, employeeID string) error {
	if _, ok := idx.busy[employeeID]; ok {
		return nil
	}
	dates, err := idx.repo.UnavailableDates(ctx, employeeID)
	if err != nil {
		return err
	}
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	idx.busy[employeeID] = set
	return nil
}

func (idx *availabilityIndex) isBusy(employeeID, date string) bool {
	_, ok := idx.busy[employeeID][date]
	return ok
}

func (idx *availabilityIndex) isAssigned(employeeID, date string) bool {
	_, ok := idx.assigned[date][employeeID]
	return ok
}

func (idx *availabilityIndex) markAssigned(date, employeeID string) {
	set, ok := idx.assigned[date]
	if !ok {
		set = make(map[string]struct{})
		idx.assigned[date] = set
	}
	set[employeeID] = struct{}{}
}

// markBusy records an in-run assignment as an unavailability for the rest of
// the run, mirroring the one-main-assignment-per-day rule.
func (idx *availabilityIndex) markBusy(employeeID, date string) {
	set, ok := idx.busy[employeeID]
	if !ok {
		set = make(map[string]struct{})
		idx.busy[employeeID] = set
	}
	set[date] = struct{}{}
}

// free reports whether the employee can take a main assignment on the date.
func (idx *availabilityIndex) free(employeeID, date string) bool {
	return !idx.isBusy(employeeID, date) && !idx.isAssigned(employeeID, date)
}
