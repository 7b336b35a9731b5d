package roster

import (
	"context"
	"sort"
	"strings"
)

// selector runs the main assignment pass. It keeps the "last assignee per
// title at the home venue" memo for the repeat-avoidance rule; only the single
// most recent assignee is remembered, deeper rotation history is deliberately
// not tracked.
type selector struct {
	repo     Repository
	idx      *availabilityIndex
	homeCity string
	// lastHome maps title -> employee id last assigned to that title in the
	// home city during this run.
	lastHome map[string]string
}

func newSelector(repo Repository, idx *availabilityIndex, homeCity string) *selector {
	if homeCity == "" {
		homeCity = HomeCity
	}
	return &selector{
		repo:     repo,
		idx:      idx,
		homeCity: strings.ToLower(homeCity),
		lastHome: make(map[string]string),
	}
}

func (s *selector) isHomeCity(city string) bool {
	return strings.ToLower(strings.TrimSpace(city)) == s.homeCity
}

// assignBlocks walks the blocks in order and assigns or conflict-marks each
// unresolved one. It returns the number of rows written and the conflicts
// encountered.
func (s *selector) assignBlocks(ctx context.Context, blocks []Block) (int, []Conflict, error) {
	updated := 0
	var conflicts []Conflict

	for _, block := range blocks {
		if block.FullyAssigned() {
			continue
		}

		rowIDs := block.UnassignedRowIDs()
		qualified := s.idx.qualified[block.Key.Title]

		if len(qualified) == 0 {
			// Nobody is linked to the title: the block can never be
			// auto-resolved.
			if err := s.repo.SetMainAssignee(ctx, rowIDs, ConflictSentinel); err != nil {
				return updated, conflicts, err
			}
			updated += len(rowIDs)
			conflicts = append(conflicts, Conflict{
				Date:  block.Key.Date,
				Title: block.Key.Title,
				City:  block.Key.City,
				Kind:  ConflictUnqualified,
			})
			continue
		}

		candidates := make([]string, 0, len(qualified))
		for _, id := range qualified {
			if s.idx.free(id, block.Key.Date) {
				candidates = append(candidates, id)
			}
		}

		if len(candidates) == 0 {
			// Qualified employees exist but every one is unavailable or
			// already committed that day.
			if err := s.repo.SetMainAssignee(ctx, rowIDs, ConflictSentinel); err != nil {
				return updated, conflicts, err
			}
			updated += len(rowIDs)
			conflicts = append(conflicts, Conflict{
				Date:  block.Key.Date,
				Title: block.Key.Title,
				City:  block.Key.City,
				Kind:  ConflictFullyBusy,
			})
			continue
		}

		chosen, err := s.pick(ctx, block, candidates)
		if err != nil {
			return updated, conflicts, err
		}

		name, err := s.repo.DisplayName(ctx, chosen)
		if err != nil {
			return updated, conflicts, err
		}
		if err := s.repo.SetMainAssignee(ctx, rowIDs, name); err != nil {
			return updated, conflicts, err
		}
		updated += len(rowIDs)

		s.idx.markAssigned(block.Key.Date, chosen)
		s.idx.markBusy(chosen, block.Key.Date)
		if s.isHomeCity(block.Key.City) {
			s.lastHome[block.Key.Title] = chosen
		}
	}

	return updated, conflicts, nil
}

// pick ranks the candidates by their main-assignment count for the block's
// month, lowest first, with ascending employee id as the tie-break, then
// applies the home-city repeat-avoidance rule.
func (s *selector) pick(ctx context.Context, block Block, candidates []string) (string, error) {
	year, month := yearMonth(block.Key.Date)

	type scored struct {
		count int
		id    string
	}
	ranked := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		count, err := s.repo.CountMainAssignments(ctx, id, year, month)
		if err != nil {
			return "", err
		}
		ranked = append(ranked, scored{count: count, id: id})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count < ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	top := ranked[0].id
	if len(ranked) > 1 && s.isHomeCity(block.Key.City) {
		if last, ok := s.lastHome[block.Key.Title]; ok && last == top {
			return ranked[1].id, nil
		}
	}
	return top, nil
}
