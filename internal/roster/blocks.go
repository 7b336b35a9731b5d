package roster

import (
	"sort"
	"strings"
)

// BlockKey identifies one assignment unit: every event row sharing the same
// date, normalized type, title and city belongs to the same block and must end
// up with the same assignee.
type BlockKey struct {
	Date  string
	Type  EventType
	Title string
	City  string
}

// Block is the set of event rows behind one block key.
type Block struct {
	Key  BlockKey
	Rows []EventRow
}

// FullyAssigned reports whether every row in the block already carries a
// non-empty assignee. Such blocks are skipped on re-runs.
func (b Block) FullyAssigned() bool {
	for _, row := range b.Rows {
		if row.Assignee == "" {
			return false
		}
	}
	return true
}

// UnassignedRowIDs returns the ids of rows still lacking an assignee.
func (b Block) UnassignedRowIDs() []int64 {
	var ids []int64
	for _, row := range b.Rows {
		if row.Assignee == "" {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

// BuildBlocks groups event rows into blocks and returns them in processing
// order: date ascending, then title, then type priority (setup before
// rehearsal before performance), then city. The order is total so runs are
// reproducible. Title-less rows are duty placeholders, not events, and never
// form a block.
func BuildBlocks(rows []EventRow) []Block {
	grouped := make(map[BlockKey][]EventRow)
	for _, row := range rows {
		if strings.TrimSpace(row.Title) == "" {
			continue
		}
		key := BlockKey{
			Date:  row.Date,
			Type:  NormalizeType(row.Type),
			Title: row.Title,
			City:  strings.TrimSpace(row.City),
		}
		grouped[key] = append(grouped[key], row)
	}

	blocks := make([]Block, 0, len(grouped))
	for key, blockRows := range grouped {
		blocks = append(blocks, Block{Key: key, Rows: blockRows})
	}

	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i].Key, blocks[j].Key
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if pa, pb := typePriority(a.Type), typePriority(b.Type); pa != pb {
			return pa < pb
		}
		return a.City < b.City
	})

	return blocks
}
