package roster

import (
	"fmt"
	"strconv"
	"strings"
)

// ConflictSentinel is written into an assignee field when no eligible
// candidate exists. It is a terminal marker: rows carrying it are left for a
// human to resolve and are never re-attempted automatically.
const ConflictSentinel = "НАКЛАДКА!!!"

// HomeCity is the default home venue city for the repeat-avoidance rule.
const HomeCity = "Москва"

// EventType is a normalized event category.
type EventType string

const (
	// EventTypeSetup is a stage setup ("монтаж").
	EventTypeSetup EventType = "монтаж"
	// EventTypeRehearsal is a rehearsal ("репетиция").
	EventTypeRehearsal EventType = "репетиция"
	// EventTypePerformance is a performance ("спектакль").
	EventTypePerformance EventType = "спектакль"
)

// NormalizeType maps a free-text event type to its canonical category by
// prefix. Unknown and empty values count as performances.
func NormalizeType(raw string) EventType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return EventTypePerformance
	case strings.HasPrefix(s, "монтаж"):
		return EventTypeSetup
	case strings.HasPrefix(s, "репет"):
		return EventTypeRehearsal
	case strings.HasPrefix(s, "спект"):
		return EventTypePerformance
	default:
		return EventTypePerformance
	}
}

func typePriority(t EventType) int {
	switch t {
	case EventTypeSetup:
		return 0
	case EventTypeRehearsal:
		return 1
	default:
		return 2
	}
}

// EventRow is the engine's view of one persisted event row. Assignee and Duty
// hold employee display names (or the conflict sentinel) as free text.
type EventRow struct {
	ID       int64
	Date     string
	Type     string
	Title    string
	City     string
	Assignee string
	Duty     string
}

// Scope restricts a run to one calendar month. The zero value means
// "all events", in which case only the main assignment pass runs.
type Scope struct {
	Year  int
	Month int
}

// IsZero reports whether the scope selects all events.
func (s Scope) IsZero() bool { return s.Year == 0 && s.Month == 0 }

// FormatDate renders a day of the scoped month as YYYY-MM-DD.
func (s Scope) FormatDate(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, day)
}

// Days returns the number of calendar days in the scoped month.
func (s Scope) Days() int {
	switch s.Month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if s.Year%4 == 0 && (s.Year%100 != 0 || s.Year%400 == 0) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// yearMonth extracts the (year, month) of a YYYY-MM-DD date string. Malformed
// dates fall back to the epoch so a single bad row cannot abort a run.
func yearMonth(date string) (int, int) {
	if len(date) >= 7 {
		y, yErr := strconv.Atoi(date[0:4])
		m, mErr := strconv.Atoi(date[5:7])
		if yErr == nil && mErr == nil && m >= 1 && m <= 12 {
			return y, m
		}
	}
	return 1970, 1
}
