package application

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// daysInMonth returns the calendar length of a month.
func daysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// ParseDaysForMonth parses a human day list like "1-3,7,10-12" into sorted day
// numbers, clamped to the month's length. Unparseable fragments are skipped
// rather than rejected, matching the forgiving submission flow.
func ParseDaysForMonth(text string, year, month int) []int {
	s := strings.ReplaceAll(text, " ", "")
	if s == "" {
		return nil
	}
	maxDay := daysInMonth(year, month)

	seen := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, errA := strconv.Atoi(lo)
			b, errB := strconv.Atoi(hi)
			if errA != nil || errB != nil {
				continue
			}
			if a > b {
				a, b = b, a
			}
			for d := a; d <= b; d++ {
				if d >= 1 && d <= maxDay {
					seen[d] = struct{}{}
				}
			}
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if d >= 1 && d <= maxDay {
			seen[d] = struct{}{}
		}
	}

	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// FormatBusyDates renders day numbers as YYYY-MM-DD strings for storage.
func FormatBusyDates(days []int, year, month int) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, fmt.Sprintf("%04d-%02d-%02d", year, month, d))
	}
	return out
}

// NextMonth returns the month after the given date's month.
func NextMonth(from time.Time) (int, int) {
	next := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return next.Year(), int(next.Month())
}
