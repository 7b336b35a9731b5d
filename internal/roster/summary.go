package roster

import (
	"fmt"
	"sort"
	"strings"
)

// ruMonths holds nominative Russian month names for the summary header.
var ruMonths = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// MonthTitle renders the summary header, e.g. "Сентябрь 2026".
func MonthTitle(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%04d-%02d", year, month)
	}
	return fmt.Sprintf("%s %d", ruMonths[month-1], year)
}

// RenderSummary formats the load tally as the report text handed to the
// notifier: a month header followed by one line per employee, sorted by
// display name (surname first). Returns "" when the tally is empty.
func RenderSummary(scope Scope, tally []EmployeeLoad) string {
	if len(tally) == 0 {
		return ""
	}

	sorted := make([]EmployeeLoad, len(tally))
	copy(sorted, tally)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DisplayName != sorted[j].DisplayName {
			return sorted[i].DisplayName < sorted[j].DisplayName
		}
		return sorted[i].EmployeeID < sorted[j].EmployeeID
	})

	lines := make([]string, 0, len(sorted)+1)
	lines = append(lines, MonthTitle(scope.Year, scope.Month))
	for _, load := range sorted {
		line := fmt.Sprintf("%s — %d", load.DisplayName, load.Main)
		if load.Duty > 0 {
			line += fmt.Sprintf(" (деж. %d)", load.Duty)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
