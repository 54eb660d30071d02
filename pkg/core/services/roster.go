package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/random-duties/pkg/core/duties"
)

// FormatRoster renders the assignment as plain text, one line per day in assignment order.
// Days present in dates are shown with their calendar date.
func FormatRoster(week WeekKey, assignment duties.Assignment, dates map[string]time.Time, dutySize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Duty roster for week %s (from %s)\n\n", week, week.Monday().Format("Mon 02 Jan 2006"))

	width := 0
	for _, da := range assignment {
		width = max(width, len(da.Day))
	}

	for _, da := range assignment {
		date := "          "
		if d, ok := dates[da.Day]; ok {
			date = d.Format("2006-01-02")
		}

		people := strings.Join(da.EmployeeIDs, ", ")
		if len(da.EmployeeIDs) == 0 {
			people = "nobody"
		}
		if len(da.EmployeeIDs) < dutySize {
			people += fmt.Sprintf(" (short: %d of %d)", len(da.EmployeeIDs), dutySize)
		}

		fmt.Fprintf(&b, "%-*s  %s  %s\n", width, da.Day, date, people)
	}

	return b.String()
}
