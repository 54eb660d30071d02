package availability

import (
	"fmt"
	"strings"

	"github.com/jakechorley/random-duties/pkg/core/duties"
)

// Sheet is a parsed availability table together with its day column headers
type Sheet struct {
	// Columns are the header labels of the day columns (the id column is excluded),
	// so Columns[i] labels Statuses[i] of every row
	Columns []string

	// Table holds one row per employee in sheet order
	Table duties.AvailabilityTable
}

// Parse converts raw rows into a Sheet.
// The first row is the header; the first column of every other row is the employee id
// and the remaining cells are status codes. Rows with an empty id are skipped.
// Codes are trimmed and upper-cased so "a" and " A" both mean available.
// Rows shorter than the header are padded with blank (neutral) statuses.
func Parse(raw [][]string) (*Sheet, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	header := raw[0]
	if len(header) < 1 {
		return nil, fmt.Errorf("header row is empty")
	}

	columns := make([]string, 0, len(header)-1)
	for _, cell := range header[1:] {
		columns = append(columns, strings.TrimSpace(cell))
	}

	table := make(duties.AvailabilityTable, 0, len(raw)-1)
	seen := make(map[string]int)
	for i := 1; i < len(raw); i++ {
		row := raw[i]
		if len(row) == 0 {
			continue
		}

		id := strings.TrimSpace(row[0])
		// Skip empty rows (rows with no id)
		if id == "" {
			continue
		}

		if firstRow, exists := seen[id]; exists {
			return nil, fmt.Errorf("duplicate employee %q in rows %d and %d", id, firstRow+1, i+1)
		}
		seen[id] = i

		statuses := make([]duties.Status, 0, max(len(row)-1, len(columns)))
		for _, cell := range row[1:] {
			statuses = append(statuses, duties.Status(strings.ToUpper(strings.TrimSpace(cell))))
		}
		for len(statuses) < len(columns) {
			statuses = append(statuses, "")
		}

		table = append(table, duties.AvailabilityRow{ID: id, Statuses: statuses})
	}

	return &Sheet{
		Columns: columns,
		Table:   table,
	}, nil
}
