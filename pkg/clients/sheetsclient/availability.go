package sheetsclient

import (
	"context"
	"fmt"

	"github.com/jakechorley/random-duties/pkg/availability"
)

// ValuesReader reads a range of cell values
type ValuesReader interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// AvailabilityTab reads the availability table from one tab of a spreadsheet.
// The tab has the same layout as the CSV file: a header row, then one row per employee.
type AvailabilityTab struct {
	reader  ValuesReader
	sheetID string
	tab     string
}

// NewAvailabilityTab creates an availability source for the given sheet tab
func NewAvailabilityTab(reader ValuesReader, sheetID, tab string) *AvailabilityTab {
	return &AvailabilityTab{reader: reader, sheetID: sheetID, tab: tab}
}

// LoadAvailability fetches and parses the whole tab
func (a *AvailabilityTab) LoadAvailability(ctx context.Context) (*availability.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, err := a.reader.GetValues(a.sheetID, a.tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read availability tab %q: %w", a.tab, err)
	}

	sheet, err := availability.Parse(toStrings(values))
	if err != nil {
		return nil, fmt.Errorf("failed to parse availability tab %q: %w", a.tab, err)
	}

	return sheet, nil
}

// Describe identifies the source in logs
func (a *AvailabilityTab) Describe() string {
	return fmt.Sprintf("sheets:%s/%s", a.sheetID, a.tab)
}

// toStrings converts API cell values, which may be strings, numbers or booleans
func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			if s, ok := cell.(string); ok {
				cells[j] = s
				continue
			}
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows
}
