package availability

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSource reads the availability table from a local CSV file
type CSVSource struct {
	Path string
}

// NewCSVSource creates a source for the given file
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// LoadAvailability reads and parses the CSV file
func (s *CSVSource) LoadAvailability(ctx context.Context) (*Sheet, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open availability file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Trailing empty cells are often dropped by spreadsheet exports; Parse pads them back
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read availability file: %w", err)
	}

	sheet, err := Parse(records)
	if err != nil {
		return nil, fmt.Errorf("failed to parse availability file %s: %w", s.Path, err)
	}

	return sheet, nil
}

// Describe names the source for logs
func (s *CSVSource) Describe() string {
	return "csv:" + s.Path
}
