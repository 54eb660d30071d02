package duties

import "fmt"

// ConfigurationError reports inputs the scheduler cannot run with.
// It is fatal for the run.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid duty configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the scheduler inputs:
//   - DutySize must be at least 1
//   - every employee needs a non-empty, unique id
//   - every WeekDayIndex column must exist in every row
func Validate(table AvailabilityTable, weekDays WeekDayIndex, cfg Config) error {
	if cfg.DutySize < 1 {
		return &ConfigurationError{
			Field:  "duty_size",
			Reason: fmt.Sprintf("must be at least 1, got %d", cfg.DutySize),
		}
	}

	seen := make(map[string]bool, len(table))
	for i, row := range table {
		if row.ID == "" {
			return &ConfigurationError{
				Field:  "availability",
				Reason: fmt.Sprintf("row %d has an empty employee id", i),
			}
		}
		if seen[row.ID] {
			return &ConfigurationError{
				Field:  "availability",
				Reason: fmt.Sprintf("employee id %q appears more than once", row.ID),
			}
		}
		seen[row.ID] = true
	}

	for _, day := range weekDays.Days() {
		column := weekDays[day]
		if column < 0 {
			return &ConfigurationError{
				Field:  "week_days",
				Reason: fmt.Sprintf("day %q has negative column %d", day, column),
			}
		}
		for _, row := range table {
			if column >= len(row.Statuses) {
				return &ConfigurationError{
					Field: "week_days",
					Reason: fmt.Sprintf("day %q uses column %d but employee %q has only %d day columns",
						day, column, row.ID, len(row.Statuses)),
				}
			}
		}
	}

	return nil
}
