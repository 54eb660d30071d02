package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/internal/config"
	"github.com/jakechorley/random-duties/pkg/availability"
	"github.com/jakechorley/random-duties/pkg/core/duties"
)

// DayAvailability counts the statuses found in one week day column
type DayAvailability struct {
	Day         string
	Column      int
	Volunteers  int
	Neutral     int
	Unavailable int
}

// AvailabilityOverview is the parsed sheet together with per-day counts for the configured week days
type AvailabilityOverview struct {
	Sheet    *availability.Sheet
	WeekDays duties.WeekDayIndex
	Days     []DayAvailability
}

// ListAvailability loads the availability sheet and checks it against the configured week days
func ListAvailability(ctx context.Context, source AvailabilitySource, cfg *config.Config, logger *zap.Logger) (*AvailabilityOverview, error) {
	sheet, err := source.LoadAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	weekDays := cfg.WeekDayIndex()
	if err := duties.Validate(sheet.Table, weekDays, cfg.DutyConfig()); err != nil {
		return nil, err
	}

	logger.Debug("Availability loaded",
		zap.String("source", source.Describe()),
		zap.Strings("employees", sheet.Table.IDs()),
		zap.Int("column_count", len(sheet.Columns)))

	overview := &AvailabilityOverview{
		Sheet:    sheet,
		WeekDays: weekDays,
	}

	for _, day := range weekDays.Days() {
		column := weekDays[day]
		counts := DayAvailability{Day: day, Column: column}
		for _, row := range sheet.Table {
			status := row.StatusFor(column)
			switch {
			case status.IsVolunteer():
				counts.Volunteers++
			case status.IsUnavailable():
				counts.Unavailable++
			default:
				counts.Neutral++
			}
		}
		overview.Days = append(overview.Days, counts)
	}

	return overview, nil
}
