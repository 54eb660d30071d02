package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/internal/config"
	"github.com/jakechorley/random-duties/pkg/core/duties"
	"github.com/jakechorley/random-duties/pkg/db"
)

// RecordDuties stores a manually prepared assignment for week, rolling the history forward
// exactly as a generated run would. Use it when the published roster was edited by hand.
func RecordDuties(
	ctx context.Context,
	store db.HistoryStore,
	cfg *config.Config,
	logger *zap.Logger,
	week WeekKey,
	assignment duties.Assignment,
	force bool,
) (*db.HistoryRecord, error) {
	logger.Info("Recording duties", zap.String("week", week.String()), zap.Int("days", len(assignment)))

	if err := checkWeekFree(ctx, store, week, force, logger); err != nil {
		return nil, err
	}

	history, err := historyFor(ctx, store, week, logger)
	if err != nil {
		return nil, err
	}
	weekDays := cfg.WeekDayIndex()

	if err := validateAssignment(assignment, weekDays); err != nil {
		return nil, err
	}

	record := &db.HistoryRecord{
		ID:         uuid.New().String(),
		Week:       week.String(),
		Record:     duties.BuildWeeklyRecord(assignment, history, weekDays),
		Assignment: assignment.SortedByWeekDays(weekDays),
		Origin:     db.OriginManual,
		CreatedAt:  time.Now().UTC(),
	}

	if err := store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save duty record: %w", err)
	}

	logger.Info("Duty record saved",
		zap.String("week", record.Week),
		zap.String("record_id", record.ID),
		zap.Int("assigned", len(record.OneWeekAgo)))

	return record, nil
}

// validateAssignment checks that every day is a known week day listed once
// and that no employee id is blank
func validateAssignment(assignment duties.Assignment, weekDays duties.WeekDayIndex) error {
	seen := make(map[string]bool)
	for _, da := range assignment {
		if _, ok := weekDays[da.Day]; !ok {
			return fmt.Errorf("assignment day %q is not a configured week day", da.Day)
		}
		if seen[da.Day] {
			return fmt.Errorf("assignment lists day %q more than once", da.Day)
		}
		seen[da.Day] = true

		for _, id := range da.EmployeeIDs {
			if id == "" {
				return fmt.Errorf("assignment for %s has an empty employee id", da.Day)
			}
		}
	}
	return nil
}
