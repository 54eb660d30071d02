package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/pkg/core/duties"
	"github.com/jakechorley/random-duties/pkg/db"
)

// previousRecord returns the latest record strictly before week, or nil
func previousRecord(ctx context.Context, store db.HistoryStore, week WeekKey) (*db.HistoryRecord, error) {
	records, err := store.GetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duty history: %w", err)
	}

	target := week.String()
	var latest *db.HistoryRecord
	for i := range records {
		if records[i].Week >= target {
			continue
		}
		if latest == nil || records[i].Week > latest.Week {
			latest = &records[i]
		}
	}

	return latest, nil
}

// historyFor returns the rolling history a run for week starts from.
// Without an earlier record the history is empty.
func historyFor(ctx context.Context, store db.HistoryStore, week WeekKey, logger *zap.Logger) (duties.History, error) {
	previous, err := previousRecord(ctx, store, week)
	if err != nil {
		return duties.History{}, err
	}

	if previous == nil {
		logger.Info("No earlier duty history found, starting fresh", zap.String("week", week.String()))
		return duties.History{}, nil
	}

	logger.Debug("Using previous duty record",
		zap.String("previous_week", previous.Week),
		zap.Int("one_week_ago", len(previous.OneWeekAgo)),
		zap.Int("two_weeks_ago", len(previous.TwoWeeksAgo)))

	return previous.History(), nil
}

// checkWeekFree refuses to replace an existing record unless force is set
func checkWeekFree(ctx context.Context, store db.HistoryStore, week WeekKey, force bool, logger *zap.Logger) error {
	existing, err := store.GetRecord(ctx, week.String())
	if err != nil {
		return fmt.Errorf("failed to fetch duty record for week %s: %w", week, err)
	}
	if existing == nil {
		return nil
	}
	if !force {
		return fmt.Errorf("duties for week %s are already recorded (use --force to replace them)", week)
	}

	logger.Warn("Replacing existing duty record",
		zap.String("week", week.String()),
		zap.String("record_id", existing.ID),
		zap.String("origin", existing.Origin))
	return nil
}
