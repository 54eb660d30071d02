package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/pkg/db"
)

// ViewHistory returns the record for week, or every record when week is empty
func ViewHistory(ctx context.Context, store db.HistoryStore, logger *zap.Logger, week string) ([]db.HistoryRecord, error) {
	if week == "" {
		records, err := store.GetRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch duty history: %w", err)
		}
		logger.Debug("Fetched duty history", zap.Int("count", len(records)))
		return records, nil
	}

	if _, err := ParseWeekKey(week); err != nil {
		return nil, err
	}

	record, err := store.GetRecord(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duty record for week %s: %w", week, err)
	}
	if record == nil {
		return nil, fmt.Errorf("no duty record for week %s", week)
	}

	return []db.HistoryRecord{*record}, nil
}
