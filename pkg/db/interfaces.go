package db

import "context"

// HistoryStore defines the interface for duty history persistence.
// Both the file-backed db.FileStore and postgres.DB implement this interface.
type HistoryStore interface {
	// GetRecords returns every record ordered by week, oldest first
	GetRecords(ctx context.Context) ([]HistoryRecord, error)

	// GetRecord returns the record for a week, or nil if there is none
	GetRecord(ctx context.Context, week string) (*HistoryRecord, error)

	// SaveRecord inserts the record, replacing any existing record for the same week
	SaveRecord(ctx context.Context, record *HistoryRecord) error
}
