package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/random-duties/pkg/db"
)

const historyColumns = `id, week, one_week_ago, two_weeks_ago, week_days, assignment, origin, seed, created_at`

// GetRecords retrieves all duty history records ordered by week
func (d *DB) GetRecords(ctx context.Context) ([]db.HistoryRecord, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+historyColumns+` FROM duty_history ORDER BY week`)
	if err != nil {
		return nil, fmt.Errorf("failed to query duty history: %w", err)
	}
	defer rows.Close()

	records := []db.HistoryRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duty history: %w", err)
	}

	return records, nil
}

// GetRecord retrieves the record for one week, or nil if there is none
func (d *DB) GetRecord(ctx context.Context, week string) (*db.HistoryRecord, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+historyColumns+` FROM duty_history WHERE week = $1`, week)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// SaveRecord upserts the record keyed by week
func (d *DB) SaveRecord(ctx context.Context, record *db.HistoryRecord) error {
	if record.Week == "" {
		return fmt.Errorf("record has no week")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	weekDays, err := json.Marshal(record.WeekDays)
	if err != nil {
		return fmt.Errorf("failed to marshal week days: %w", err)
	}
	assignment, err := json.Marshal(record.Assignment)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO duty_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $9)
		ON CONFLICT (week) DO UPDATE SET
			id = EXCLUDED.id,
			one_week_ago = EXCLUDED.one_week_ago,
			two_weeks_ago = EXCLUDED.two_weeks_ago,
			week_days = EXCLUDED.week_days,
			assignment = EXCLUDED.assignment,
			origin = EXCLUDED.origin,
			seed = EXCLUDED.seed,
			created_at = EXCLUDED.created_at
	`,
		record.ID,
		record.Week,
		nonNil(record.OneWeekAgo),
		nonNil(record.TwoWeeksAgo),
		string(weekDays),
		string(assignment),
		record.Origin,
		record.Seed,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save duty history for week %s: %w", record.Week, err)
	}

	return nil
}

func scanRecord(row pgx.Row) (*db.HistoryRecord, error) {
	var r db.HistoryRecord
	var weekDays, assignment []byte
	err := row.Scan(&r.ID, &r.Week, &r.OneWeekAgo, &r.TwoWeeksAgo, &weekDays, &assignment, &r.Origin, &r.Seed, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan duty history: %w", err)
	}

	if err := json.Unmarshal(weekDays, &r.WeekDays); err != nil {
		return nil, fmt.Errorf("failed to parse week days for week %s: %w", r.Week, err)
	}
	if err := json.Unmarshal(assignment, &r.Assignment); err != nil {
		return nil, fmt.Errorf("failed to parse assignment for week %s: %w", r.Week, err)
	}
	r.CreatedAt = r.CreatedAt.UTC()

	return &r, nil
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
