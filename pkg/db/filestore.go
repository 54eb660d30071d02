package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	recordFilePrefix = "duties_data_"
	recordFileSuffix = ".json"
	recordFilePerms  = 0644
	recordDirPerms   = 0755
)

// FileStore keeps one JSON file per week in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted at it
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, recordDirPerms); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// GetRecords reads every week file in the directory
func (s *FileStore) GetRecords(ctx context.Context) ([]HistoryRecord, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, recordFilePrefix+"*"+recordFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list history files: %w", err)
	}

	records := make([]HistoryRecord, 0, len(matches))
	for _, path := range matches {
		record, err := readRecordFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Week < records[j].Week
	})

	return records, nil
}

// GetRecord reads the file for a week
func (s *FileStore) GetRecord(ctx context.Context, week string) (*HistoryRecord, error) {
	path := s.pathFor(week)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return readRecordFile(path)
}

// SaveRecord writes the week file, replacing it if it exists.
// The file is written to a temporary name first so a failed write never leaves a truncated record.
func (s *FileStore) SaveRecord(ctx context.Context, record *HistoryRecord) error {
	if record.Week == "" {
		return fmt.Errorf("record has no week")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	path := s.pathFor(record.Week)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, recordFilePerms); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move record file into place: %w", err)
	}

	return nil
}

func (s *FileStore) pathFor(week string) string {
	return filepath.Join(s.dir, recordFilePrefix+week+recordFileSuffix)
}

// readRecordFile loads one week file.
// Files written before the Week field existed take their week from the file name.
func readRecordFile(path string) (*HistoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var record HistoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", filepath.Base(path), err)
	}

	if record.Week == "" {
		name := filepath.Base(path)
		record.Week = strings.TrimSuffix(strings.TrimPrefix(name, recordFilePrefix), recordFileSuffix)
	}

	return &record, nil
}
