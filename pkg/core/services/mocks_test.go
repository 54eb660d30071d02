package services

import (
	"context"
	"errors"
	"sort"

	"github.com/jakechorley/random-duties/internal/config"
	"github.com/jakechorley/random-duties/pkg/availability"
	"github.com/jakechorley/random-duties/pkg/core/duties"
	"github.com/jakechorley/random-duties/pkg/db"
)

// mockHistoryStore is an in-memory db.HistoryStore
type mockHistoryStore struct {
	records map[string]db.HistoryRecord
	saved   []db.HistoryRecord

	getRecordsErr error
	saveErr       error
}

func newMockStore(records ...db.HistoryRecord) *mockHistoryStore {
	m := &mockHistoryStore{records: make(map[string]db.HistoryRecord)}
	for _, r := range records {
		m.records[r.Week] = r
	}
	return m
}

func (m *mockHistoryStore) GetRecords(ctx context.Context) ([]db.HistoryRecord, error) {
	if m.getRecordsErr != nil {
		return nil, m.getRecordsErr
	}
	records := make([]db.HistoryRecord, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Week < records[j].Week })
	return records, nil
}

func (m *mockHistoryStore) GetRecord(ctx context.Context, week string) (*db.HistoryRecord, error) {
	r, ok := m.records[week]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *mockHistoryStore) SaveRecord(ctx context.Context, record *db.HistoryRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.Week] = *record
	m.saved = append(m.saved, *record)
	return nil
}

// mockSource serves a fixed availability sheet
type mockSource struct {
	sheet *availability.Sheet
	err   error
}

func (m *mockSource) LoadAvailability(ctx context.Context) (*availability.Sheet, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sheet, nil
}

func (m *mockSource) Describe() string {
	return "mock"
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// mockNotifier records sent e-mails; addresses in failFor fail
type mockNotifier struct {
	sent    []sentEmail
	failFor map[string]bool
}

func (m *mockNotifier) SendEmail(to, subject, body string) error {
	if m.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

var businessDays = map[string]int{"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3, "Friday": 4}

func testConfig(dutySize int) *config.Config {
	return &config.Config{
		DutySize:      dutySize,
		WeekDays:      businessDays,
		DutyDaysRRule: config.DefaultDutyDaysRRule,
		Notify:        config.NotifyConfig{SubjectPrefix: config.DefaultSubjectPrefix},
	}
}

// sheetOf builds a sheet with Monday..Friday columns where every employee has the same status every day
func sheetOf(status duties.Status, ids ...string) *availability.Sheet {
	sheet := &availability.Sheet{Columns: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}}
	for _, id := range ids {
		statuses := make([]duties.Status, len(sheet.Columns))
		for i := range statuses {
			statuses[i] = status
		}
		sheet.Table = append(sheet.Table, duties.AvailabilityRow{ID: id, Statuses: statuses})
	}
	return sheet
}

func int64Ptr(v int64) *int64 {
	return &v
}

func employeesOn(assignment duties.Assignment, day string) []string {
	for _, da := range assignment {
		if da.Day == day {
			return da.EmployeeIDs
		}
	}
	return nil
}
