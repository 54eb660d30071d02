package sheetsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/random-duties/pkg/core/duties"
)

type mockValuesReader struct {
	values [][]interface{}
	err    error

	gotSheetID string
	gotRange   string
}

func (m *mockValuesReader) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	m.gotSheetID = spreadsheetID
	m.gotRange = sheetRange
	return m.values, m.err
}

func TestAvailabilityTab_LoadAvailability(t *testing.T) {
	reader := &mockValuesReader{
		values: [][]interface{}{
			{"Name", "Monday", "Tuesday"},
			{"Alice", "A", "u"},
			{float64(1042), "", "A"},
			{"Bob", nil},
		},
	}

	tab := NewAvailabilityTab(reader, "sheet123", "ABI")
	sheet, err := tab.LoadAvailability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sheet123", reader.gotSheetID)
	assert.Equal(t, "ABI", reader.gotRange)
	assert.Equal(t, []string{"Monday", "Tuesday"}, sheet.Columns)
	assert.Equal(t, []string{"Alice", "1042", "Bob"}, sheet.Table.IDs())
	assert.Equal(t, []duties.Status{"A", "U"}, sheet.Table[0].Statuses)
	assert.Equal(t, []duties.Status{"", ""}, sheet.Table[2].Statuses)
	assert.Equal(t, "sheets:sheet123/ABI", tab.Describe())
}

func TestAvailabilityTab_TrailingBlankCellsAreNeutral(t *testing.T) {
	// The values API omits trailing empty cells
	reader := &mockValuesReader{
		values: [][]interface{}{
			{"Name", "Monday", "Tuesday", "Wednesday"},
			{"alice", "A", "A", "A"},
			{"bob", "A"},
		},
	}

	sheet, err := NewAvailabilityTab(reader, "sheet123", "ABI").LoadAvailability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []duties.Status{"A", "", ""}, sheet.Table[1].Statuses)
	weekDays := duties.WeekDayIndex{"Monday": 0, "Tuesday": 1, "Wednesday": 2}
	assert.NoError(t, duties.Validate(sheet.Table, weekDays, duties.Config{DutySize: 2}))
}

func TestAvailabilityTab_ReadError(t *testing.T) {
	reader := &mockValuesReader{err: errors.New("quota exceeded")}

	_, err := NewAvailabilityTab(reader, "sheet123", "ABI").LoadAvailability(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAvailabilityTab_EmptyTab(t *testing.T) {
	reader := &mockValuesReader{}

	_, err := NewAvailabilityTab(reader, "sheet123", "ABI").LoadAvailability(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse availability tab")
}

func TestToStrings(t *testing.T) {
	rows := toStrings([][]interface{}{{"a", true, 2.5, nil}, {}})

	assert.Equal(t, [][]string{{"a", "true", "2.5", ""}, {}}, rows)
}
