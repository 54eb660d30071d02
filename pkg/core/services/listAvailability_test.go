package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/random-duties/pkg/availability"
	"github.com/jakechorley/random-duties/pkg/core/duties"
)

func TestListAvailability(t *testing.T) {
	sheet, err := availability.Parse([][]string{
		{"Name", "Monday", "Tuesday"},
		{"alice", "A", "U"},
		{"bob", "-", "A"},
		{"carol", "A", ""},
	})
	require.NoError(t, err)

	cfg := testConfig(1)
	cfg.WeekDays = map[string]int{"Monday": 0, "Tuesday": 1}

	overview, err := ListAvailability(context.Background(), &mockSource{sheet: sheet}, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Same(t, sheet, overview.Sheet)
	assert.Equal(t, []DayAvailability{
		{Day: "Monday", Column: 0, Volunteers: 2, Neutral: 1, Unavailable: 0},
		{Day: "Tuesday", Column: 1, Volunteers: 1, Neutral: 1, Unavailable: 1},
	}, overview.Days)
}

func TestListAvailability_ShortRowsAndLogging(t *testing.T) {
	sheet, err := availability.Parse([][]string{
		{"Name", "Monday", "Tuesday"},
		{"alice", "A", "A"},
		{"bob", "U"},
	})
	require.NoError(t, err)

	cfg := testConfig(1)
	cfg.WeekDays = map[string]int{"Monday": 0, "Tuesday": 1}

	core, logs := observer.New(zapcore.DebugLevel)
	overview, err := ListAvailability(context.Background(), &mockSource{sheet: sheet}, cfg, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, DayAvailability{Day: "Tuesday", Column: 1, Volunteers: 1, Neutral: 1}, overview.Days[1])

	loaded := logs.FilterMessage("Availability loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, []interface{}{"alice", "bob"}, loaded[0].ContextMap()["employees"])
}

func TestListAvailability_ColumnOutOfRange(t *testing.T) {
	cfg := testConfig(1)
	cfg.WeekDays = map[string]int{"Sunday": 6}

	_, err := ListAvailability(context.Background(), &mockSource{sheet: sheetOf(duties.StatusAvailable, "a")}, cfg, zap.NewNop())

	var cfgErr *duties.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
