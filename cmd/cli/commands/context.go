package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/internal/config"
	"github.com/jakechorley/random-duties/pkg/core/services"
	"github.com/jakechorley/random-duties/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Store  db.HistoryStore
	Source services.AvailabilitySource

	// Notifier is nil when no recipients are configured
	Notifier services.Notifier

	Logger *zap.Logger
	Ctx    context.Context
}

// resolveWeek parses the --week flag, defaulting to next week
func resolveWeek(flag string, now time.Time) (services.WeekKey, error) {
	if flag == "" {
		return services.NextWeek(now), nil
	}
	week, err := services.ParseWeekKey(flag)
	if err != nil {
		return services.WeekKey{}, fmt.Errorf("invalid --week: %w", err)
	}
	return week, nil
}
