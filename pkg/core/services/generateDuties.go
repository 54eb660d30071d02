package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/random-duties/internal/config"
	"github.com/jakechorley/random-duties/pkg/core/duties"
	"github.com/jakechorley/random-duties/pkg/db"
)

// GenerateOptions controls a GenerateDuties run
type GenerateOptions struct {
	// Week to schedule; the zero value means next week
	Week WeekKey

	// Seed fixes the random source; nil picks one and records it
	Seed *int64

	DryRun bool
	Force  bool
	Notify bool
}

// FailedEmail is a roster notification that could not be sent
type FailedEmail struct {
	Email string
	Error string
}

// GenerateResult is the outcome of GenerateDuties
type GenerateResult struct {
	Week         WeekKey
	Record       *db.HistoryRecord
	Schedule     *duties.Result
	UnderStaffed []duties.UnderStaffedDay
	DutyDates    map[string]time.Time
	Roster       string
	Saved        bool
	Notified     []string
	FailedEmails []FailedEmail
}

// GenerateDuties schedules the duties for one week.
// It loads availability, rolls the history forward from the latest earlier record, runs the
// scheduler, persists the record unless DryRun and e-mails the roster when Notify is set.
func GenerateDuties(
	ctx context.Context,
	store db.HistoryStore,
	source AvailabilitySource,
	notifier Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	opts GenerateOptions,
) (*GenerateResult, error) {
	week := opts.Week
	if week == (WeekKey{}) {
		week = NextWeek(time.Now())
	}

	seed := rand.Int64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	logger.Info("Generating duties",
		zap.String("week", week.String()),
		zap.Int64("seed", seed),
		zap.Bool("dry_run", opts.DryRun))

	if !opts.DryRun {
		if err := checkWeekFree(ctx, store, week, opts.Force, logger); err != nil {
			return nil, err
		}
	}

	sheet, err := source.LoadAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	logger.Debug("Loaded availability",
		zap.String("source", source.Describe()),
		zap.Int("employee_count", len(sheet.Table)))

	history, err := historyFor(ctx, store, week, logger)
	if err != nil {
		return nil, err
	}
	weekDays := cfg.WeekDayIndex()

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	scheduler, err := duties.NewScheduler(sheet.Table, weekDays, history, cfg.DutyConfig(), rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	schedule := scheduler.ComputeWeeklyDuties()
	if schedule.Relaxations > 0 {
		logger.Info("Relaxed the on-break list",
			zap.Int("relaxations", schedule.Relaxations),
			zap.Strings("on_break", schedule.OnBreak))
	}

	underStaffed := schedule.UnderStaffedDays(cfg.DutySize)
	for _, day := range underStaffed {
		logger.Warn("Day is under-staffed",
			zap.String("day", day.Day),
			zap.Int("assigned", day.Assigned),
			zap.Int("required", day.Required))
	}

	dates, err := DutyDates(cfg.DutyDaysRRule, week, weekDays)
	if err != nil {
		return nil, err
	}

	record := &db.HistoryRecord{
		ID:         uuid.New().String(),
		Week:       week.String(),
		Record:     duties.BuildWeeklyRecord(schedule.Assignment, history, weekDays),
		Assignment: schedule.Assignment.SortedByWeekDays(weekDays),
		Origin:     db.OriginGenerated,
		Seed:       seed,
		CreatedAt:  time.Now().UTC(),
	}

	result := &GenerateResult{
		Week:         week,
		Record:       record,
		Schedule:     schedule,
		UnderStaffed: underStaffed,
		DutyDates:    dates,
		Roster:       FormatRoster(week, record.Assignment, dates, cfg.DutySize),
	}

	if opts.DryRun {
		logger.Info("Dry run: duty record not saved", zap.String("week", record.Week))
	} else {
		if err := store.SaveRecord(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save duty record: %w", err)
		}
		result.Saved = true
		logger.Info("Duty record saved",
			zap.String("week", record.Week),
			zap.String("record_id", record.ID),
			zap.Int("assigned", len(record.OneWeekAgo)))
	}

	if opts.Notify {
		if err := notifyRoster(notifier, cfg, result, logger); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// notifyRoster e-mails the roster to every configured recipient.
// A failed send is reported in the result, not returned.
func notifyRoster(notifier Notifier, cfg *config.Config, result *GenerateResult, logger *zap.Logger) error {
	if len(cfg.Notify.Recipients) == 0 {
		logger.Warn("Notification requested but no recipients are configured")
		return nil
	}
	if notifier == nil {
		return fmt.Errorf("notification requested but no e-mail client is available")
	}

	subject := strings.TrimSpace(cfg.Notify.SubjectPrefix + " " + result.Week.String())
	for _, to := range cfg.Notify.Recipients {
		if err := notifier.SendEmail(to, subject, result.Roster); err != nil {
			logger.Warn("Failed to send roster", zap.String("email", to), zap.Error(err))
			result.FailedEmails = append(result.FailedEmails, FailedEmail{Email: to, Error: err.Error()})
			continue
		}
		logger.Debug("Roster sent", zap.String("email", to))
		result.Notified = append(result.Notified, to)
	}

	return nil
}
