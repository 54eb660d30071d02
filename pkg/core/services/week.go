package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/random-duties/pkg/core/duties"
)

// WeekKey identifies an ISO 8601 week
type WeekKey struct {
	Year int
	Week int
}

// NextWeek returns the ISO week containing now + 7 days
func NextWeek(now time.Time) WeekKey {
	year, week := now.AddDate(0, 0, 7).ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// ParseWeekKey parses the "2026-W43" form produced by String
func ParseWeekKey(s string) (WeekKey, error) {
	var k WeekKey
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &k.Year, &k.Week); err != nil {
		return WeekKey{}, fmt.Errorf("invalid week %q, expected YYYY-Www: %w", s, err)
	}
	if k.String() != s {
		return WeekKey{}, fmt.Errorf("invalid week %q, expected YYYY-Www", s)
	}
	if _, week := k.Monday().ISOWeek(); week != k.Week {
		return WeekKey{}, fmt.Errorf("week %q does not exist", s)
	}
	return k, nil
}

// String formats the key as "2026-W43". The zero padding keeps keys in chronological order when sorted.
func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}

// Monday returns midnight UTC on the Monday starting the week
func (k WeekKey) Monday() time.Time {
	// January 4th is always in week 1
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1 := jan4.AddDate(0, 0, -offset)
	return week1.AddDate(0, 0, 7*(k.Week-1))
}

// DutyDates expands rruleStr over the week and maps each occurrence's weekday name to its date.
// Occurrences on weekdays not present in weekDays are dropped.
func DutyDates(rruleStr string, week WeekKey, weekDays duties.WeekDayIndex) (map[string]time.Time, error) {
	opt, err := rrule.StrToROption(rruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duty days rrule: %w", err)
	}

	monday := week.Monday()
	opt.Dtstart = monday

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build duty days rrule: %w", err)
	}

	dates := make(map[string]time.Time)
	for _, occurrence := range rule.Between(monday, monday.AddDate(0, 0, 7), true) {
		if !occurrence.Before(monday.AddDate(0, 0, 7)) {
			continue
		}
		day := occurrence.Weekday().String()
		if _, ok := weekDays[day]; ok {
			dates[day] = occurrence
		}
	}

	return dates, nil
}
