package duties

import "slices"

// Record is the rolling history persisted after each run and read by the next one.
// JSON keys match the week files written by earlier versions of the tool.
type Record struct {
	OneWeekAgo  []string     `json:"OneWeekAgo" yaml:"oneWeekAgo"`
	TwoWeeksAgo []string     `json:"TwoWeeksAgo" yaml:"twoWeeksAgo"`
	WeekDays    WeekDayIndex `json:"WeekDays" yaml:"weekDays"`
}

// History returns the record as scheduler input for the following week
func (r Record) History() History {
	return History{
		OneWeekAgo:  slices.Clone(r.OneWeekAgo),
		TwoWeeksAgo: slices.Clone(r.TwoWeeksAgo),
	}
}

// BuildWeeklyRecord rolls the history forward by one week.
// The assignment can be the scheduler's output or a manually edited roster.
func BuildWeeklyRecord(assignment Assignment, history History, weekDays WeekDayIndex) Record {
	twoWeeksAgo := slices.Clone(history.OneWeekAgo)
	if twoWeeksAgo == nil {
		twoWeeksAgo = []string{}
	}

	return Record{
		OneWeekAgo:  assignment.EmployeeIDs(),
		TwoWeeksAgo: twoWeeksAgo,
		WeekDays:    weekDays,
	}
}
