package duties

import (
	"slices"
	"sort"
)

// Status is an availability code for one employee on one day
type Status string

// Availability codes. Any other value is neutral: available but not volunteering.
const (
	StatusAvailable   Status = "A"
	StatusUnavailable Status = "U"
)

// IsVolunteer returns true if the employee asked to be on duty
func (s Status) IsVolunteer() bool {
	return s == StatusAvailable
}

// IsUnavailable returns true if the employee must not be assigned
func (s Status) IsUnavailable() bool {
	return s == StatusUnavailable
}

// AvailabilityRow holds one employee's status for every day column
type AvailabilityRow struct {
	// ID uniquely identifies the employee (usually their name)
	ID string

	// Statuses is the per-day column sequence, indexed by WeekDayIndex
	Statuses []Status
}

// StatusFor returns the status in the given column
// Callers are expected to have validated the column against the row (see NewScheduler)
func (r AvailabilityRow) StatusFor(column int) Status {
	return r.Statuses[column]
}

// AvailabilityTable is the ordered list of employee rows.
// Row order is the base order of every candidate list built from it.
type AvailabilityTable []AvailabilityRow

// IDs returns the employee ids in table order
func (t AvailabilityTable) IDs() []string {
	ids := make([]string, 0, len(t))
	for _, row := range t {
		ids = append(ids, row.ID)
	}
	return ids
}

// WeekDayIndex maps a scheduled day name to its column in AvailabilityRow.Statuses
type WeekDayIndex map[string]int

// Days returns the day names ordered by column, then by name.
// Map iteration order is random in Go, so every ordered walk goes through here.
func (w WeekDayIndex) Days() []string {
	days := make([]string, 0, len(w))
	for day := range w {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		if w[days[i]] != w[days[j]] {
			return w[days[i]] < w[days[j]]
		}
		return days[i] < days[j]
	})
	return days
}

// Clone returns a copy of the index
func (w WeekDayIndex) Clone() WeekDayIndex {
	if w == nil {
		return WeekDayIndex{}
	}
	clone := make(WeekDayIndex, len(w))
	for day, column := range w {
		clone[day] = column
	}
	return clone
}

// History lists who was on duty in the previous two weeks.
// It is only a hint for avoiding recently scheduled people, never a hard constraint.
type History struct {
	OneWeekAgo  []string
	TwoWeeksAgo []string
}

// Config holds the scheduling parameters
type Config struct {
	// DutySize is the number of people required per day
	DutySize int
}

// DayAssignment is the list of employees on duty for one day
type DayAssignment struct {
	Day         string   `yaml:"day" json:"day"`
	EmployeeIDs []string `yaml:"employees" json:"employees"`
}

// Assignment is the roster for the week.
// Entries keep the order in which days were processed, which is random (see SelectVolunteersForWeek).
type Assignment []DayAssignment

// Days returns the day names in assignment order
func (a Assignment) Days() []string {
	days := make([]string, 0, len(a))
	for _, da := range a {
		days = append(days, da.Day)
	}
	return days
}

// EmployeeIDs flattens the assignment in order. Duplicates are kept.
func (a Assignment) EmployeeIDs() []string {
	ids := make([]string, 0)
	for _, da := range a {
		ids = append(ids, da.EmployeeIDs...)
	}
	return ids
}

// Clone returns a deep copy of the assignment
func (a Assignment) Clone() Assignment {
	clone := make(Assignment, len(a))
	for i, da := range a {
		clone[i] = DayAssignment{
			Day:         da.Day,
			EmployeeIDs: slices.Clone(da.EmployeeIDs),
		}
		if clone[i].EmployeeIDs == nil {
			clone[i].EmployeeIDs = []string{}
		}
	}
	return clone
}

// SortedByWeekDays returns a copy ordered by calendar column instead of processing order.
// Days missing from the index are kept at the end in their original order.
func (a Assignment) SortedByWeekDays(weekDays WeekDayIndex) Assignment {
	sorted := a.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, okI := weekDays[sorted[i].Day]
		cj, okJ := weekDays[sorted[j].Day]
		if okI != okJ {
			return okI
		}
		return ci < cj
	})
	return sorted
}

// UnderStaffedDay reports a day that ended with fewer people than required.
// This is informational; it is not an error.
type UnderStaffedDay struct {
	Day      string
	Assigned int
	Required int
}

// Result is the outcome of a weekly scheduling run
type Result struct {
	// Assignment is the final roster, in processing order
	Assignment Assignment

	// Relaxations counts how many times the on-break list was relaxed (0, 1 or 2)
	Relaxations int

	// OnBreak is what is left of the on-break list after relaxation, in history order
	OnBreak []string
}

// UnderStaffedDays returns the days with fewer than dutySize people, in assignment order
func (r *Result) UnderStaffedDays(dutySize int) []UnderStaffedDay {
	short := []UnderStaffedDay{}
	for _, da := range r.Assignment {
		if len(da.EmployeeIDs) < dutySize {
			short = append(short, UnderStaffedDay{
				Day:      da.Day,
				Assigned: len(da.EmployeeIDs),
				Required: dutySize,
			})
		}
	}
	return short
}
