package duties

import (
	"math/rand/v2"
	"slices"
)

// Scheduler builds the weekly duty roster from availability and recent history
type Scheduler struct {
	table    AvailabilityTable
	weekDays WeekDayIndex
	history  History
	cfg      Config
	rng      *rand.Rand
}

// NewScheduler validates the inputs and returns a scheduler.
// rng drives every random decision (day order, volunteer sampling, pool shuffling);
// pass a seeded source to get reproducible rosters.
func NewScheduler(table AvailabilityTable, weekDays WeekDayIndex, history History, cfg Config, rng *rand.Rand) (*Scheduler, error) {
	if err := Validate(table, weekDays, cfg); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Scheduler{
		table:    table,
		weekDays: weekDays,
		history:  history,
		cfg:      cfg,
		rng:      rng,
	}, nil
}

// ComputeWeeklyDuties runs the full scheduling pass: volunteers first, then gap filling
func (s *Scheduler) ComputeWeeklyDuties() *Result {
	return s.FillGaps()
}

// SelectVolunteersForDay returns the volunteers for a day who are not excluded.
// When more than DutySize volunteered, a uniform random sample of DutySize is returned.
// Fewer (including none) is fine; gap filling tops the day up later.
func (s *Scheduler) SelectVolunteersForDay(day string, exclude map[string]bool) []string {
	column := s.weekDays[day]

	volunteers := []string{}
	for _, row := range s.table {
		if row.StatusFor(column).IsVolunteer() && !exclude[row.ID] {
			volunteers = append(volunteers, row.ID)
		}
	}

	if len(volunteers) <= s.cfg.DutySize {
		return volunteers
	}

	s.rng.Shuffle(len(volunteers), func(i, j int) {
		volunteers[i], volunteers[j] = volunteers[j], volunteers[i]
	})
	return volunteers[:s.cfg.DutySize]
}

// SelectVolunteersForWeek collects volunteers for every day.
// Days are visited in a random order so no day systematically gets first pick.
// Someone picked for one day is excluded from the days visited after it.
func (s *Scheduler) SelectVolunteersForWeek() Assignment {
	days := s.weekDays.Days()
	s.rng.Shuffle(len(days), func(i, j int) {
		days[i], days[j] = days[j], days[i]
	})

	exclude := make(map[string]bool)
	assignment := make(Assignment, 0, len(days))
	for _, day := range days {
		volunteers := s.SelectVolunteersForDay(day, exclude)
		for _, id := range volunteers {
			exclude[id] = true
		}
		assignment = append(assignment, DayAssignment{Day: day, EmployeeIDs: volunteers})
	}

	return assignment
}

// fillState is the accumulator threaded through the days during gap filling
type fillState struct {
	// alreadyIn holds everyone assigned anywhere this week
	alreadyIn map[string]bool

	// onBreak holds people who served in the last two weeks.
	// It is relaxed when candidates run out but is not used to filter candidates.
	onBreak map[string]bool

	// lackOfPeople is set after the first pool exhaustion
	lackOfPeople bool

	// relaxations is the deepest relaxation reached: 0 none, 1 two weeks ago released, 2 one week ago too
	relaxations int
}

// FillGaps runs the volunteer pass and tops every day up to DutySize
// with available (non-"U") people not yet on duty this week.
//
// Days are filled in the order the volunteer pass produced them. When a day's
// candidate pool runs dry the day is left short and the on-break list is relaxed:
// first the people from two weeks ago are released, on later shortages the people
// from one week ago. The on-break list never filters the pools, so relaxing it
// changes what is reported in Result.OnBreak but not who can be drawn.
func (s *Scheduler) FillGaps() *Result {
	assignment := s.SelectVolunteersForWeek()

	state := &fillState{
		alreadyIn: make(map[string]bool),
		onBreak:   make(map[string]bool),
	}
	for _, id := range assignment.EmployeeIDs() {
		state.alreadyIn[id] = true
	}
	for _, id := range s.history.OneWeekAgo {
		state.onBreak[id] = true
	}
	for _, id := range s.history.TwoWeeksAgo {
		state.onBreak[id] = true
	}

	for i := range assignment {
		s.fillDay(&assignment[i], state)
	}

	return &Result{
		Assignment:  assignment,
		Relaxations: state.relaxations,
		OnBreak:     s.remainingOnBreak(state),
	}
}

// fillDay draws candidates for one day until it is full or the pool is exhausted
func (s *Scheduler) fillDay(day *DayAssignment, state *fillState) {
	pool := s.candidatePool(day.Day, state)

	for len(day.EmployeeIDs) < s.cfg.DutySize {
		candidate, ok := pool.next()
		if !ok {
			s.relax(state)
			return
		}
		day.EmployeeIDs = append(day.EmployeeIDs, candidate)
		state.alreadyIn[candidate] = true
	}
}

// relax loosens the on-break list after a pool ran out
func (s *Scheduler) relax(state *fillState) {
	if !state.lackOfPeople {
		for _, id := range s.history.TwoWeeksAgo {
			delete(state.onBreak, id)
		}
		state.lackOfPeople = true
		state.relaxations = 1
		return
	}

	for _, id := range s.history.OneWeekAgo {
		delete(state.onBreak, id)
	}
	state.relaxations = 2
}

// candidatePool lists everyone available on the day who is not on duty yet, shuffled.
// The pool is built once per day and consumed from the front.
func (s *Scheduler) candidatePool(day string, state *fillState) *candidatePool {
	column := s.weekDays[day]

	// onBreak is deliberately not merged into the exclusion here
	ids := []string{}
	for _, row := range s.table {
		if !row.StatusFor(column).IsUnavailable() && !state.alreadyIn[row.ID] {
			ids = append(ids, row.ID)
		}
	}

	s.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	return &candidatePool{ids: ids}
}

func (s *Scheduler) remainingOnBreak(state *fillState) []string {
	remaining := []string{}
	for _, id := range slices.Concat(s.history.OneWeekAgo, s.history.TwoWeeksAgo) {
		if state.onBreak[id] && !slices.Contains(remaining, id) {
			remaining = append(remaining, id)
		}
	}
	return remaining
}

// candidatePool is a one-shot sequence of candidate ids
type candidatePool struct {
	ids    []string
	cursor int
}

func (p *candidatePool) next() (string, bool) {
	if p.cursor >= len(p.ids) {
		return "", false
	}
	id := p.ids[p.cursor]
	p.cursor++
	return id, true
}
