package scheduler

import "github.com/noah-isme/timetable-api/internal/models"

// Input carries the entity collections for one run. Every slice is consumed in the given order, which
// fixes the candidate order and therefore the result.
type Input struct {
	Sections     []models.Section
	Courses      []models.Course
	Faculties    []models.Faculty
	Rooms        []models.Room
	TimeSlots    []models.TimeSlot
	Availability *AvailabilityIndex
	// Demand maps a section id to its ordered course ids. Nil means every section takes every course.
	Demand map[string][]string
}

// Options tunes an Engine.
type Options struct {
	Strategy Strategy
	// EnforceMaxLoad skips a faculty once its committed sessions reach Faculty.MaxLoad (0 means unlimited).
	EnforceMaxLoad bool
	// ExpandWeeklySessions demands each course SessionsPerWeek times when no explicit demand is supplied.
	ExpandWeeklySessions bool
}

// Engine assigns every demanded session a (faculty, room, timeslot) triple or fails the whole run.
type Engine struct {
	opts Options
}

// NewEngine builds an engine; the first-fit strategy is used when none is configured.
func NewEngine(opts Options) *Engine {
	if opts.Strategy == nil {
		opts.Strategy = FirstFit{}
	}
	return &Engine{opts: opts}
}

// StrategyName reports the configured search strategy.
func (e *Engine) StrategyName() string {
	return e.opts.Strategy.Name()
}

// Run executes one scheduling run with a fresh occupancy tracker. On failure no assignment is returned.
func (e *Engine) Run(in Input) ([]models.Assignment, error) {
	sessions, err := BuildDemand(in, e.opts.ExpandWeeklySessions)
	if err != nil {
		return nil, err
	}
	problem := &Problem{
		input:          in,
		sessions:       sessions,
		tracker:        NewOccupancyTracker(),
		enforceMaxLoad: e.opts.EnforceMaxLoad,
	}
	assignments, err := e.opts.Strategy.Solve(problem)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		assignments[i].Position = i
	}
	return assignments, nil
}

// Problem is the per-run search state handed to a Strategy.
type Problem struct {
	input          Input
	sessions       []Session
	tracker        *OccupancyTracker
	enforceMaxLoad bool
}

// Sessions returns the demanded sessions in scheduling order.
func (p *Problem) Sessions() []Session {
	return p.sessions
}

// Tracker returns the run-owned occupancy tracker.
func (p *Problem) Tracker() *OccupancyTracker {
	return p.tracker
}

// Candidates calls fn with each feasible assignment for the session, in timeslot, faculty, room order,
// until fn returns false. Feasibility is evaluated against the tracker at the time each candidate is reached.
func (p *Problem) Candidates(s Session, fn func(models.Assignment) bool) {
	for _, timeslot := range p.input.TimeSlots {
		if p.tracker.HasSectionClash(s.Section.ID, timeslot.ID) {
			continue
		}
		for _, faculty := range p.input.Faculties {
			if !p.input.Availability.IsAvailable(faculty.ID, timeslot.ID) {
				continue
			}
			if p.tracker.HasFacultyClash(faculty.ID, timeslot.ID) {
				continue
			}
			if p.enforceMaxLoad && faculty.MaxLoad > 0 && p.tracker.FacultyLoad(faculty.ID) >= faculty.MaxLoad {
				continue
			}
			for _, room := range p.input.Rooms {
				if room.Capacity < s.Section.StudentCount {
					continue
				}
				if room.Kind != s.Course.Kind {
					continue
				}
				if p.tracker.HasRoomClash(room.ID, timeslot.ID) {
					continue
				}
				candidate := models.Assignment{
					SectionID:  s.Section.ID,
					CourseID:   s.Course.ID,
					FacultyID:  faculty.ID,
					RoomID:     room.ID,
					TimeSlotID: timeslot.ID,
				}
				if !fn(candidate) {
					return
				}
			}
		}
	}
}

func infeasible(s Session) *InfeasibleError {
	return &InfeasibleError{
		SectionID:   s.Section.ID,
		SectionName: s.Section.Name,
		CourseID:    s.Course.ID,
		CourseName:  s.Course.Name,
	}
}
