package scheduler

import "github.com/noah-isme/timetable-api/internal/models"

type occupancyKey struct {
	entityID   string
	timeslotID string
}

// OccupancyTracker holds the (faculty|room|section, timeslot) keys committed during one run.
// It starts empty and must not be shared between runs.
type OccupancyTracker struct {
	faculty map[occupancyKey]struct{}
	room    map[occupancyKey]struct{}
	section map[occupancyKey]struct{}
	load    map[string]int
}

// NewOccupancyTracker returns an empty tracker.
func NewOccupancyTracker() *OccupancyTracker {
	return &OccupancyTracker{
		faculty: make(map[occupancyKey]struct{}),
		room:    make(map[occupancyKey]struct{}),
		section: make(map[occupancyKey]struct{}),
		load:    make(map[string]int),
	}
}

func (t *OccupancyTracker) HasFacultyClash(facultyID, timeslotID string) bool {
	_, ok := t.faculty[occupancyKey{facultyID, timeslotID}]
	return ok
}

func (t *OccupancyTracker) HasRoomClash(roomID, timeslotID string) bool {
	_, ok := t.room[occupancyKey{roomID, timeslotID}]
	return ok
}

func (t *OccupancyTracker) HasSectionClash(sectionID, timeslotID string) bool {
	_, ok := t.section[occupancyKey{sectionID, timeslotID}]
	return ok
}

// Commit records the three occupancy keys of an accepted assignment.
func (t *OccupancyTracker) Commit(a models.Assignment) {
	t.faculty[occupancyKey{a.FacultyID, a.TimeSlotID}] = struct{}{}
	t.room[occupancyKey{a.RoomID, a.TimeSlotID}] = struct{}{}
	t.section[occupancyKey{a.SectionID, a.TimeSlotID}] = struct{}{}
	t.load[a.FacultyID]++
}

// Release reverts a previous Commit of the same assignment.
func (t *OccupancyTracker) Release(a models.Assignment) {
	delete(t.faculty, occupancyKey{a.FacultyID, a.TimeSlotID})
	delete(t.room, occupancyKey{a.RoomID, a.TimeSlotID})
	delete(t.section, occupancyKey{a.SectionID, a.TimeSlotID})
	if t.load[a.FacultyID] > 0 {
		t.load[a.FacultyID]--
	}
}

// FacultyLoad returns the number of sessions committed for the faculty.
func (t *OccupancyTracker) FacultyLoad(facultyID string) int {
	return t.load[facultyID]
}
