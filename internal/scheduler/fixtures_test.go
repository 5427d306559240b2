package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-api/internal/models"
)

func faculty(id string) models.Faculty {
	return models.Faculty{ID: id, Name: "Faculty " + id, MaxLoad: 10}
}

func course(id string, kind models.SessionKind) models.Course {
	return models.Course{ID: id, Name: "Course " + id, Kind: kind, SessionsPerWeek: 1}
}

func section(id string, students int) models.Section {
	return models.Section{ID: id, Name: "Section " + id, StudentCount: students}
}

func room(id string, kind models.SessionKind, capacity int) models.Room {
	return models.Room{ID: id, Name: "Room " + id, Kind: kind, Capacity: capacity}
}

func timeslots(n int) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.TimeSlot{ID: fmt.Sprintf("ts-%d", i), Day: "MONDAY", Slot: i})
	}
	return out
}

// availableEverywhere grants every faculty every timeslot.
func availableEverywhere(faculties []models.Faculty, slots []models.TimeSlot) *AvailabilityIndex {
	var records []models.Availability
	for _, f := range faculties {
		for _, t := range slots {
			records = append(records, models.Availability{FacultyID: f.ID, TimeSlotID: t.ID, IsAvailable: true})
		}
	}
	return NewAvailabilityIndex(records)
}

// assertHardConstraints checks every invariant a produced assignment set must uphold.
func assertHardConstraints(t *testing.T, in Input, assignments []models.Assignment) {
	t.Helper()
	sections := map[string]models.Section{}
	for _, s := range in.Sections {
		sections[s.ID] = s
	}
	courses := map[string]models.Course{}
	for _, c := range in.Courses {
		courses[c.ID] = c
	}
	rooms := map[string]models.Room{}
	for _, r := range in.Rooms {
		rooms[r.ID] = r
	}

	for i, a := range assignments {
		r := rooms[a.RoomID]
		assert.Equal(t, courses[a.CourseID].Kind, r.Kind, "room kind must match course kind")
		assert.GreaterOrEqual(t, r.Capacity, sections[a.SectionID].StudentCount, "room must seat the section")
		assert.True(t, in.Availability.IsAvailable(a.FacultyID, a.TimeSlotID), "faculty must be available")
		for _, b := range assignments[i+1:] {
			if a.TimeSlotID != b.TimeSlotID {
				continue
			}
			assert.NotEqual(t, a.FacultyID, b.FacultyID, "faculty double booked at %s", a.TimeSlotID)
			assert.NotEqual(t, a.RoomID, b.RoomID, "room double booked at %s", a.TimeSlotID)
			assert.NotEqual(t, a.SectionID, b.SectionID, "section double booked at %s", a.TimeSlotID)
		}
	}
}
