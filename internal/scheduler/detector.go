package scheduler

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/noah-isme/timetable-api/internal/models"
)

// Labels maps entity ids to display names used in conflict reasons. Missing names fall back to the id.
type Labels struct {
	Faculties map[string]string
	Rooms     map[string]string
	Sections  map[string]string
	Courses   map[string]string
	TimeSlots map[string]string
}

// LabelsFromCatalog builds display labels for every entity in the catalog.
func LabelsFromCatalog(c models.Catalog) Labels {
	return Labels{
		Faculties: lo.SliceToMap(c.Faculties, func(f models.Faculty) (string, string) { return f.ID, f.Name }),
		Rooms:     lo.SliceToMap(c.Rooms, func(r models.Room) (string, string) { return r.ID, r.Name }),
		Sections:  lo.SliceToMap(c.Sections, func(s models.Section) (string, string) { return s.ID, s.Name }),
		Courses:   lo.SliceToMap(c.Courses, func(co models.Course) (string, string) { return co.ID, co.Name }),
		TimeSlots: lo.SliceToMap(c.TimeSlots, func(t models.TimeSlot) (string, string) { return t.ID, t.Label() }),
	}
}

func label(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// Detector reports double bookings in an assignment set.
type Detector struct {
	labels Labels
}

// NewDetector returns a detector that renders reasons with the given labels.
func NewDetector(labels Labels) *Detector {
	return &Detector{labels: labels}
}

// Detect reports the double bookings in assignments using ids as labels.
func Detect(assignments []models.Assignment) []models.Conflict {
	return NewDetector(Labels{}).Detect(assignments)
}

// Detect compares every unordered pair of assignments that share a timeslot and emits one conflict per
// shared faculty, room and section, in that order. Conflicts follow the scanning order of the input.
// Only double bookings are checked; room kind, capacity and availability are not.
func (d *Detector) Detect(assignments []models.Assignment) []models.Conflict {
	byTimeslot := make(map[string][]int)
	for i, a := range assignments {
		byTimeslot[a.TimeSlotID] = append(byTimeslot[a.TimeSlotID], i)
	}

	conflicts := make([]models.Conflict, 0)
	for i, a := range assignments {
		for _, j := range byTimeslot[a.TimeSlotID] {
			if j <= i {
				continue
			}
			b := assignments[j]
			if a.FacultyID == b.FacultyID {
				conflicts = append(conflicts, d.conflict(models.ConflictKindFaculty, a.FacultyID, a, b))
			}
			if a.RoomID == b.RoomID {
				conflicts = append(conflicts, d.conflict(models.ConflictKindRoom, a.RoomID, a, b))
			}
			if a.SectionID == b.SectionID {
				conflicts = append(conflicts, d.conflict(models.ConflictKindSection, a.SectionID, a, b))
			}
		}
	}
	return conflicts
}

func (d *Detector) conflict(kind models.ConflictKind, entityID string, a, b models.Assignment) models.Conflict {
	slot := label(d.labels.TimeSlots, a.TimeSlotID)
	var reason string
	switch kind {
	case models.ConflictKindFaculty:
		reason = fmt.Sprintf("Faculty %s is double booked at %s in rooms %s and %s",
			label(d.labels.Faculties, entityID), slot, label(d.labels.Rooms, a.RoomID), label(d.labels.Rooms, b.RoomID))
	case models.ConflictKindRoom:
		reason = fmt.Sprintf("Room %s is double booked at %s for %s and %s",
			label(d.labels.Rooms, entityID), slot, label(d.labels.Courses, a.CourseID), label(d.labels.Courses, b.CourseID))
	default:
		reason = fmt.Sprintf("Section %s has two classes at %s: %s and %s",
			label(d.labels.Sections, entityID), slot, label(d.labels.Courses, a.CourseID), label(d.labels.Courses, b.CourseID))
	}
	return models.Conflict{
		Kind:       kind,
		EntityID:   entityID,
		TimeSlotID: a.TimeSlotID,
		Reason:     reason,
		EntryA:     a.ID,
		EntryB:     b.ID,
	}
}

// Summarize counts conflicts per kind.
func Summarize(conflicts []models.Conflict) models.ConflictSummary {
	counts := lo.CountValuesBy(conflicts, func(c models.Conflict) models.ConflictKind { return c.Kind })
	return models.ConflictSummary{
		Total:   len(conflicts),
		Faculty: counts[models.ConflictKindFaculty],
		Room:    counts[models.ConflictKindRoom],
		Section: counts[models.ConflictKindSection],
	}
}
