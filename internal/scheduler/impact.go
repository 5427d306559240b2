package scheduler

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/noah-isme/timetable-api/internal/models"
)

// maxAlternatives caps the rooms suggested for a room shortage.
const maxAlternatives = 10

// FacultyImpact grades the loss of a faculty over the given assignments. Classes weigh 2 points each and
// every 10 distinct students one more; the score saturates at 100.
func FacultyImpact(c models.Catalog, assignments []models.Assignment, facultyID string) models.Impact {
	affected := lo.Filter(assignments, func(a models.Assignment, _ int) bool { return a.FacultyID == facultyID })
	students := studentsIn(c.Sections, affected)
	raw := float64(len(affected)*2) + float64(students)/10
	return newImpact(models.ImpactFacultyUnavailable, facultyID, raw, affected, students)
}

// RoomShortage grades the loss of a room and suggests other rooms of the same kind that seat at least as
// many, in catalog order. Classes weigh 3 points each and every 15 distinct students one more.
func RoomShortage(c models.Catalog, assignments []models.Assignment, room models.Room) models.Impact {
	affected := lo.Filter(assignments, func(a models.Assignment, _ int) bool { return a.RoomID == room.ID })
	students := studentsIn(c.Sections, affected)
	raw := float64(len(affected)*3) + float64(students)/15

	impact := newImpact(models.ImpactRoomShortage, room.ID, raw, affected, students)
	impact.Alternatives = lo.Filter(c.Rooms, func(r models.Room, _ int) bool {
		return r.ID != room.ID && r.Kind == room.Kind && r.Capacity >= room.Capacity
	})
	if len(impact.Alternatives) > maxAlternatives {
		impact.Alternatives = impact.Alternatives[:maxAlternatives]
	}
	return impact
}

// RankFaculties grades each distinct faculty and orders the results by score, highest first. Ties keep the
// order the ids were given in.
func RankFaculties(c models.Catalog, assignments []models.Assignment, facultyIDs []string) []models.Impact {
	out := lo.Map(lo.Uniq(facultyIDs), func(id string, _ int) models.Impact {
		return FacultyImpact(c, assignments, id)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func newImpact(kind models.ImpactKind, entityID string, raw float64, affected []models.Assignment, students int) models.Impact {
	raw = math.Min(100, raw)
	return models.Impact{
		Kind:             kind,
		EntityID:         entityID,
		Score:            int(math.Round(raw)),
		Severity:         severityOf(raw),
		ClassesAffected:  len(affected),
		StudentsImpacted: students,
		Affected:         affected,
	}
}

// severityOf grades the unrounded score.
func severityOf(raw float64) models.Severity {
	switch {
	case raw > 50:
		return models.SeverityCritical
	case raw > 25:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

// studentsIn counts each affected section once.
func studentsIn(sections []models.Section, affected []models.Assignment) int {
	byID := lo.KeyBy(sections, func(s models.Section) string { return s.ID })
	ids := lo.Uniq(lo.Map(affected, func(a models.Assignment, _ int) string { return a.SectionID }))
	return lo.SumBy(ids, func(id string) int { return byID[id].StudentCount })
}
