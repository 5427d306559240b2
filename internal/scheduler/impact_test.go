package scheduler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func impactFixture() (models.Catalog, []models.Assignment) {
	catalog := models.Catalog{
		Sections: []models.Section{section("s1", 40), section("s2", 60)},
		Rooms: []models.Room{
			room("r1", models.SessionKindTheory, 50),
			room("r2", models.SessionKindTheory, 60),
			room("r3", models.SessionKindLab, 60),
			room("r4", models.SessionKindTheory, 40),
		},
	}
	assignments := []models.Assignment{
		{ID: "e1", SectionID: "s1", CourseID: "c1", FacultyID: "f1", RoomID: "r1", TimeSlotID: "ts-1"},
		{ID: "e2", SectionID: "s2", CourseID: "c1", FacultyID: "f1", RoomID: "r1", TimeSlotID: "ts-2"},
		{ID: "e3", SectionID: "s1", CourseID: "c2", FacultyID: "f2", RoomID: "r3", TimeSlotID: "ts-2"},
	}
	return catalog, assignments
}

func TestFacultyImpactCountsDistinctSections(t *testing.T) {
	catalog, assignments := impactFixture()

	impact := FacultyImpact(catalog, assignments, "f1")
	assert.Equal(t, models.ImpactFacultyUnavailable, impact.Kind)
	assert.Equal(t, 2, impact.ClassesAffected)
	assert.Equal(t, 100, impact.StudentsImpacted)
	assert.Equal(t, 14, impact.Score)
	assert.Equal(t, models.SeverityMedium, impact.Severity)
	assert.Equal(t, []string{"e1", "e2"}, lo.Map(impact.Affected, func(a models.Assignment, _ int) string { return a.ID }))
	assert.Nil(t, impact.Alternatives)

	// s1 twice still counts its 40 students once.
	assignments = append(assignments, models.Assignment{ID: "e4", SectionID: "s1", FacultyID: "f2", RoomID: "r2", TimeSlotID: "ts-3"})
	impact = FacultyImpact(catalog, assignments, "f2")
	assert.Equal(t, 40, impact.StudentsImpacted)
	assert.Equal(t, 8, impact.Score)
}

func TestFacultyImpactWithoutClasses(t *testing.T) {
	catalog, assignments := impactFixture()

	impact := FacultyImpact(catalog, assignments, "f9")
	assert.Equal(t, 0, impact.Score)
	assert.Equal(t, models.SeverityMedium, impact.Severity)
	assert.NotNil(t, impact.Affected)
	assert.Empty(t, impact.Affected)
}

func TestImpactScoreSaturates(t *testing.T) {
	catalog := models.Catalog{Sections: []models.Section{section("big", 2000)}}
	assignments := []models.Assignment{{ID: "e1", SectionID: "big", FacultyID: "f1", RoomID: "r1"}}

	impact := FacultyImpact(catalog, assignments, "f1")
	assert.Equal(t, 100, impact.Score)
	assert.Equal(t, models.SeverityCritical, impact.Severity)
}

func TestSeverityThresholds(t *testing.T) {
	cases := map[float64]models.Severity{
		0:    models.SeverityMedium,
		25:   models.SeverityMedium,
		25.5: models.SeverityHigh,
		50:   models.SeverityHigh,
		50.1: models.SeverityCritical,
		100:  models.SeverityCritical,
	}
	for raw, want := range cases {
		assert.Equal(t, want, severityOf(raw), "raw %v", raw)
	}
}

func TestRoomShortageSuggestsLargerRoomsOfSameKind(t *testing.T) {
	catalog, assignments := impactFixture()

	impact := RoomShortage(catalog, assignments, catalog.Rooms[0])
	assert.Equal(t, models.ImpactRoomShortage, impact.Kind)
	assert.Equal(t, "r1", impact.EntityID)
	assert.Equal(t, 2, impact.ClassesAffected)
	assert.Equal(t, 13, impact.Score)
	require.Len(t, impact.Alternatives, 1)
	assert.Equal(t, "r2", impact.Alternatives[0].ID)

	impact = RoomShortage(catalog, assignments, catalog.Rooms[2])
	assert.Empty(t, impact.Alternatives)
	assert.Equal(t, 1, impact.ClassesAffected)
}

func TestRoomShortageCapsAlternatives(t *testing.T) {
	target := room("r0", models.SessionKindTheory, 10)
	catalog := models.Catalog{Rooms: []models.Room{target}}
	for i := 0; i < 12; i++ {
		catalog.Rooms = append(catalog.Rooms, room(string(rune('a'+i)), models.SessionKindTheory, 20))
	}

	impact := RoomShortage(catalog, nil, target)
	require.Len(t, impact.Alternatives, maxAlternatives)
	assert.Equal(t, "a", impact.Alternatives[0].ID)
}

func TestRankFacultiesOrdersByScore(t *testing.T) {
	catalog, assignments := impactFixture()

	ranked := RankFaculties(catalog, assignments, []string{"f2", "f1", "f2", "f9"})
	type row struct {
		ID    string
		Score int
		Rank  int
	}
	got := lo.Map(ranked, func(i models.Impact, _ int) row { return row{i.EntityID, i.Score, i.Rank} })
	want := []row{{"f1", 14, 1}, {"f2", 6, 2}, {"f9", 0, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
}
