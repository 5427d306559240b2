package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func newImpactFixture() (*ImpactService, *memTimetableStore) {
	catalog := models.Catalog{
		Faculties: []models.Faculty{{ID: "f1", Name: "Dr. Ada"}, {ID: "f2", Name: "Dr. Grace"}},
		Sections:  []models.Section{{ID: "s1", Name: "CS-A", StudentCount: 30}, {ID: "s2", Name: "CS-B", StudentCount: 45}},
		Rooms: []models.Room{
			{ID: "r1", Name: "Hall A", Kind: models.SessionKindTheory, Capacity: 40},
			{ID: "r2", Name: "Hall B", Kind: models.SessionKindTheory, Capacity: 50},
		},
	}
	store := &memTimetableStore{entries: []models.Assignment{
		{ID: "e1", SectionID: "s1", CourseID: "c1", FacultyID: "f1", RoomID: "r1", TimeSlotID: "ts-1"},
		{ID: "e2", SectionID: "s2", CourseID: "c1", FacultyID: "f1", RoomID: "r2", TimeSlotID: "ts-2"},
	}}
	return NewImpactService(newMemCatalog(catalog).repositories().Readers(), store, nil, nil), store
}

func TestImpactServiceFacultyImpact(t *testing.T) {
	svc, store := newImpactFixture()
	ctx := context.Background()

	impact, err := svc.FacultyImpact(ctx, dto.FacultyImpactRequest{FacultyID: "f1"})
	require.NoError(t, err)
	assert.Equal(t, 2, impact.ClassesAffected)
	assert.Equal(t, 75, impact.StudentsImpacted)
	assert.Equal(t, 12, impact.Score)
	assert.Equal(t, models.SeverityMedium, impact.Severity)
	assert.Len(t, store.entries, 2)

	_, err = svc.FacultyImpact(ctx, dto.FacultyImpactRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.FacultyImpact(ctx, dto.FacultyImpactRequest{FacultyID: "f9"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestImpactServiceRoomShortage(t *testing.T) {
	svc, _ := newImpactFixture()
	ctx := context.Background()

	impact, err := svc.RoomShortage(ctx, dto.RoomShortageRequest{RoomID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, 1, impact.ClassesAffected)
	assert.Equal(t, 5, impact.Score)
	require.Len(t, impact.Alternatives, 1)
	assert.Equal(t, "r2", impact.Alternatives[0].ID)

	_, err = svc.RoomShortage(ctx, dto.RoomShortageRequest{RoomID: "r9"})
	require.Error(t, err)
	assert.Equal(t, "room not found", appErrors.FromError(err).Message)
}

func TestImpactServiceBulkFacultyImpact(t *testing.T) {
	svc, _ := newImpactFixture()
	ctx := context.Background()

	resp, err := svc.BulkFacultyImpact(ctx, dto.BulkFacultyImpactRequest{FacultyIDs: []string{"f2", "f1"}})
	require.NoError(t, err)
	require.Len(t, resp.Impacts, 2)
	assert.Equal(t, "f1", resp.MostCritical.EntityID)
	assert.Equal(t, 1, resp.MostCritical.Rank)
	assert.Equal(t, "f2", resp.Impacts[1].EntityID)

	_, err = svc.BulkFacultyImpact(ctx, dto.BulkFacultyImpactRequest{FacultyIDs: []string{}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.BulkFacultyImpact(ctx, dto.BulkFacultyImpactRequest{FacultyIDs: []string{"f1", "ghost"}})
	require.Error(t, err)
	assert.Equal(t, "faculty ghost not found", appErrors.FromError(err).Message)
}

func TestImpactServiceSurfacesStoreFailure(t *testing.T) {
	svc, store := newImpactFixture()
	store.listErr = errors.New("connection reset")

	_, err := svc.FacultyImpact(context.Background(), dto.FacultyImpactRequest{FacultyID: "f1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
