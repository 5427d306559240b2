package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func boolPtr(v bool) *bool { return &v }

func TestCatalogServiceCourseLifecycle(t *testing.T) {
	db, _ := newTxMock(t)
	mem := newMemCatalog(models.Catalog{})
	svc := NewCatalogService(mem.repositories(), db, nil, nil)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, dto.CourseRequest{ID: "c1", Name: " Physics Lab ", Kind: "lab", SessionsPerWeek: 2})
	require.NoError(t, err)
	assert.Equal(t, "Physics Lab", course.Name)
	assert.Equal(t, models.SessionKindLab, course.Kind)

	updated, err := svc.UpdateCourse(ctx, "c1", dto.CourseRequest{Name: "Physics", Kind: "theory"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionKindTheory, updated.Kind)
	assert.Equal(t, 2, updated.SessionsPerWeek)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Physics", courses[0].Name)

	require.NoError(t, svc.DeleteCourse(ctx, "c1"))
	_, err = svc.GetCourse(ctx, "c1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestCatalogServiceRejectsInvalidPayloads(t *testing.T) {
	db, _ := newTxMock(t)
	svc := NewCatalogService(newMemCatalog(models.Catalog{}).repositories(), db, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, dto.CourseRequest{Name: "Chemistry", Kind: "seminar"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateRoom(ctx, dto.RoomRequest{Name: "Hall", Kind: "theory", Capacity: -1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateSection(ctx, dto.SectionRequest{StudentCount: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetAvailability(ctx, dto.AvailabilityRequest{FacultyID: "f1", TimeSlotID: "ts-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceTimeSlotMustBeUnique(t *testing.T) {
	db, _ := newTxMock(t)
	svc := NewCatalogService(newMemCatalog(models.Catalog{}).repositories(), db, nil, nil)
	ctx := context.Background()

	slot, err := svc.CreateTimeSlot(ctx, dto.TimeSlotRequest{Day: "monday", Slot: 1})
	require.NoError(t, err)
	assert.Equal(t, "MONDAY", slot.Day)

	_, err = svc.CreateTimeSlot(ctx, dto.TimeSlotRequest{Day: "MONDAY", Slot: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)

	_, err = svc.CreateTimeSlot(ctx, dto.TimeSlotRequest{Day: "MONDAY", Slot: 2})
	require.NoError(t, err)
}

func TestCatalogServiceSetAvailability(t *testing.T) {
	db, _ := newTxMock(t)
	mem := newMemCatalog(models.Catalog{
		Faculties: []models.Faculty{{ID: "f1", Name: "Dr. Ada"}},
		TimeSlots: []models.TimeSlot{{ID: "ts-1", Day: "MONDAY", Slot: 1}},
	})
	svc := NewCatalogService(mem.repositories(), db, nil, nil)
	ctx := context.Background()

	first, err := svc.SetAvailability(ctx, dto.AvailabilityRequest{FacultyID: "f1", TimeSlotID: "ts-1", IsAvailable: boolPtr(false)})
	require.NoError(t, err)
	second, err := svc.SetAvailability(ctx, dto.AvailabilityRequest{FacultyID: "f1", TimeSlotID: "ts-1", IsAvailable: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	records, err := svc.ListAvailability(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsAvailable)

	_, err = svc.SetAvailability(ctx, dto.AvailabilityRequest{FacultyID: "ghost", TimeSlotID: "ts-1", IsAvailable: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, "faculty not found", appErrors.FromError(err).Message)

	_, err = svc.SetAvailability(ctx, dto.AvailabilityRequest{FacultyID: "f1", TimeSlotID: "ts-9", IsAvailable: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, "timeslot not found", appErrors.FromError(err).Message)

	require.NoError(t, svc.DeleteAvailability(ctx, first.ID))
	err = svc.DeleteAvailability(ctx, first.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestCatalogServiceSeedCommitsOnce(t *testing.T) {
	db, mock := newTxMock(t)
	mem := newMemCatalog(models.Catalog{})
	svc := NewCatalogService(mem.repositories(), db, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.Seed(context.Background(), oneSessionCatalog(30, 40)))
	assert.Len(t, mem.faculties.items, 1)
	assert.Len(t, mem.courses.items, 1)
	assert.Len(t, mem.sections.items, 1)
	assert.Len(t, mem.rooms.items, 1)
	assert.Len(t, mem.timeslots.items, 1)
	assert.Len(t, mem.availability.items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogServiceSeedRollsBackOnFailure(t *testing.T) {
	db, mock := newTxMock(t)
	mem := newMemCatalog(models.Catalog{})
	mem.rooms.createErr = errors.New("check constraint failed")
	svc := NewCatalogService(mem.repositories(), db, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Seed(context.Background(), oneSessionCatalog(30, 40))
	require.Error(t, err)
	assert.Equal(t, "failed to seed room", appErrors.FromError(err).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogServiceSeedKeepsCatalogOrder(t *testing.T) {
	db, mock := newTxMock(t)
	mem := newMemCatalog(models.Catalog{})
	svc := NewCatalogService(mem.repositories(), db, nil, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	catalog := models.Catalog{Faculties: []models.Faculty{{ID: "zeta"}, {ID: "alpha"}, {ID: "mid"}}}
	require.NoError(t, svc.Seed(context.Background(), catalog))
	require.Len(t, mem.faculties.items, 3)
	assert.True(t, mem.faculties.items[0].CreatedAt.Before(mem.faculties.items[1].CreatedAt))
	assert.True(t, mem.faculties.items[1].CreatedAt.Before(mem.faculties.items[2].CreatedAt))
}

func TestCatalogServiceUpdateTimeSlot(t *testing.T) {
	db, _ := newTxMock(t)
	mem := newMemCatalog(models.Catalog{TimeSlots: []models.TimeSlot{
		{ID: "ts-1", Day: "MONDAY", Slot: 1},
		{ID: "ts-2", Day: "MONDAY", Slot: 2},
	}})
	svc := NewCatalogService(mem.repositories(), db, nil, nil)
	ctx := context.Background()

	start := "08:00"
	slot, err := svc.UpdateTimeSlot(ctx, "ts-1", dto.TimeSlotRequest{Day: "monday", Slot: 1, StartTime: &start})
	require.NoError(t, err)
	require.NotNil(t, slot.StartTime)
	assert.Equal(t, "08:00", *slot.StartTime)

	_, err = svc.UpdateTimeSlot(ctx, "ts-1", dto.TimeSlotRequest{Day: "MONDAY", Slot: 2})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)

	moved, err := svc.UpdateTimeSlot(ctx, "ts-2", dto.TimeSlotRequest{Day: "tuesday", Slot: 1})
	require.NoError(t, err)
	assert.Equal(t, "TUESDAY", moved.Day)
	stored, err := svc.GetTimeSlot(ctx, "ts-2")
	require.NoError(t, err)
	assert.Equal(t, "TUESDAY", stored.Day)

	_, err = svc.UpdateTimeSlot(ctx, "ts-9", dto.TimeSlotRequest{Day: "MONDAY", Slot: 5})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestCatalogServiceDeleteScheduledEntityConflicts(t *testing.T) {
	db, _ := newTxMock(t)
	mem := newMemCatalog(models.Catalog{Rooms: []models.Room{{ID: "r1", Name: "Hall", Kind: models.SessionKindTheory, Capacity: 40}}})
	mem.rooms.deleteErr = fmt.Errorf("delete room: %w", &pq.Error{Code: "23503"})
	svc := NewCatalogService(mem.repositories(), db, nil, nil)

	err := svc.DeleteRoom(context.Background(), "r1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "room is scheduled; regenerate or clear the timetable first", appErr.Message)

	mem.rooms.deleteErr = errors.New("disk full")
	err = svc.DeleteRoom(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
