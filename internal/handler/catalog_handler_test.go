package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// catalogServiceMock records the last request per entity and reports unknown ids as missing.
type catalogServiceMock struct {
	course       dto.CourseRequest
	timeslot     dto.TimeSlotRequest
	availability dto.AvailabilityRequest
	facultyQuery string
	deleted      []string
}

func notFound(what string) error { return appErrors.Clone(appErrors.ErrNotFound, what+" not found") }

func (m *catalogServiceMock) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	return []models.Faculty{{ID: "f1"}}, nil
}
func (m *catalogServiceMock) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	if id != "f1" {
		return nil, notFound("faculty")
	}
	return &models.Faculty{ID: id}, nil
}
func (m *catalogServiceMock) CreateFaculty(ctx context.Context, req dto.FacultyRequest) (*models.Faculty, error) {
	return &models.Faculty{ID: "f2", Name: req.Name}, nil
}
func (m *catalogServiceMock) UpdateFaculty(ctx context.Context, id string, req dto.FacultyRequest) (*models.Faculty, error) {
	return &models.Faculty{ID: id, Name: req.Name}, nil
}
func (m *catalogServiceMock) DeleteFaculty(ctx context.Context, id string) error {
	if id == "f-busy" {
		return appErrors.Clone(appErrors.ErrConflict, "faculty is scheduled; regenerate or clear the timetable first")
	}
	m.deleted = append(m.deleted, "faculty:"+id)
	return nil
}

func (m *catalogServiceMock) ListCourses(ctx context.Context) ([]models.Course, error) {
	return []models.Course{}, nil
}
func (m *catalogServiceMock) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return nil, notFound("course")
}
func (m *catalogServiceMock) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	m.course = req
	return &models.Course{ID: "c1", Name: req.Name, Kind: models.SessionKind(req.Kind)}, nil
}
func (m *catalogServiceMock) UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}
func (m *catalogServiceMock) DeleteCourse(ctx context.Context, id string) error {
	return notFound("course")
}

func (m *catalogServiceMock) ListSections(ctx context.Context) ([]models.Section, error) {
	return []models.Section{}, nil
}
func (m *catalogServiceMock) GetSection(ctx context.Context, id string) (*models.Section, error) {
	return &models.Section{ID: id}, nil
}
func (m *catalogServiceMock) CreateSection(ctx context.Context, req dto.SectionRequest) (*models.Section, error) {
	return &models.Section{ID: "s1", Name: req.Name}, nil
}
func (m *catalogServiceMock) UpdateSection(ctx context.Context, id string, req dto.SectionRequest) (*models.Section, error) {
	return &models.Section{ID: id}, nil
}
func (m *catalogServiceMock) DeleteSection(ctx context.Context, id string) error { return nil }

func (m *catalogServiceMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	return []models.Room{}, nil
}
func (m *catalogServiceMock) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return &models.Room{ID: id}, nil
}
func (m *catalogServiceMock) CreateRoom(ctx context.Context, req dto.RoomRequest) (*models.Room, error) {
	return &models.Room{ID: "r1"}, nil
}
func (m *catalogServiceMock) UpdateRoom(ctx context.Context, id string, req dto.RoomRequest) (*models.Room, error) {
	return &models.Room{ID: id}, nil
}
func (m *catalogServiceMock) DeleteRoom(ctx context.Context, id string) error { return nil }

func (m *catalogServiceMock) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return []models.TimeSlot{}, nil
}
func (m *catalogServiceMock) GetTimeSlot(ctx context.Context, id string) (*models.TimeSlot, error) {
	return &models.TimeSlot{ID: id}, nil
}
func (m *catalogServiceMock) CreateTimeSlot(ctx context.Context, req dto.TimeSlotRequest) (*models.TimeSlot, error) {
	m.timeslot = req
	if req.Slot == 1 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "timeslot already exists for day and slot")
	}
	return &models.TimeSlot{ID: "ts-2", Day: req.Day, Slot: req.Slot}, nil
}
func (m *catalogServiceMock) UpdateTimeSlot(ctx context.Context, id string, req dto.TimeSlotRequest) (*models.TimeSlot, error) {
	if id != "ts-1" {
		return nil, notFound("timeslot")
	}
	m.timeslot = req
	if req.Slot == 1 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "timeslot already exists for day and slot")
	}
	return &models.TimeSlot{ID: id, Day: req.Day, Slot: req.Slot}, nil
}
func (m *catalogServiceMock) DeleteTimeSlot(ctx context.Context, id string) error { return nil }

func (m *catalogServiceMock) ListAvailability(ctx context.Context, facultyID string) ([]models.Availability, error) {
	m.facultyQuery = facultyID
	return []models.Availability{}, nil
}
func (m *catalogServiceMock) SetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*models.Availability, error) {
	m.availability = req
	return &models.Availability{ID: "a1", FacultyID: req.FacultyID, TimeSlotID: req.TimeSlotID, IsAvailable: *req.IsAvailable}, nil
}
func (m *catalogServiceMock) DeleteAvailability(ctx context.Context, id string) error { return nil }

func catalogRouter(svc *catalogServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &CatalogHandler{service: svc}
	router := gin.New()
	router.GET("/faculties", h.ListFaculties)
	router.GET("/faculties/:id", h.GetFaculty)
	router.POST("/faculties", h.CreateFaculty)
	router.PUT("/faculties/:id", h.UpdateFaculty)
	router.DELETE("/faculties/:id", h.DeleteFaculty)
	router.POST("/courses", h.CreateCourse)
	router.GET("/courses/:id", h.GetCourse)
	router.DELETE("/courses/:id", h.DeleteCourse)
	router.POST("/timeslots", h.CreateTimeSlot)
	router.PUT("/timeslots/:id", h.UpdateTimeSlot)
	router.GET("/availability", h.ListAvailability)
	router.PUT("/availability", h.SetAvailability)
	return router
}

func TestCatalogFacultyEndpoints(t *testing.T) {
	svc := &catalogServiceMock{}
	router := catalogRouter(svc)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/faculties", nil).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/faculties/f1", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodGet, "/faculties/f9", nil).Code)
	assert.Equal(t, http.StatusCreated, perform(router, http.MethodPost, "/faculties", []byte(`{"name":"Dr. Ada","maxLoad":4}`)).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodPut, "/faculties/f1", []byte(`{"name":"Dr. Ada"}`)).Code)
	assert.Equal(t, http.StatusNoContent, perform(router, http.MethodDelete, "/faculties/f1", nil).Code)
	assert.Equal(t, []string{"faculty:f1"}, svc.deleted)

	rec := perform(router, http.MethodDelete, "/faculties/f-busy", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "regenerate or clear the timetable")
	assert.Equal(t, []string{"faculty:f1"}, svc.deleted)
}

func TestCatalogCourseEndpoints(t *testing.T) {
	svc := &catalogServiceMock{}
	router := catalogRouter(svc)

	rec := perform(router, http.MethodPost, "/courses", []byte(`{"name":"Circuits","kind":"lab","sessionsPerWeek":2}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "lab", svc.course.Kind)
	assert.Equal(t, 2, svc.course.SessionsPerWeek)

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodPost, "/courses", []byte(`[`)).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodGet, "/courses/c9", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodDelete, "/courses/c9", nil).Code)
}

func TestCatalogTimeSlotConflict(t *testing.T) {
	svc := &catalogServiceMock{}
	router := catalogRouter(svc)

	rec := perform(router, http.MethodPost, "/timeslots", []byte(`{"day":"MONDAY","slot":1}`))
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = perform(router, http.MethodPost, "/timeslots", []byte(`{"day":"MONDAY","slot":2,"startTime":"09:00"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.timeslot.StartTime)
	assert.Equal(t, "09:00", *svc.timeslot.StartTime)
}

func TestCatalogUpdateTimeSlot(t *testing.T) {
	svc := &catalogServiceMock{}
	router := catalogRouter(svc)

	rec := perform(router, http.MethodPut, "/timeslots/ts-1", []byte(`{"day":"TUESDAY","slot":3,"endTime":"11:00"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TUESDAY", svc.timeslot.Day)
	require.NotNil(t, svc.timeslot.EndTime)
	assert.Equal(t, "11:00", *svc.timeslot.EndTime)

	assert.Equal(t, http.StatusConflict, perform(router, http.MethodPut, "/timeslots/ts-1", []byte(`{"day":"MONDAY","slot":1}`)).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodPut, "/timeslots/ts-9", []byte(`{"day":"MONDAY","slot":4}`)).Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodPut, "/timeslots/ts-1", []byte(`{`)).Code)
}

func TestCatalogAvailabilityEndpoints(t *testing.T) {
	svc := &catalogServiceMock{}
	router := catalogRouter(svc)

	rec := perform(router, http.MethodPut, "/availability", []byte(`{"facultyId":"f1","timeslotId":"ts-1","isAvailable":false}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.availability.IsAvailable)
	assert.False(t, *svc.availability.IsAvailable)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/availability?facultyId=f1", nil).Code)
	assert.Equal(t, "f1", svc.facultyQuery)
}
