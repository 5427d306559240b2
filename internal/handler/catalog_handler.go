package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type catalogService interface {
	ListFaculties(ctx context.Context) ([]models.Faculty, error)
	GetFaculty(ctx context.Context, id string) (*models.Faculty, error)
	CreateFaculty(ctx context.Context, req dto.FacultyRequest) (*models.Faculty, error)
	UpdateFaculty(ctx context.Context, id string, req dto.FacultyRequest) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, id string) error

	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	ListSections(ctx context.Context) ([]models.Section, error)
	GetSection(ctx context.Context, id string) (*models.Section, error)
	CreateSection(ctx context.Context, req dto.SectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, id string, req dto.SectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error

	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	CreateRoom(ctx context.Context, req dto.RoomRequest) (*models.Room, error)
	UpdateRoom(ctx context.Context, id string, req dto.RoomRequest) (*models.Room, error)
	DeleteRoom(ctx context.Context, id string) error

	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	GetTimeSlot(ctx context.Context, id string) (*models.TimeSlot, error)
	CreateTimeSlot(ctx context.Context, req dto.TimeSlotRequest) (*models.TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, id string, req dto.TimeSlotRequest) (*models.TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, id string) error

	ListAvailability(ctx context.Context, facultyID string) ([]models.Availability, error)
	SetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*models.Availability, error)
	DeleteAvailability(ctx context.Context, id string) error
}

// CatalogHandler exposes CRUD endpoints for the scheduling catalog.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

func bindBody(c *gin.Context, dest interface{}, what string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+what+" payload"))
		return false
	}
	return true
}

func respond(c *gin.Context, status int, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, status, data, nil)
}

func respondDeleted(c *gin.Context, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListFaculties godoc
// @Summary List faculties
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculties [get]
func (h *CatalogHandler) ListFaculties(c *gin.Context) {
	items, err := h.service.ListFaculties(c.Request.Context())
	respond(c, http.StatusOK, items, err)
}

// GetFaculty godoc
// @Summary Get a faculty
// @Tags Catalog
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculties/{id} [get]
func (h *CatalogHandler) GetFaculty(c *gin.Context) {
	item, err := h.service.GetFaculty(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, item, err)
}

// CreateFaculty godoc
// @Summary Create a faculty
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.FacultyRequest true "Faculty"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /faculties [post]
func (h *CatalogHandler) CreateFaculty(c *gin.Context) {
	var req dto.FacultyRequest
	if !bindBody(c, &req, "faculty") {
		return
	}
	item, err := h.service.CreateFaculty(c.Request.Context(), req)
	respond(c, http.StatusCreated, item, err)
}

// UpdateFaculty godoc
// @Summary Update a faculty
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID"
// @Param payload body dto.FacultyRequest true "Faculty"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculties/{id} [put]
func (h *CatalogHandler) UpdateFaculty(c *gin.Context) {
	var req dto.FacultyRequest
	if !bindBody(c, &req, "faculty") {
		return
	}
	item, err := h.service.UpdateFaculty(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusOK, item, err)
}

// DeleteFaculty godoc
// @Summary Delete a faculty
// @Tags Catalog
// @Param id path string true "Faculty ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /faculties/{id} [delete]
func (h *CatalogHandler) DeleteFaculty(c *gin.Context) {
	respondDeleted(c, h.service.DeleteFaculty(c.Request.Context(), c.Param("id")))
}

// ListCourses godoc
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	items, err := h.service.ListCourses(c.Request.Context())
	respond(c, http.StatusOK, items, err)
}

// GetCourse godoc
// @Summary Get a course
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	item, err := h.service.GetCourse(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, item, err)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if !bindBody(c, &req, "course") {
		return
	}
	item, err := h.service.CreateCourse(c.Request.Context(), req)
	respond(c, http.StatusCreated, item, err)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [put]
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if !bindBody(c, &req, "course") {
		return
	}
	item, err := h.service.UpdateCourse(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusOK, item, err)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Catalog
// @Param id path string true "Course ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	respondDeleted(c, h.service.DeleteCourse(c.Request.Context(), c.Param("id")))
}

// ListSections godoc
// @Summary List sections
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sections [get]
func (h *CatalogHandler) ListSections(c *gin.Context) {
	items, err := h.service.ListSections(c.Request.Context())
	respond(c, http.StatusOK, items, err)
}

// GetSection godoc
// @Summary Get a section
// @Tags Catalog
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [get]
func (h *CatalogHandler) GetSection(c *gin.Context) {
	item, err := h.service.GetSection(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, item, err)
}

// CreateSection godoc
// @Summary Create a section
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.SectionRequest true "Section"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /sections [post]
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	var req dto.SectionRequest
	if !bindBody(c, &req, "section") {
		return
	}
	item, err := h.service.CreateSection(c.Request.Context(), req)
	respond(c, http.StatusCreated, item, err)
}

// UpdateSection godoc
// @Summary Update a section
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body dto.SectionRequest true "Section"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sections/{id} [put]
func (h *CatalogHandler) UpdateSection(c *gin.Context) {
	var req dto.SectionRequest
	if !bindBody(c, &req, "section") {
		return
	}
	item, err := h.service.UpdateSection(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusOK, item, err)
}

// DeleteSection godoc
// @Summary Delete a section
// @Tags Catalog
// @Param id path string true "Section ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sections/{id} [delete]
func (h *CatalogHandler) DeleteSection(c *gin.Context) {
	respondDeleted(c, h.service.DeleteSection(c.Request.Context(), c.Param("id")))
}

// ListRooms godoc
// @Summary List rooms
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	items, err := h.service.ListRooms(c.Request.Context())
	respond(c, http.StatusOK, items, err)
}

// GetRoom godoc
// @Summary Get a room
// @Tags Catalog
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [get]
func (h *CatalogHandler) GetRoom(c *gin.Context) {
	item, err := h.service.GetRoom(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, item, err)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.RoomRequest true "Room"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms [post]
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req dto.RoomRequest
	if !bindBody(c, &req, "room") {
		return
	}
	item, err := h.service.CreateRoom(c.Request.Context(), req)
	respond(c, http.StatusCreated, item, err)
}

// UpdateRoom godoc
// @Summary Update a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body dto.RoomRequest true "Room"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms/{id} [put]
func (h *CatalogHandler) UpdateRoom(c *gin.Context) {
	var req dto.RoomRequest
	if !bindBody(c, &req, "room") {
		return
	}
	item, err := h.service.UpdateRoom(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusOK, item, err)
}

// DeleteRoom godoc
// @Summary Delete a room
// @Tags Catalog
// @Param id path string true "Room ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms/{id} [delete]
func (h *CatalogHandler) DeleteRoom(c *gin.Context) {
	respondDeleted(c, h.service.DeleteRoom(c.Request.Context(), c.Param("id")))
}

// ListTimeSlots godoc
// @Summary List timeslots
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslots [get]
func (h *CatalogHandler) ListTimeSlots(c *gin.Context) {
	items, err := h.service.ListTimeSlots(c.Request.Context())
	respond(c, http.StatusOK, items, err)
}

// GetTimeSlot godoc
// @Summary Get a timeslot
// @Tags Catalog
// @Produce json
// @Param id path string true "Timeslot ID"
// @Success 200 {object} response.Envelope
// @Router /timeslots/{id} [get]
func (h *CatalogHandler) GetTimeSlot(c *gin.Context) {
	item, err := h.service.GetTimeSlot(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, item, err)
}

// CreateTimeSlot godoc
// @Summary Create a timeslot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.TimeSlotRequest true "Timeslot"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /timeslots [post]
func (h *CatalogHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.TimeSlotRequest
	if !bindBody(c, &req, "timeslot") {
		return
	}
	item, err := h.service.CreateTimeSlot(c.Request.Context(), req)
	respond(c, http.StatusCreated, item, err)
}

// UpdateTimeSlot godoc
// @Summary Update a timeslot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Timeslot ID"
// @Param payload body dto.TimeSlotRequest true "Timeslot"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /timeslots/{id} [put]
func (h *CatalogHandler) UpdateTimeSlot(c *gin.Context) {
	var req dto.TimeSlotRequest
	if !bindBody(c, &req, "timeslot") {
		return
	}
	item, err := h.service.UpdateTimeSlot(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusOK, item, err)
}

// DeleteTimeSlot godoc
// @Summary Delete a timeslot
// @Tags Catalog
// @Param id path string true "Timeslot ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /timeslots/{id} [delete]
func (h *CatalogHandler) DeleteTimeSlot(c *gin.Context) {
	respondDeleted(c, h.service.DeleteTimeSlot(c.Request.Context(), c.Param("id")))
}

// ListAvailability godoc
// @Summary List faculty availability
// @Tags Catalog
// @Produce json
// @Param facultyId query string false "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *CatalogHandler) ListAvailability(c *gin.Context) {
	items, err := h.service.ListAvailability(c.Request.Context(), c.Query("facultyId"))
	respond(c, http.StatusOK, items, err)
}

// SetAvailability godoc
// @Summary Set faculty availability for a timeslot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.AvailabilityRequest true "Availability"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /availability [put]
func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !bindBody(c, &req, "availability") {
		return
	}
	item, err := h.service.SetAvailability(c.Request.Context(), req)
	respond(c, http.StatusOK, item, err)
}

// DeleteAvailability godoc
// @Summary Delete an availability record
// @Tags Catalog
// @Param id path string true "Availability ID"
// @Success 204
// @Security BearerAuth
// @Router /availability/{id} [delete]
func (h *CatalogHandler) DeleteAvailability(c *gin.Context) {
	respondDeleted(c, h.service.DeleteAvailability(c.Request.Context(), c.Param("id")))
}
