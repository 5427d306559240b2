package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
)

type impactService interface {
	FacultyImpact(ctx context.Context, req dto.FacultyImpactRequest) (*models.Impact, error)
	RoomShortage(ctx context.Context, req dto.RoomShortageRequest) (*models.Impact, error)
	BulkFacultyImpact(ctx context.Context, req dto.BulkFacultyImpactRequest) (*dto.BulkFacultyImpactResponse, error)
}

// ImpactHandler exposes what-if analyses over the stored timetable.
type ImpactHandler struct {
	service impactService
}

// NewImpactHandler constructs the handler.
func NewImpactHandler(svc *service.ImpactService) *ImpactHandler {
	return &ImpactHandler{service: svc}
}

// FacultyImpact godoc
// @Summary Analyse the loss of a faculty
// @Description Read-only; the stored timetable is not changed.
// @Tags Simulations
// @Accept json
// @Produce json
// @Param payload body dto.FacultyImpactRequest true "Faculty"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /simulations/faculty-impact [post]
func (h *ImpactHandler) FacultyImpact(c *gin.Context) {
	var req dto.FacultyImpactRequest
	if !bindBody(c, &req, "faculty impact") {
		return
	}
	impact, err := h.service.FacultyImpact(c.Request.Context(), req)
	respond(c, http.StatusOK, impact, err)
}

// RoomShortage godoc
// @Summary Analyse the loss of a room
// @Tags Simulations
// @Accept json
// @Produce json
// @Param payload body dto.RoomShortageRequest true "Room"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /simulations/room-shortage [post]
func (h *ImpactHandler) RoomShortage(c *gin.Context) {
	var req dto.RoomShortageRequest
	if !bindBody(c, &req, "room shortage") {
		return
	}
	impact, err := h.service.RoomShortage(c.Request.Context(), req)
	respond(c, http.StatusOK, impact, err)
}

// BulkFacultyImpact godoc
// @Summary Rank several faculties by impact
// @Tags Simulations
// @Accept json
// @Produce json
// @Param payload body dto.BulkFacultyImpactRequest true "Faculties"
// @Success 200 {object} response.Envelope
// @Router /simulations/bulk-faculty [post]
func (h *ImpactHandler) BulkFacultyImpact(c *gin.Context) {
	var req dto.BulkFacultyImpactRequest
	if !bindBody(c, &req, "bulk faculty impact") {
		return
	}
	resp, err := h.service.BulkFacultyImpact(c.Request.Context(), req)
	respond(c, http.StatusOK, resp, err)
}
