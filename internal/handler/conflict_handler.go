package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type conflictService interface {
	Detect(ctx context.Context) (*dto.ConflictReport, error)
	List(ctx context.Context, filter dto.ConflictFilter) (*dto.ConflictReport, error)
	Enqueue(ctx context.Context) (*dto.ConflictJobResponse, error)
	JobStatus(id string) (*dto.ConflictJobResponse, error)
	Export(ctx context.Context, format string) ([]byte, export.Format, error)
}

// ConflictHandler exposes conflict detection endpoints.
type ConflictHandler struct {
	service conflictService
}

// NewConflictHandler constructs the handler.
func NewConflictHandler(svc *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{service: svc}
}

// Detect godoc
// @Summary Detect conflicts in the stored timetable
// @Description Replaces the stored conflict set. With async=true the scan runs on the background queue.
// @Tags Conflicts
// @Produce json
// @Param async query bool false "Run in background"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /conflicts/detect [post]
func (h *ConflictHandler) Detect(c *gin.Context) {
	if c.Query("async") == "true" {
		job, err := h.service.Enqueue(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusAccepted, job, nil)
		return
	}
	report, err := h.service.Detect(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// List godoc
// @Summary List stored conflicts
// @Tags Conflicts
// @Produce json
// @Param kind query string false "faculty, room or section"
// @Success 200 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	var filter dto.ConflictFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	report, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Job godoc
// @Summary Get background detection status
// @Tags Conflicts
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /conflicts/jobs/{id} [get]
func (h *ConflictHandler) Job(c *gin.Context) {
	status, err := h.service.JobStatus(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Export godoc
// @Summary Export stored conflicts
// @Tags Conflicts
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /conflicts/export [get]
func (h *ConflictHandler) Export(c *gin.Context) {
	serveExport(c, "conflicts", h.service.Export)
}
