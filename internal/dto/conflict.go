package dto

import "github.com/noah-isme/timetable-api/internal/models"

// ConflictReport is the outcome of a detection pass.
type ConflictReport struct {
	Conflicts []models.Conflict      `json:"conflicts"`
	Summary   models.ConflictSummary `json:"summary"`
}

// ConflictJobResponse acknowledges an asynchronous detection request.
type ConflictJobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// ConflictFilter narrows stored conflicts.
type ConflictFilter struct {
	Kind string `form:"kind" validate:"omitempty,oneof=faculty room section"`
}
