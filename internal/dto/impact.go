package dto

import "github.com/noah-isme/timetable-api/internal/models"

// FacultyImpactRequest names the faculty whose absence is analysed.
type FacultyImpactRequest struct {
	FacultyID string `json:"facultyId" validate:"required"`
}

// RoomShortageRequest names the room whose loss is analysed.
type RoomShortageRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

// BulkFacultyImpactRequest analyses several faculties at once.
type BulkFacultyImpactRequest struct {
	FacultyIDs []string `json:"facultyIds" validate:"required,min=1,dive,required"`
}

// BulkFacultyImpactResponse ranks faculties by impact, most critical first.
type BulkFacultyImpactResponse struct {
	MostCritical models.Impact   `json:"mostCritical"`
	Impacts      []models.Impact `json:"impacts"`
}
