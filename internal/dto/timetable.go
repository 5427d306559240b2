package dto

import "github.com/noah-isme/timetable-api/internal/models"

// GenerateTimetableRequest triggers a full regeneration of the timetable.
type GenerateTimetableRequest struct {
	// Strategy overrides the configured search strategy (first_fit or backtracking).
	Strategy string `json:"strategy" validate:"omitempty,oneof=first_fit backtracking"`
	// Demand lists the courses each section needs. When omitted every section takes every course.
	Demand map[string][]string `json:"demand" validate:"omitempty,dive,keys,required,endkeys,dive,required"`
}

// GenerateTimetableResponse summarises a successful run.
type GenerateTimetableResponse struct {
	Run     models.TimetableRun `json:"run"`
	Entries []models.Assignment `json:"entries"`
}

// ClearTimetableResponse reports how many entries were removed.
type ClearTimetableResponse struct {
	Deleted int64 `json:"deleted"`
}
