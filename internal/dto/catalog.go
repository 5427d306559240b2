package dto

// FacultyRequest creates or updates a faculty.
type FacultyRequest struct {
	ID      string `json:"id" validate:"omitempty,max=64"`
	Name    string `json:"name" validate:"required,max=120"`
	MaxLoad int    `json:"maxLoad" validate:"min=0"`
}

// CourseRequest creates or updates a course.
type CourseRequest struct {
	ID              string `json:"id" validate:"omitempty,max=64"`
	Name            string `json:"name" validate:"required,max=120"`
	Kind            string `json:"kind" validate:"required,oneof=theory lab"`
	SessionsPerWeek int    `json:"sessionsPerWeek" validate:"omitempty,min=1,max=20"`
}

// SectionRequest creates or updates a section.
type SectionRequest struct {
	ID           string  `json:"id" validate:"omitempty,max=64"`
	Name         string  `json:"name" validate:"required,max=120"`
	StudentCount int     `json:"studentCount" validate:"min=0"`
	Program      *string `json:"program" validate:"omitempty,max=120"`
	Batch        *string `json:"batch" validate:"omitempty,max=32"`
}

// RoomRequest creates or updates a room.
type RoomRequest struct {
	ID       string `json:"id" validate:"omitempty,max=64"`
	Name     string `json:"name" validate:"required,max=120"`
	Kind     string `json:"kind" validate:"required,oneof=theory lab"`
	Capacity int    `json:"capacity" validate:"min=0"`
}

// TimeSlotRequest creates or updates a timeslot.
type TimeSlotRequest struct {
	ID        string  `json:"id" validate:"omitempty,max=64"`
	Day       string  `json:"day" validate:"required,max=16"`
	Slot      int     `json:"slot" validate:"min=0"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// AvailabilityRequest grants or revokes a faculty's availability at a timeslot.
type AvailabilityRequest struct {
	FacultyID   string `json:"facultyId" validate:"required"`
	TimeSlotID  string `json:"timeslotId" validate:"required"`
	IsAvailable *bool  `json:"isAvailable" validate:"required"`
}
