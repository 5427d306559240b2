package models

import "time"

// Assignment is one scheduled course session: a (section, course, faculty, room, timeslot) tuple.
type Assignment struct {
	ID         string    `db:"id" json:"id"`
	RunID      string    `db:"run_id" json:"run_id"`
	Position   int       `db:"position" json:"position"`
	SectionID  string    `db:"section_id" json:"section_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	FacultyID  string    `db:"faculty_id" json:"faculty_id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	TimeSlotID string    `db:"timeslot_id" json:"timeslot_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TimetableEntryView is an assignment joined with display names, used for exports.
type TimetableEntryView struct {
	Assignment
	SectionName string `db:"section_name" json:"section_name"`
	CourseName  string `db:"course_name" json:"course_name"`
	CourseKind  string `db:"course_kind" json:"course_kind"`
	FacultyName string `db:"faculty_name" json:"faculty_name"`
	RoomName    string `db:"room_name" json:"room_name"`
	Day         string `db:"day" json:"day"`
	Slot        int    `db:"slot" json:"slot"`
}

// RunStatus captures the outcome of a scheduling run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// TimetableRun records one invocation of the scheduling engine.
type TimetableRun struct {
	ID         string    `db:"id" json:"id"`
	Strategy   string    `db:"strategy" json:"strategy"`
	Status     RunStatus `db:"status" json:"status"`
	Entries    int       `db:"entries" json:"entries"`
	Error      *string   `db:"error" json:"error,omitempty"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}
