package models

import (
	"fmt"
	"time"
)

// SessionKind classifies both courses and rooms; a course can only be held in a room of the same kind.
type SessionKind string

const (
	SessionKindTheory SessionKind = "theory"
	SessionKindLab    SessionKind = "lab"
)

// Valid reports whether the kind is one of the supported values.
func (k SessionKind) Valid() bool {
	return k == SessionKindTheory || k == SessionKindLab
}

// Faculty is an instructor who can be assigned to course sessions.
type Faculty struct {
	ID        string    `db:"id" json:"id" mapstructure:"id"`
	Name      string    `db:"name" json:"name" mapstructure:"name"`
	MaxLoad   int       `db:"max_load" json:"max_load" mapstructure:"max_load"`
	CreatedAt time.Time `db:"created_at" json:"created_at" mapstructure:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" mapstructure:"-"`
}

// Course is a subject taught to sections.
type Course struct {
	ID              string      `db:"id" json:"id" mapstructure:"id"`
	Name            string      `db:"name" json:"name" mapstructure:"name"`
	Kind            SessionKind `db:"kind" json:"kind" mapstructure:"kind"`
	SessionsPerWeek int         `db:"sessions_per_week" json:"sessions_per_week" mapstructure:"sessions_per_week"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at" mapstructure:"-"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at" mapstructure:"-"`
}

// Section is a cohort of students attending courses together.
type Section struct {
	ID           string    `db:"id" json:"id" mapstructure:"id"`
	Name         string    `db:"name" json:"name" mapstructure:"name"`
	StudentCount int       `db:"student_count" json:"student_count" mapstructure:"student_count"`
	Program      *string   `db:"program" json:"program,omitempty" mapstructure:"program"`
	Batch        *string   `db:"batch" json:"batch,omitempty" mapstructure:"batch"`
	CreatedAt    time.Time `db:"created_at" json:"created_at" mapstructure:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at" mapstructure:"-"`
}

// Room is a physical space with a kind and a seat capacity.
type Room struct {
	ID        string      `db:"id" json:"id" mapstructure:"id"`
	Name      string      `db:"name" json:"name" mapstructure:"name"`
	Kind      SessionKind `db:"kind" json:"kind" mapstructure:"kind"`
	Capacity  int         `db:"capacity" json:"capacity" mapstructure:"capacity"`
	CreatedAt time.Time   `db:"created_at" json:"created_at" mapstructure:"-"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at" mapstructure:"-"`
}

// TimeSlot is the atomic unit of scheduling; (day, slot) is unique.
type TimeSlot struct {
	ID        string    `db:"id" json:"id" mapstructure:"id"`
	Day       string    `db:"day" json:"day" mapstructure:"day"`
	Slot      int       `db:"slot" json:"slot" mapstructure:"slot"`
	StartTime *string   `db:"start_time" json:"start_time,omitempty" mapstructure:"start_time"`
	EndTime   *string   `db:"end_time" json:"end_time,omitempty" mapstructure:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at" mapstructure:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" mapstructure:"-"`
}

// Label renders the slot as "DAY #n".
func (t TimeSlot) Label() string {
	return fmt.Sprintf("%s #%d", t.Day, t.Slot)
}

// Availability grants or denies a faculty permission to teach at a timeslot.
type Availability struct {
	ID          string    `db:"id" json:"id" mapstructure:"id"`
	FacultyID   string    `db:"faculty_id" json:"faculty_id" mapstructure:"faculty_id"`
	TimeSlotID  string    `db:"timeslot_id" json:"timeslot_id" mapstructure:"timeslot_id"`
	IsAvailable bool      `db:"is_available" json:"is_available" mapstructure:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at" mapstructure:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at" mapstructure:"-"`
}

// Catalog bundles every entity collection a scheduling run consumes, in input order.
type Catalog struct {
	Faculties    []Faculty
	Courses      []Course
	Sections     []Section
	Rooms        []Room
	TimeSlots    []TimeSlot
	Availability []Availability
}
