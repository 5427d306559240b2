package models

import "time"

// ConflictKind names the double-booking rule a conflict violates.
type ConflictKind string

const (
	ConflictKindFaculty ConflictKind = "faculty"
	ConflictKindRoom    ConflictKind = "room"
	ConflictKindSection ConflictKind = "section"
)

// Conflict is an audit record produced by the conflict detector. It never feeds back into scheduling.
type Conflict struct {
	ID         string       `db:"id" json:"id"`
	Position   int          `db:"position" json:"position"`
	Kind       ConflictKind `db:"kind" json:"kind"`
	EntityID   string       `db:"entity_id" json:"entity_id"`
	TimeSlotID string       `db:"timeslot_id" json:"timeslot_id"`
	Reason     string       `db:"reason" json:"reason"`
	EntryA     string       `db:"entry_a" json:"entry_a"`
	EntryB     string       `db:"entry_b" json:"entry_b"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// ConflictSummary counts conflicts per kind.
type ConflictSummary struct {
	Total   int `json:"total"`
	Faculty int `json:"faculty"`
	Room    int `json:"room"`
	Section int `json:"section"`
}
