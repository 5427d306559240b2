package models

// Severity grades how disruptive losing a resource would be.
type Severity string

const (
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ImpactKind names the what-if scenario an impact answers.
type ImpactKind string

const (
	ImpactFacultyUnavailable ImpactKind = "faculty_unavailable"
	ImpactRoomShortage       ImpactKind = "room_shortage"
)

// Impact estimates what the stored timetable loses when one faculty or room drops out. It is read-only
// analysis; nothing is rescheduled.
type Impact struct {
	Kind             ImpactKind   `json:"kind"`
	EntityID         string       `json:"entity_id"`
	Score            int          `json:"impact_score"`
	Severity         Severity     `json:"severity"`
	ClassesAffected  int          `json:"classes_affected"`
	StudentsImpacted int          `json:"students_impacted"`
	Rank             int          `json:"rank,omitempty"`
	Affected         []Assignment `json:"affected"`
	Alternatives     []Room       `json:"alternatives,omitempty"`
}
