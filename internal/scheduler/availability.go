package scheduler

import "github.com/noah-isme/timetable-api/internal/models"

type availabilityKey struct {
	facultyID  string
	timeslotID string
}

// AvailabilityIndex answers whether a faculty may teach at a timeslot.
//
// The index is closed-world: a (faculty, timeslot) pair without a record is unavailable. It is never
// mutated after construction, so one index can be shared by concurrent runs.
type AvailabilityIndex struct {
	permitted map[availabilityKey]bool
}

// NewAvailabilityIndex loads availability records into a lookup keyed by (faculty, timeslot).
// When a pair appears more than once the last record wins.
func NewAvailabilityIndex(records []models.Availability) *AvailabilityIndex {
	permitted := make(map[availabilityKey]bool, len(records))
	for _, record := range records {
		permitted[availabilityKey{facultyID: record.FacultyID, timeslotID: record.TimeSlotID}] = record.IsAvailable
	}
	return &AvailabilityIndex{permitted: permitted}
}

// IsAvailable reports true only when a record exists for the pair and grants permission.
func (a *AvailabilityIndex) IsAvailable(facultyID, timeslotID string) bool {
	if a == nil {
		return false
	}
	return a.permitted[availabilityKey{facultyID: facultyID, timeslotID: timeslotID}]
}

// Len returns the number of distinct (faculty, timeslot) pairs with a record.
func (a *AvailabilityIndex) Len() int {
	if a == nil {
		return 0
	}
	return len(a.permitted)
}
