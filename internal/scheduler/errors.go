package scheduler

import (
	"errors"
	"fmt"
)

// ErrSearchBudgetExceeded is returned by the backtracking strategy when it gives up before proving
// either a solution or infeasibility.
var ErrSearchBudgetExceeded = errors.New("scheduler: search budget exceeded")

// InfeasibleError names the first (section, course) session for which no feasible
// (faculty, room, timeslot) triple exists.
type InfeasibleError struct {
	SectionID   string
	SectionName string
	CourseID    string
	CourseName  string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no feasible slot for course %s in section %s", e.CourseName, e.SectionName)
}

// MalformedInputError reports entity references that do not resolve.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed scheduling input: " + e.Reason
}

func malformed(format string, args ...any) error {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}
