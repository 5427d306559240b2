package scheduler

import (
	"github.com/samber/lo"

	"github.com/noah-isme/timetable-api/internal/models"
)

// Session is one required course session of a section.
type Session struct {
	Section models.Section
	Course  models.Course
}

// BuildDemand expands the input into the ordered list of sessions to schedule.
//
// With an explicit per-section demand the sessions follow the section order and, within a section, the
// order of its course list. Without one every section requires every course once, or SessionsPerWeek times
// when expandWeekly is set.
func BuildDemand(in Input, expandWeekly bool) ([]Session, error) {
	if dups := lo.FindDuplicates(lo.Map(in.Sections, func(s models.Section, _ int) string { return s.ID })); len(dups) > 0 {
		return nil, malformed("duplicate section id %q", dups[0])
	}
	if dups := lo.FindDuplicates(lo.Map(in.Courses, func(c models.Course, _ int) string { return c.ID })); len(dups) > 0 {
		return nil, malformed("duplicate course id %q", dups[0])
	}

	if in.Demand == nil {
		sessions := make([]Session, 0, len(in.Sections)*len(in.Courses))
		for _, section := range in.Sections {
			for _, course := range in.Courses {
				repeat := 1
				if expandWeekly && course.SessionsPerWeek > 1 {
					repeat = course.SessionsPerWeek
				}
				for i := 0; i < repeat; i++ {
					sessions = append(sessions, Session{Section: section, Course: course})
				}
			}
		}
		return sessions, nil
	}

	sections := lo.KeyBy(in.Sections, func(s models.Section) string { return s.ID })
	courses := lo.KeyBy(in.Courses, func(c models.Course) string { return c.ID })
	for sectionID := range in.Demand {
		if _, ok := sections[sectionID]; !ok {
			return nil, malformed("demand references unknown section %q", sectionID)
		}
	}

	var sessions []Session
	for _, section := range in.Sections {
		for _, courseID := range in.Demand[section.ID] {
			course, ok := courses[courseID]
			if !ok {
				return nil, malformed("demand for section %q references unknown course %q", section.ID, courseID)
			}
			sessions = append(sessions, Session{Section: section, Course: course})
		}
	}
	return sessions, nil
}
