package schedule

import (
	"fmt"

	"coursecal/models"
)

// EventTitle is "CODE - NAME".
func EventTitle(course models.Course) string {
	return fmt.Sprintf("%s - %s", course.Code, course.Name)
}

func EventDescription(course models.Course) string {
	return fmt.Sprintf("Course: %s\nCode: %s", course.Name, course.Code)
}

// BuildEvent assembles the calendar payload for a compiled course. The
// location is passed through untouched.
func BuildEvent(course models.Course, spec RecurrenceSpec) models.RecurringEvent {
	return models.RecurringEvent{
		CourseID:    course.ID,
		Title:       EventTitle(course),
		Location:    course.Location,
		Description: EventDescription(course),
		Start:       spec.Start,
		End:         spec.End,
		TimeZone:    spec.TimeZone,
		Recurrence:  spec.RecurrenceLine(),
	}
}
