package calendar

import (
	"context"

	"coursecal/models"
)

const PrimaryCalendarID = "primary"

// Service is the remote event store. InsertEvent returns the identifier the
// calendar assigned to the new event.
//
// Errors are schedule.ScheduleError values: auth_failure when the token is
// missing, expired or lacks scope, remote_insert_failure for everything else.
type Service interface {
	InsertEvent(ctx context.Context, token, calendarID string, ev *models.RecurringEvent) (string, error)
}
