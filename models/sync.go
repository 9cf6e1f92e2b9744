package models

import "cloud.google.com/go/civil"

// Outcome statuses for a single course in a sync batch.
const (
	StatusCreated = "created"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"

	// StatusCompiled is used by export, which never talks to a calendar.
	StatusCompiled = "compiled"
)

// SyncRequest is the body of POST /api/calendar/add and /api/calendar/export.
type SyncRequest struct {
	Courses   []Course   `json:"courses"`
	StartDate civil.Date `json:"startDate"`
	EndDate   civil.Date `json:"endDate"`
}

// Window returns the semester window described by the request.
func (r SyncRequest) Window() SemesterWindow {
	return SemesterWindow{Start: r.StartDate, End: r.EndDate}
}

// CourseOutcome reports what happened to one course during a sync.
type CourseOutcome struct {
	CourseID      string `json:"courseId"`
	Status        string `json:"status"`                  // created, compiled, failed or skipped
	EventID       string `json:"eventId,omitempty"`       // remote-assigned on success
	ErrorKind     string `json:"errorKind,omitempty"`     // see schedule.ErrorKind
	Error         string `json:"error,omitempty"`         // human readable detail
	Rule          string `json:"rule,omitempty"`          // compiled recurrence rule
	Occurrences   int    `json:"occurrences"`             // expanded occurrence count
	NoOccurrences bool   `json:"noOccurrences,omitempty"` // first occurrence is after the semester end
}

// SyncResponse is returned by the sync endpoint.
type SyncResponse struct {
	Success bool            `json:"success"`
	Results []CourseOutcome `json:"results"`
}
