package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Course is a single class meeting pattern as extracted from a schedule image
// or edited by the user during review.
type Course struct {
	ID        string   `json:"id"`        // opaque, stable within a session
	Code      string   `json:"code"`      // short label, e.g. "CS 101"
	Name      string   `json:"name"`      // display title
	StartTime string   `json:"startTime"` // local time of day, "HH:MM"
	EndTime   string   `json:"endTime"`   // local time of day, "HH:MM"
	Days      []string `json:"days"`      // weekday labels, e.g. ["Mon", "Wed"]
	Location  string   `json:"location"`  // free text, may be empty
}

// SemesterWindow is the inclusive date range bounding a course's events.
type SemesterWindow struct {
	Start civil.Date `json:"startDate"`
	End   civil.Date `json:"endDate"`
}

// Valid reports whether both dates are real dates and Start <= End.
func (w SemesterWindow) Valid() bool {
	return w.Start.IsValid() && w.End.IsValid() && !w.End.Before(w.Start)
}

// RecurringEvent is the calendar payload derived from one course. It is
// rebuilt on every sync and never stored.
type RecurringEvent struct {
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"` // first occurrence start
	End         time.Time `json:"end"`   // first occurrence end
	TimeZone    string    `json:"timeZone"`
	Recurrence  string    `json:"recurrence"` // "RRULE:..." line
}

// Extraction sources.
const (
	SourceLive   = "live"
	SourceSample = "sample"
	SourceCache  = "cache"
)

// ExtractionResult is what the extraction gateway hands back to the caller.
type ExtractionResult struct {
	Courses []Course `json:"courses"`
	Source  string   `json:"source"` // "live", "sample" or "cache"
}
