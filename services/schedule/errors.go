package schedule

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can decide between aborting a
// whole request and reporting a single course.
type ErrorKind string

const (
	KindExtractionFailure    ErrorKind = "extraction_failure"
	KindInvalidSchedule      ErrorKind = "invalid_schedule"
	KindOccurrenceResolution ErrorKind = "occurrence_resolution"
	KindRemoteInsertFailure  ErrorKind = "remote_insert_failure"
	KindAuthFailure          ErrorKind = "auth_failure"
)

// Sentinels for errors.Is. A *ScheduleError matches the sentinel of its kind.
var (
	ErrExtractionFailure    = errors.New("extraction failure")
	ErrInvalidSchedule      = errors.New("invalid schedule")
	ErrOccurrenceResolution = errors.New("occurrence resolution failed")
	ErrRemoteInsertFailure  = errors.New("remote insert failure")
	ErrAuthFailure          = errors.New("auth failure")
)

var sentinels = map[ErrorKind]error{
	KindExtractionFailure:    ErrExtractionFailure,
	KindInvalidSchedule:      ErrInvalidSchedule,
	KindOccurrenceResolution: ErrOccurrenceResolution,
	KindRemoteInsertFailure:  ErrRemoteInsertFailure,
	KindAuthFailure:          ErrAuthFailure,
}

type ScheduleError struct {
	Kind     ErrorKind
	CourseID string
	Message  string
	Err      error
}

func (e *ScheduleError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.CourseID != "" {
		msg = fmt.Sprintf("%s: course %s: %s", e.Kind, e.CourseID, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

func (e *ScheduleError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func NewError(kind ErrorKind, courseID, msg string, cause error) error {
	return &ScheduleError{Kind: kind, CourseID: courseID, Message: msg, Err: cause}
}

func NewInvalidScheduleError(courseID, msg string) error {
	return NewError(KindInvalidSchedule, courseID, msg, nil)
}

// KindOf returns the kind carried by err, or "" when err is not a
// *ScheduleError.
func KindOf(err error) ErrorKind {
	var se *ScheduleError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
