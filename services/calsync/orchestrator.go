package calsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursecal/models"
	"coursecal/services/calendar"
	"coursecal/services/schedule"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency   = 4
	defaultInsertTimeout = 15 * time.Second
	defaultMaxCourses    = 50
)

// ErrAuthFailure is returned by Sync when the calendar rejected the
// credential. The outcome list is still returned.
var ErrAuthFailure = schedule.ErrAuthFailure

// ErrInvalidRequest marks batch-level validation failures.
var ErrInvalidRequest = errors.New("invalid sync request")

type Config struct {
	CalendarID    string
	Concurrency   int
	InsertTimeout time.Duration
	MaxCourses    int
}

// Orchestrator compiles every course and inserts one recurring event per
// course. Courses are independent: a failure is recorded on that course
// and the rest of the batch carries on, except for auth failures which stop
// the batch.
type Orchestrator struct {
	compiler *schedule.Compiler
	calendar calendar.Service
	cfg      Config
	logger   *zap.Logger
}

func NewOrchestrator(compiler *schedule.Compiler, cal calendar.Service, cfg Config, logger *zap.Logger) *Orchestrator {
	if cfg.CalendarID == "" {
		cfg.CalendarID = calendar.PrimaryCalendarID
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.InsertTimeout <= 0 {
		cfg.InsertTimeout = defaultInsertTimeout
	}
	if cfg.MaxCourses <= 0 {
		cfg.MaxCourses = defaultMaxCourses
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{compiler: compiler, calendar: cal, cfg: cfg, logger: logger}
}

// Validate checks the batch-level preconditions shared by sync and export.
func (o *Orchestrator) Validate(courses []models.Course, window models.SemesterWindow) error {
	if !window.Valid() {
		return fmt.Errorf("%w: semester start must not be after end", ErrInvalidRequest)
	}
	if len(courses) == 0 {
		return fmt.Errorf("%w: no courses", ErrInvalidRequest)
	}
	if len(courses) > o.cfg.MaxCourses {
		return fmt.Errorf("%w: %d courses exceeds the limit of %d", ErrInvalidRequest, len(courses), o.cfg.MaxCourses)
	}
	return nil
}

// Sync processes courses in input order and returns one outcome per course
// at the same index. Calling it twice creates the events twice.
func (o *Orchestrator) Sync(ctx context.Context, token string, courses []models.Course, window models.SemesterWindow) ([]models.CourseOutcome, error) {
	if err := o.Validate(courses, window); err != nil {
		return nil, err
	}

	outcomes := make([]models.CourseOutcome, len(courses))
	for i, c := range courses {
		outcomes[i] = models.CourseOutcome{CourseID: c.ID, Status: models.StatusSkipped}
	}

	batchCtx, abort := context.WithCancel(ctx)
	defer abort()

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for i := range courses {
		g.Go(func() error {
			if batchCtx.Err() != nil {
				return nil
			}
			outcomes[i] = o.syncCourse(batchCtx, token, courses[i], window)
			if outcomes[i].ErrorKind == string(schedule.KindAuthFailure) {
				abort()
			}
			return nil
		})
	}
	_ = g.Wait()

	created, failed, skipped := tally(outcomes)
	o.logger.Info("sync: batch finished",
		zap.Int("courses", len(courses)),
		zap.Int("created", created),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)

	for _, out := range outcomes {
		if out.ErrorKind == string(schedule.KindAuthFailure) {
			return outcomes, ErrAuthFailure
		}
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (o *Orchestrator) syncCourse(ctx context.Context, token string, course models.Course, window models.SemesterWindow) models.CourseOutcome {
	out := models.CourseOutcome{CourseID: course.ID}

	spec, err := o.compiler.CompileCourse(course, window)
	if err != nil {
		return o.fail(out, course, err)
	}
	out.Rule = spec.Rule
	out.Occurrences = spec.Occurrences
	out.NoOccurrences = spec.NoOccurrences
	if spec.NoOccurrences {
		o.logger.Warn("sync: course has no occurrences inside the semester",
			zap.String("courseId", course.ID),
			zap.String("rule", spec.Rule),
		)
	}

	ev := schedule.BuildEvent(course, spec)

	insertCtx, cancel := context.WithTimeout(ctx, o.cfg.InsertTimeout)
	defer cancel()
	eventID, err := o.calendar.InsertEvent(insertCtx, token, o.cfg.CalendarID, &ev)
	if err != nil {
		if schedule.KindOf(err) == "" {
			err = schedule.NewError(schedule.KindRemoteInsertFailure, course.ID, "calendar insert failed", err)
		}
		return o.fail(out, course, err)
	}

	out.Status = models.StatusCreated
	out.EventID = eventID
	o.logger.Info("sync: event created",
		zap.String("courseId", course.ID),
		zap.String("eventId", eventID),
		zap.Int("occurrences", spec.Occurrences),
	)
	return out
}

func (o *Orchestrator) fail(out models.CourseOutcome, course models.Course, err error) models.CourseOutcome {
	out.Status = models.StatusFailed
	out.ErrorKind = string(schedule.KindOf(err))
	out.Error = err.Error()
	o.logger.Warn("sync: course failed",
		zap.String("courseId", course.ID),
		zap.String("code", course.Code),
		zap.String("kind", out.ErrorKind),
		zap.Error(err),
	)
	return out
}

// Compile runs the resolver and compiler for every course without touching
// the calendar. Courses that fail to compile are reported and left out of
// the returned events.
func (o *Orchestrator) Compile(courses []models.Course, window models.SemesterWindow) ([]models.RecurringEvent, []models.CourseOutcome, error) {
	if err := o.Validate(courses, window); err != nil {
		return nil, nil, err
	}
	events := make([]models.RecurringEvent, 0, len(courses))
	outcomes := make([]models.CourseOutcome, len(courses))
	for i, course := range courses {
		out := models.CourseOutcome{CourseID: course.ID}
		spec, err := o.compiler.CompileCourse(course, window)
		if err != nil {
			outcomes[i] = o.fail(out, course, err)
			continue
		}
		out.Status = models.StatusCompiled
		out.Rule = spec.Rule
		out.Occurrences = spec.Occurrences
		out.NoOccurrences = spec.NoOccurrences
		outcomes[i] = out
		events = append(events, schedule.BuildEvent(course, spec))
	}
	return events, outcomes, nil
}

// AllCreated reports whether every outcome succeeded.
func AllCreated(outcomes []models.CourseOutcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, o := range outcomes {
		if o.Status != models.StatusCreated {
			return false
		}
	}
	return true
}

func tally(outcomes []models.CourseOutcome) (created, failed, skipped int) {
	for _, o := range outcomes {
		switch o.Status {
		case models.StatusCreated:
			created++
		case models.StatusFailed:
			failed++
		default:
			skipped++
		}
	}
	return
}
