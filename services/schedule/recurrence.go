package schedule

import (
	"fmt"
	"strings"
	"time"

	"coursecal/models"

	"cloud.google.com/go/civil"
	"github.com/teambition/rrule-go"
)

const (
	DefaultTimeZone = "America/New_York"

	// maxCountedOccurrences bounds rule expansion when counting occurrences.
	maxCountedOccurrences = 1000

	untilDateLayout = "20060102"
	clockLayout     = "15:04"
)

type CompilerConfig struct {
	// TimeZone is an IANA zone name. Empty means DefaultTimeZone.
	TimeZone string
}

// Compiler turns a course meeting pattern into a weekly recurrence anchored
// in a fixed time zone.
type Compiler struct {
	tz  string
	loc *time.Location
}

// RecurrenceSpec is the compiled form of one course.
type RecurrenceSpec struct {
	Rule          string    `json:"rule"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TimeZone      string    `json:"timeZone"`
	Occurrences   int       `json:"occurrences"`
	NoOccurrences bool      `json:"noOccurrences"`
}

// RecurrenceLine is the rule in the form calendars expect in a recurrence
// list.
func (s RecurrenceSpec) RecurrenceLine() string {
	return "RRULE:" + s.Rule
}

func NewCompiler(cfg CompilerConfig) (*Compiler, error) {
	tz := strings.TrimSpace(cfg.TimeZone)
	if tz == "" {
		tz = DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("schedule: invalid time zone %q: %w", tz, err)
	}
	return &Compiler{tz: tz, loc: loc}, nil
}

func (c *Compiler) TimeZone() string { return c.tz }

func (c *Compiler) Location() *time.Location { return c.loc }

// ParseClock parses a 24 hour "HH:MM" time of day. A single digit hour is
// accepted.
func ParseClock(s string) (civil.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return civil.Time{}, err
	}
	return civil.TimeOf(t), nil
}

func minutesOf(t civil.Time) int { return t.Hour*60 + t.Minute }

// FormatUntil renders the inclusive rule bound: the last second of end, UTC.
func FormatUntil(end civil.Date) string {
	return end.In(time.UTC).Format(untilDateLayout) + "T235959Z"
}

// BuildRule renders FREQ=WEEKLY;BYDAY=..;UNTIL=.. for the given days.
func BuildRule(days []Weekday, end civil.Date) string {
	codes := make([]string, 0, len(days))
	for _, d := range days {
		codes = append(codes, d.Code())
	}
	return fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", strings.Join(codes, ","), FormatUntil(end))
}

// Compile builds the recurrence for course whose first meeting falls on
// first. It fails with an invalid schedule error when no day label is
// recognized or the time range is unusable.
func (c *Compiler) Compile(course models.Course, first, semesterEnd civil.Date) (RecurrenceSpec, error) {
	days := ParseDays(course.Days)
	if len(days) == 0 {
		return RecurrenceSpec{}, NewInvalidScheduleError(course.ID, "no recognizable weekdays in "+fmt.Sprintf("%q", course.Days))
	}

	startClock, err := ParseClock(course.StartTime)
	if err != nil {
		return RecurrenceSpec{}, NewError(KindInvalidSchedule, course.ID, fmt.Sprintf("bad start time %q", course.StartTime), err)
	}
	endClock, err := ParseClock(course.EndTime)
	if err != nil {
		return RecurrenceSpec{}, NewError(KindInvalidSchedule, course.ID, fmt.Sprintf("bad end time %q", course.EndTime), err)
	}
	if minutesOf(startClock) >= minutesOf(endClock) {
		return RecurrenceSpec{}, NewInvalidScheduleError(course.ID,
			fmt.Sprintf("start time %s is not before end time %s", course.StartTime, course.EndTime))
	}

	start := civil.DateTime{Date: first, Time: startClock}.In(c.loc)
	end := civil.DateTime{Date: first, Time: endClock}.In(c.loc)
	until := time.Date(semesterEnd.Year, semesterEnd.Month, semesterEnd.Day, 23, 59, 59, 0, time.UTC)

	count, err := countOccurrences(days, start, until)
	if err != nil {
		return RecurrenceSpec{}, NewError(KindInvalidSchedule, course.ID, "rule expansion failed", err)
	}

	return RecurrenceSpec{
		Rule:          BuildRule(days, semesterEnd),
		Start:         start,
		End:           end,
		TimeZone:      c.tz,
		Occurrences:   count,
		NoOccurrences: count == 0,
	}, nil
}

// CompileCourse resolves the first meeting on or after the window start and
// compiles the course against the window end.
func (c *Compiler) CompileCourse(course models.Course, window models.SemesterWindow) (RecurrenceSpec, error) {
	days := ParseDays(course.Days)
	if len(days) == 0 {
		return RecurrenceSpec{}, NewInvalidScheduleError(course.ID, "no recognizable weekdays in "+fmt.Sprintf("%q", course.Days))
	}
	first, err := FirstOccurrenceOnOrAfter(window.Start, days)
	if err != nil {
		if se, ok := err.(*ScheduleError); ok {
			se.CourseID = course.ID
		}
		return RecurrenceSpec{}, err
	}
	return c.Compile(course, first, window.End)
}

func countOccurrences(days []Weekday, start, until time.Time) (int, error) {
	if start.After(until) {
		return 0, nil
	}
	byDay := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		byDay = append(byDay, d.rrule())
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Until:     until,
		Byweekday: byDay,
	})
	if err != nil {
		return 0, err
	}
	next := r.Iterator()
	n := 0
	for n < maxCountedOccurrences {
		if _, ok := next(); !ok {
			break
		}
		n++
	}
	return n, nil
}
