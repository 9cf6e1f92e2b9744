package schedule

import (
	"strings"

	"github.com/teambition/rrule-go"
)

// Weekday is the closed set of days a course can meet on. Values match
// time.Weekday, so Sunday is 0.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}
var weekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var rruleDays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// AllWeekdays lists the canonical alphabet in ordinal order.
func AllWeekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

func (d Weekday) Valid() bool { return d >= Sunday && d <= Saturday }

// Label returns the canonical human label, e.g. "Mon".
func (d Weekday) Label() string {
	if !d.Valid() {
		return ""
	}
	return weekdayLabels[d]
}

// Code returns the recurrence rule day code, e.g. "MO".
func (d Weekday) Code() string {
	if !d.Valid() {
		return ""
	}
	return weekdayCodes[d]
}

func (d Weekday) Ordinal() int { return int(d) }

func (d Weekday) String() string { return d.Label() }

func (d Weekday) rrule() rrule.Weekday { return rruleDays[d] }

// ParseWeekday maps a label to a Weekday. Besides the canonical labels it
// accepts any casing, full English names and the two letter rule codes.
func ParseWeekday(label string) (Weekday, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return 0, false
	}
	for i := range weekdayLabels {
		if s == strings.ToLower(weekdayLabels[i]) ||
			s == strings.ToLower(weekdayCodes[i]) ||
			s == weekdayNames[i] {
			return Weekday(i), true
		}
	}
	return 0, false
}

// WeekdayFromCode is the reverse of Code.
func WeekdayFromCode(code string) (Weekday, bool) {
	for i, c := range weekdayCodes {
		if c == code {
			return Weekday(i), true
		}
	}
	return 0, false
}

// Encode maps a label to its rule day code. Unknown labels report false.
func Encode(label string) (string, bool) {
	d, ok := ParseWeekday(label)
	if !ok {
		return "", false
	}
	return d.Code(), true
}

// Ordinal maps a label to 0..6 with Sunday = 0.
func Ordinal(label string) (int, bool) {
	d, ok := ParseWeekday(label)
	if !ok {
		return 0, false
	}
	return d.Ordinal(), true
}

// ParseDays converts labels to weekdays in input order. Unknown labels and
// repeats are dropped silently so one bad label does not sink a course.
func ParseDays(labels []string) []Weekday {
	var seen [7]bool
	out := make([]Weekday, 0, len(labels))
	for _, l := range labels {
		d, ok := ParseWeekday(l)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Labels converts weekdays back to canonical labels.
func Labels(days []Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Label())
	}
	return out
}
