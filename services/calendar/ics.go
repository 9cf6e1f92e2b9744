package calendar

import (
	"strings"
	"time"

	"coursecal/models"

	ics "github.com/arran4/golang-ical"
)

const (
	icsProductID  = "-//coursecal//Course Schedule Export//EN"
	icsLocalStamp = "20060102T150405"
	icsUIDDomain  = "@coursecal"
)

// BuildICS renders events as an iCalendar document. DTSTART/DTEND carry the
// event's TZID so BYDAY is expanded in local time, the same way the Google
// payload is interpreted.
func BuildICS(events []models.RecurringEvent, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for i := range events {
		ev := &events[i]
		uid := ev.CourseID
		if uid == "" {
			uid = ev.Title
		}
		vevent := cal.AddEvent(strings.ReplaceAll(uid, " ", "-") + icsUIDDomain)
		vevent.SetDtStampTime(stamp.UTC())
		vevent.SetSummary(ev.Title)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		vevent.SetDescription(ev.Description)

		tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{ev.TimeZone}}
		vevent.SetProperty(ics.ComponentPropertyDtStart, ev.Start.Format(icsLocalStamp), tzid)
		vevent.SetProperty(ics.ComponentPropertyDtEnd, ev.End.Format(icsLocalStamp), tzid)
		vevent.AddProperty(ics.ComponentPropertyRrule, strings.TrimPrefix(ev.Recurrence, "RRULE:"))
	}
	return cal.Serialize()
}
