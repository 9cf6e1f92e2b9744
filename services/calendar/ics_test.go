package calendar

import (
	"strings"
	"testing"
	"time"

	"coursecal/models"

	ics "github.com/arran4/golang-ical"
)

func TestBuildICS_RoundTrip(t *testing.T) {
	ev := sampleEvent(t)
	out := BuildICS([]models.RecurringEvent{*ev}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("not an iCalendar document:\n%s", out)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0]
	if p := got.GetProperty(ics.ComponentPropertyRrule); p == nil || p.Value != "FREQ=WEEKLY;BYDAY=MO,WE;UNTIL=20240501T235959Z" {
		t.Errorf("RRULE = %+v", p)
	}
	start := got.GetProperty(ics.ComponentPropertyDtStart)
	if start == nil || start.Value != "20240103T100000" {
		t.Fatalf("DTSTART = %+v", start)
	}
	if tz := start.ICalParameters[string(ics.ParameterTzid)]; len(tz) != 1 || tz[0] != "America/New_York" {
		t.Errorf("DTSTART TZID = %v", tz)
	}
	if end := got.GetProperty(ics.ComponentPropertyDtEnd); end == nil || end.Value != "20240103T113000" {
		t.Errorf("DTEND = %+v", end)
	}
	if s := got.GetProperty(ics.ComponentPropertySummary); s == nil || s.Value != ev.Title {
		t.Errorf("SUMMARY = %+v", s)
	}
	if got.Id() != "1@coursecal" {
		t.Errorf("UID = %q", got.Id())
	}
}

func TestBuildICS_Empty(t *testing.T) {
	out := BuildICS(nil, time.Now())
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("no events expected")
	}
}
