package schedule

import (
	"time"

	"cloud.google.com/go/civil"
)

const daysPerWeek = 7

// FirstOccurrenceOnOrAfter returns the first date on or after ref whose
// weekday is one of targets. The scan never looks past ref+6.
func FirstOccurrenceOnOrAfter(ref civil.Date, targets []Weekday) (civil.Date, error) {
	if len(targets) == 0 {
		return civil.Date{}, NewError(KindOccurrenceResolution, "", "no target weekdays", nil)
	}
	var want [daysPerWeek]bool
	found := false
	for _, t := range targets {
		if t.Valid() {
			want[t] = true
			found = true
		}
	}
	if !found {
		return civil.Date{}, NewError(KindOccurrenceResolution, "", "no valid target weekdays", nil)
	}

	d := ref
	for i := 0; i < daysPerWeek; i++ {
		if want[weekdayOf(d)] {
			return d, nil
		}
		d = d.AddDays(1)
	}
	// unreachable with at least one valid target
	return civil.Date{}, NewError(KindOccurrenceResolution, "", "no matching weekday within a week", nil)
}

func weekdayOf(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}
