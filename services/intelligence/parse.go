package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"coursecal/models"
	"coursecal/services/schedule"

	"github.com/google/uuid"
)

// cleanModelText strips the markdown fences models like to wrap JSON in.
func cleanModelText(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseCourses decodes a model reply into normalized course records. Both a
// bare array and an object with a "courses" array are accepted.
func ParseCourses(text string) ([]models.Course, error) {
	s := cleanModelText(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var courses []models.Course
	switch s[0] {
	case '[':
		if err := json.Unmarshal([]byte(s), &courses); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	case '{':
		var wrapped struct {
			Courses []models.Course `json:"courses"`
		}
		if err := json.Unmarshal([]byte(s), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		courses = wrapped.Courses
	default:
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	return NormalizeCourses(courses), nil
}

// NormalizeCourses trims fields, canonicalizes day labels and clock times
// and gives every record a unique id. Values it cannot interpret are kept
// as-is for the user to fix during review.
func NormalizeCourses(in []models.Course) []models.Course {
	out := make([]models.Course, 0, len(in))
	seenIDs := make(map[string]bool, len(in))
	for _, c := range in {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" || seenIDs[c.ID] {
			c.ID = uuid.NewString()
		}
		seenIDs[c.ID] = true

		c.Code = strings.TrimSpace(c.Code)
		c.Name = strings.TrimSpace(c.Name)
		c.Location = strings.TrimSpace(c.Location)
		c.StartTime = normalizeClock(c.StartTime)
		c.EndTime = normalizeClock(c.EndTime)
		c.Days = normalizeDays(c.Days)
		out = append(out, c)
	}
	return out
}

func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	t, err := schedule.ParseClock(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		label := strings.TrimSpace(d)
		if wd, ok := schedule.ParseWeekday(label); ok {
			label = wd.Label()
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
