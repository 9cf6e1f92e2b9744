package ai

import (
	"context"

	"coursecal/models"

	"go.uber.org/zap"
)

var sampleCourses = []models.Course{
	{
		ID:        "1",
		Code:      "CS 101",
		Name:      "Intro to Computer Science",
		StartTime: "10:00",
		EndTime:   "11:30",
		Days:      []string{"Mon", "Wed"},
		Location:  "Science Hall 101",
	},
	{
		ID:        "2",
		Code:      "MATH 201",
		Name:      "Calculus II",
		StartTime: "13:00",
		EndTime:   "14:30",
		Days:      []string{"Tue", "Thu"},
		Location:  "Math Building 204",
	},
	{
		ID:        "3",
		Code:      "PHYS 101",
		Name:      "General Physics I",
		StartTime: "09:00",
		EndTime:   "10:30",
		Days:      []string{"Fri"},
		Location:  "Physics Lab 3B",
	},
}

// SampleCourses returns a fresh copy of the fixed dataset served when no
// model credential is configured.
func SampleCourses() []models.Course {
	out := make([]models.Course, len(sampleCourses))
	for i, c := range sampleCourses {
		c.Days = append([]string(nil), c.Days...)
		out[i] = c
	}
	return out
}

// SampleExtractor ignores the image and returns SampleCourses. It still
// rejects non-image uploads so clients see the same validation as live mode.
type SampleExtractor struct {
	Logger *zap.Logger
}

func NewSampleExtractor(logger *zap.Logger) *SampleExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SampleExtractor{Logger: logger}
}

func (s *SampleExtractor) Extract(_ context.Context, req ExtractRequest) (*models.ExtractionResult, error) {
	if _, err := validateImage(req); err != nil {
		return nil, err
	}
	s.Logger.Warn("extraction: no API key configured, returning sample dataset",
		zap.String("source", models.SourceSample),
		zap.Int("courses", len(sampleCourses)),
	)
	return &models.ExtractionResult{Courses: SampleCourses(), Source: models.SourceSample}, nil
}
