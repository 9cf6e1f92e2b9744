package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursecal/models"
	"coursecal/services/schedule"

	"go.uber.org/zap"
)

const defaultExtractionTimeout = 60 * time.Second

const promptTemplate = `
Analyze this course schedule image.
The semester starts on %s and ends on %s.
Extract the following details for each course:
- Course Code (e.g. CS 101)
- Course Name
- Start Time (24h format, e.g. 14:30)
- End Time (24h format)
- Days of the week (e.g. ["Mon", "Wed"]) using only Sun, Mon, Tue, Wed, Thu, Fri, Sat
- Location

Return ONLY a valid JSON array of objects with these keys: id (random string), code, name, startTime, endTime, days, location.
Do not include markdown formatting or code blocks.
`

// BuildPrompt renders the extraction prompt for a semester window.
func BuildPrompt(window models.SemesterWindow) string {
	return fmt.Sprintf(promptTemplate, window.Start, window.End)
}

// GeminiExtractor asks a vision model to read the schedule.
type GeminiExtractor struct {
	gen     generator
	timeout time.Duration
	logger  *zap.Logger
}

func NewGeminiExtractor(gen generator, timeout time.Duration, logger *zap.Logger) *GeminiExtractor {
	if timeout <= 0 {
		timeout = defaultExtractionTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiExtractor{gen: gen, timeout: timeout, logger: logger}
}

func (e *GeminiExtractor) Extract(ctx context.Context, req ExtractRequest) (*models.ExtractionResult, error) {
	mediaType, err := validateImage(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	text, err := e.gen.GenerateFromImage(ctx, BuildPrompt(req.Window), mediaType, req.Image)
	if err != nil {
		e.logger.Error("extraction: model request failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(started)),
		)
		msg := "model request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "model request timed out"
		}
		return nil, schedule.NewError(schedule.KindExtractionFailure, "", msg, fmt.Errorf("%w: %v", ErrUpstream, err))
	}

	courses, err := ParseCourses(text)
	if err != nil {
		e.logger.Warn("extraction: could not decode model response",
			zap.Error(err),
			zap.Int("length", len(text)),
		)
		return nil, schedule.NewError(schedule.KindExtractionFailure, "", "could not decode model response", err)
	}

	e.logger.Info("extraction: completed",
		zap.String("source", models.SourceLive),
		zap.Int("courses", len(courses)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return &models.ExtractionResult{Courses: courses, Source: models.SourceLive}, nil
}

// validateImage checks the payload and returns the sniffed media type.
func validateImage(req ExtractRequest) (string, error) {
	if len(req.Image) == 0 {
		return "", schedule.NewError(schedule.KindExtractionFailure, "", "empty image", ErrUnsupportedImage)
	}
	if !req.Window.Valid() {
		return "", schedule.NewError(schedule.KindExtractionFailure, "", "invalid semester window", nil)
	}
	mediaType, ok := DetectImageType(req.Image)
	if !ok {
		return "", schedule.NewError(schedule.KindExtractionFailure, "",
			fmt.Sprintf("unsupported image type %q", mediaType), ErrUnsupportedImage)
	}
	return mediaType, nil
}

// ExtractorConfig selects and tunes the extraction gateway.
type ExtractorConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewExtractor returns the live Gemini extractor, or the sample extractor
// when no API key is configured. A non-nil cache wraps the live extractor.
// The returned close func releases the model client.
func NewExtractor(ctx context.Context, cfg ExtractorConfig, cache ExtractionCache, logger *zap.Logger) (Extractor, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" {
		logger.Warn("extraction: GEMINI_API_KEY not set, serving sample dataset")
		return NewSampleExtractor(logger), func() error { return nil }, nil
	}

	client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, nil, err
	}
	var ex Extractor = NewGeminiExtractor(client, cfg.Timeout, logger)
	if cache != nil {
		ex = NewCachedExtractor(ex, cache, logger)
	}
	return ex, client.Close, nil
}
