package ai

import (
	"context"
	"errors"

	"coursecal/models"
)

// ExtractRequest is the input to the extraction gateway.
type ExtractRequest struct {
	Image     []byte
	MediaType string // as declared by the client; the bytes are sniffed anyway
	Window    models.SemesterWindow
}

// Extractor turns a schedule image into candidate course records. Every
// failure is a schedule.ScheduleError of kind extraction_failure.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (*models.ExtractionResult, error)
}

// Causes wrapped inside extraction failures, for callers that map them to
// transport status codes.
var (
	ErrUnsupportedImage  = errors.New("unsupported image")
	ErrUpstream          = errors.New("extraction model unavailable")
	ErrMalformedResponse = errors.New("malformed model response")
)

// generator is the part of GeminiClient the extractor relies on.
type generator interface {
	GenerateFromImage(ctx context.Context, prompt, mediaType string, image []byte) (string, error)
}
