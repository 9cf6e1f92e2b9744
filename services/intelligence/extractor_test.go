package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"coursecal/models"
	"coursecal/services/schedule"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type fakeGenerator struct {
	text      string
	err       error
	calls     int
	prompt    string
	mediaType string
	block     bool
}

func (f *fakeGenerator) GenerateFromImage(ctx context.Context, prompt, mediaType string, _ []byte) (string, error) {
	f.calls++
	f.prompt = prompt
	f.mediaType = mediaType
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func testWindow() models.SemesterWindow {
	return models.SemesterWindow{
		Start: civil.Date{Year: 2024, Month: time.January, Day: 3},
		End:   civil.Date{Year: 2024, Month: time.May, Day: 1},
	}
}

func TestGeminiExtractor_Success(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n[{\"id\":\"a\",\"code\":\"CS 101\",\"name\":\"Intro\",\"startTime\":\"9:00\",\"endTime\":\"10:15\",\"days\":[\"monday\",\"WED\"],\"location\":\" Hall 1 \"}]\n```"}
	ex := NewGeminiExtractor(gen, time.Second, zap.NewNop())

	res, err := ex.Extract(context.Background(), ExtractRequest{Image: pngBytes, MediaType: "image/png", Window: testWindow()})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Source != models.SourceLive || len(res.Courses) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	c := res.Courses[0]
	if c.StartTime != "09:00" || c.EndTime != "10:15" {
		t.Errorf("times not normalized: %q %q", c.StartTime, c.EndTime)
	}
	if strings.Join(c.Days, ",") != "Mon,Wed" {
		t.Errorf("days not canonical: %v", c.Days)
	}
	if c.Location != "Hall 1" {
		t.Errorf("location not trimmed: %q", c.Location)
	}
	if gen.mediaType != "image/png" {
		t.Errorf("media type sent = %q", gen.mediaType)
	}
	if !strings.Contains(gen.prompt, "starts on 2024-01-03 and ends on 2024-05-01") {
		t.Errorf("prompt missing window: %s", gen.prompt)
	}
}

func TestGeminiExtractor_UpstreamError(t *testing.T) {
	ex := NewGeminiExtractor(&fakeGenerator{err: errors.New("503")}, time.Second, nil)
	_, err := ex.Extract(context.Background(), ExtractRequest{Image: pngBytes, Window: testWindow()})
	if !errors.Is(err, schedule.ErrExtractionFailure) || !errors.Is(err, ErrUpstream) {
		t.Errorf("expected upstream extraction failure, got %v", err)
	}
}

func TestGeminiExtractor_Timeout(t *testing.T) {
	ex := NewGeminiExtractor(&fakeGenerator{block: true}, 20*time.Millisecond, nil)
	_, err := ex.Extract(context.Background(), ExtractRequest{Image: pngBytes, Window: testWindow()})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout message, got %v", err)
	}
}

func TestGeminiExtractor_MalformedResponse(t *testing.T) {
	ex := NewGeminiExtractor(&fakeGenerator{text: "Sorry, I can't read that."}, time.Second, nil)
	_, err := ex.Extract(context.Background(), ExtractRequest{Image: pngBytes, Window: testWindow()})
	if !errors.Is(err, schedule.ErrExtractionFailure) || !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected malformed response failure, got %v", err)
	}
}

func TestGeminiExtractor_RejectsNonImage(t *testing.T) {
	gen := &fakeGenerator{text: "[]"}
	ex := NewGeminiExtractor(gen, time.Second, nil)
	_, err := ex.Extract(context.Background(), ExtractRequest{Image: []byte("%PDF-1.4 not an image"), Window: testWindow()})
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("model should not be called for unsupported uploads")
	}
}

func TestGeminiExtractor_InvalidWindow(t *testing.T) {
	w := testWindow()
	w.Start, w.End = w.End, w.Start
	_, err := NewGeminiExtractor(&fakeGenerator{text: "[]"}, time.Second, nil).
		Extract(context.Background(), ExtractRequest{Image: pngBytes, Window: w})
	if !errors.Is(err, schedule.ErrExtractionFailure) {
		t.Errorf("expected extraction failure, got %v", err)
	}
}

func TestSampleExtractor_ReturnsFixedDataset(t *testing.T) {
	ex := NewSampleExtractor(zap.NewNop())
	a, err := ex.Extract(context.Background(), ExtractRequest{Image: pngBytes, Window: testWindow()})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if a.Source != models.SourceSample || len(a.Courses) != 3 {
		t.Fatalf("unexpected sample result %+v", a)
	}
	if a.Courses[0].Code != "CS 101" || a.Courses[1].Code != "MATH 201" || a.Courses[2].Code != "PHYS 101" {
		t.Errorf("unexpected sample codes: %+v", a.Courses)
	}

	// Mutating one result must not leak into the next.
	a.Courses[0].Days[0] = "Sun"
	b, _ := ex.Extract(context.Background(), ExtractRequest{Image: pngBytes, Window: testWindow()})
	if b.Courses[0].Days[0] != "Mon" {
		t.Error("sample dataset was mutated by a caller")
	}
}

func TestNewExtractor_NoKeyIsSampleMode(t *testing.T) {
	ex, closeFn, err := NewExtractor(context.Background(), ExtractorConfig{}, nil, nil)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	defer closeFn()
	if _, ok := ex.(*SampleExtractor); !ok {
		t.Errorf("expected *SampleExtractor, got %T", ex)
	}
}
