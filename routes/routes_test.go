package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursecal/config"
	"coursecal/handlers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func testBundle() *handlers.HandlerBundle {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	return &handlers.HandlerBundle{
		ParseScheduleHandler:  ok,
		AddToCalendarHandler:  ok,
		ExportCalendarHandler: ok,
		HealthHandler:         handlers.HealthHandler(nil),
	}
}

func testConfig() config.Config {
	return config.Config{MaxRequestsPerMin: 100, MaxUploadBytes: 1 << 20, CORSOrigins: "https://app.example.edu"}
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig(), testBundle(), zap.NewNop())

	tests := []struct {
		method, path, auth string
		status             int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/api/schedule/parse", "", http.StatusOK},
		{http.MethodPost, "/api/calendar/export", "", http.StatusOK},
		{http.MethodPost, "/api/calendar/add", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/calendar/add", "Bearer t", http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.auth != "" {
			req.Header.Set("Authorization", tt.auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.status)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s %s: missing request id", tt.method, tt.path)
		}
	}
}

func TestNewRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig(), testBundle(), zap.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/api/calendar/add", nil)
	req.Header.Set("Origin", "https://app.example.edu")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.edu" {
		t.Errorf("allow origin = %q", got)
	}
	if !strings.Contains(strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "authorization") {
		t.Errorf("allow headers = %q", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestNewRouter_PanicIsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hb := testBundle()
	hb.ExportCalendarHandler = func(c *gin.Context) { panic("boom") }
	r := NewRouter(testConfig(), hb, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Internal Server Error") {
		t.Errorf("body = %s", w.Body.String())
	}
}
