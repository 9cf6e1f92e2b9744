package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBearerTokenMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/p", BearerTokenMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, AccessToken(c))
	})

	tests := []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusUnauthorized, ""},
		{"Basic abc", http.StatusUnauthorized, ""},
		{"Bearer ", http.StatusUnauthorized, ""},
		{"Bearer ya29.token", http.StatusOK, "ya29.token"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Errorf("%q: status = %d, want %d", tt.header, w.Code, tt.status)
		}
		if tt.body != "" && w.Body.String() != tt.body {
			t.Errorf("%q: token = %q", tt.header, w.Body.String())
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.11:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second client status = %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		if _, ok := c.Get("logger"); !ok {
			t.Error("logger not set")
		}
		c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	generated := w.Header().Get("X-Request-ID")
	if len(generated) != 36 || w.Body.String() != generated {
		t.Errorf("generated id = %q, body %q", generated, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("propagated id = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("oversized id not replaced: %q", got)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	for body, want := range map[string]int{"short": http.StatusOK, "this is far too long": http.StatusRequestEntityTooLarge} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%q: status = %d, want %d", body, w.Code, want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		xff, xri, remote, want string
	}{
		{"203.0.113.5, 10.0.0.1", "", "10.0.0.2:1", "203.0.113.5"},
		{"garbage, 198.51.100.7", "", "10.0.0.2:1", "198.51.100.7"},
		{"", "198.51.100.8", "10.0.0.2:1", "198.51.100.8"},
		{"", "not-an-ip", "10.0.0.2:1", "10.0.0.2"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = tt.remote
		if tt.xff != "" {
			c.Request.Header.Set("X-Forwarded-For", tt.xff)
		}
		if tt.xri != "" {
			c.Request.Header.Set("X-Real-IP", tt.xri)
		}
		if got := getClientIP(c); got != tt.want {
			t.Errorf("getClientIP = %q, want %q", got, tt.want)
		}
	}
}
