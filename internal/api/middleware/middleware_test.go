package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourtube/internal/apperr"
	"tourtube/pkg/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	tokens map[string]int64
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*utils.Claims, error) {
	id, ok := s.tokens[token]
	if !ok {
		return nil, apperr.New(apperr.KindUnauthenticated, "Invalid access token")
	}
	return &utils.Claims{UserID: id}, nil
}

func whoami(c *gin.Context) {
	if id := ViewerID(c); id != nil {
		c.JSON(http.StatusOK, gin.H{"user": *id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": nil})
}

func newAuthRouter() *gin.Engine {
	auth := stubAuth{tokens: map[string]int64{"good": 7}}
	r := gin.New()
	r.GET("/private", AuthRequired(auth), whoami)
	r.GET("/public", OptionalAuth(auth), whoami)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAuthRequired(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"bearer header", "Bearer good", "", http.StatusOK},
		{"lowercase scheme", "bearer good", "", http.StatusOK},
		{"cookie", "", "good", http.StatusOK},
		{"invalid token", "Bearer bad", "", http.StatusUnauthorized},
		{"header wins over cookie", "Bearer bad", "good", http.StatusUnauthorized},
		{"malformed header", "Token good", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("unexpected status: got %d want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				body := decode(t, rec)
				if body["success"] != false || body["statusCode"] != float64(http.StatusUnauthorized) {
					t.Fatalf("unexpected error envelope: %v", body)
				}
			}
		})
	}
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if body := decode(t, rec); body["user"] != nil {
		t.Fatalf("invalid token should be anonymous: %v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if body := decode(t, rec); body["user"] != float64(7) {
		t.Fatalf("valid token should identify user: %v", body)
	}
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, time.Minute, 2, time.Hour)
	l.now = func() time.Time { return now }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatal("burst requests should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Fatal("request over the burst should be rejected")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if !l.Allow("1.1.1.1") {
		t.Fatal("token should be refilled after the window")
	}
}

func TestIPRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, time.Hour, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("1.1.1.1")
	now = now.Add(2 * time.Minute)
	l.Allow("2.2.2.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["1.1.1.1"]; ok {
		t.Fatal("idle visitor was not evicted")
	}
}

func TestIPRateLimiterSweepsAtMostOncePerTTL(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := NewIPRateLimiter(1, time.Hour, 1, time.Minute)
	l.now = func() time.Time { return now }

	present := func(key string) bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		_, ok := l.visitors[key]
		return ok
	}

	steps := []struct {
		at      time.Duration
		key     string
		absent  string
		present string
	}{
		{0, "a", "", "a"},
		{50 * time.Second, "b", "", "a"},
		{70 * time.Second, "c", "a", "b"},
		// 距上次清理不足 ttl，b 虽已闲置超过 ttl 仍保留
		{125 * time.Second, "d", "", "b"},
		{131 * time.Second, "e", "b", "d"},
	}
	for _, step := range steps {
		now = start.Add(step.at)
		l.Allow(step.key)
		if step.absent != "" && present(step.absent) {
			t.Fatalf("at %v: visitor %q should have been evicted", step.at, step.absent)
		}
		if !present(step.present) {
			t.Fatalf("at %v: visitor %q should still be tracked", step.at, step.present)
		}
	}
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Hour, 1, time.Hour)
	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes: %v", codes)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://app.example.com/"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://app.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: got %d want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://app.example.com" ||
		rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("unexpected cors headers: %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected response for unknown origin: %d %v", rec.Code, rec.Header())
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("request id header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("incoming request id not reused: %q", got)
	}
}

func TestRecoveryRendersInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusInternalServerError)
	}
	if body := decode(t, rec); body["success"] != false {
		t.Fatalf("unexpected body: %v", body)
	}
}
