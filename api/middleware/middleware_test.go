package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentops/licensetrack/pkg/logger"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "middleware-test", Output: buf, Format: logger.FormatJSON})
}

func TestRecovererWritesInternalEnvelope(t *testing.T) {
	buf := &bytes.Buffer{}
	h := Recoverer(testLogger(buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil salesman")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/salesmen", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if !strings.Contains(buf.String(), "panic.recovered") || !strings.Contains(buf.String(), `"path":"/api/v1/salesmen"`) {
		t.Fatalf("expected panic log with path, got %s", buf.String())
	}
}

func TestRecovererRepanicsAbortHandler(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRequestIDEchoesValidAndReplacesInvalid(t *testing.T) {
	h := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	cases := map[string]bool{
		"req-123":                true,
		"abc.DEF:42_x":           true,
		"":                       false,
		"has space":              false,
		"line\nbreak":            false,
		strings.Repeat("a", 129): false,
	}
	for inbound, keep := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, inbound)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		if keep && got != inbound {
			t.Fatalf("expected %q echoed, got %q", inbound, got)
		}
		if !keep && (got == inbound || len(got) != 36) {
			t.Fatalf("expected generated uuid for %q, got %q", inbound, got)
		}
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	h := Logging(testLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/salesmen", nil))

	if !strings.Contains(buf.String(), `"status":201`) {
		t.Fatalf("expected first status logged, got %s", buf.String())
	}
}

func TestSecureHeadersSet(t *testing.T) {
	h := SecureHeaders(nil, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("expected frame deny, got %q", rec.Header().Get("X-Frame-Options"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected nosniff header")
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	h := CORS([]string{"https://hr.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/salesmen", nil)
	req.Header.Set("Origin", "https://hr.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://hr.example.com" {
		t.Fatalf("expected origin allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/salesmen", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("dev origin should not be allowed when origins are configured, got %q", got)
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	h := RateLimit(nil, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/roster", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last.Code)
	}
}

func TestLoggingDemotesProbes(t *testing.T) {
	buf := &bytes.Buffer{}
	h := Logging(testLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if buf.Len() != 0 {
		t.Fatalf("probe should log below info, got %s", buf.String())
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/salesmen", nil))
	if !strings.Contains(buf.String(), `"bytes":2`) || !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected size and status, got %s", buf.String())
	}
}
