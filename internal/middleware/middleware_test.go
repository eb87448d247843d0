package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daily-medicine-reminder/internal/platform/logger"
	"daily-medicine-reminder/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func get(h http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_PerIPWithSkip(t *testing.T) {
	now := time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)
	h := rateLimit(RateLimitOptions{
		Requests: 2,
		Window:   time.Hour,
		Skip:     func(r *http.Request) bool { return r.URL.Path == "/api/health" },
	}, func() time.Time { return now })(ok)

	for i := 0; i < 2; i++ {
		if rec := get(h, "/api/medicines", "10.0.0.1:5000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := get(h, "/api/medicines", "10.0.0.1:5001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate limit headers: %v", rec.Header())
	}

	if rec := get(h, "/api/health", "10.0.0.1:5000"); rec.Code != http.StatusOK {
		t.Fatalf("health must skip the limiter, got %d", rec.Code)
	}
	if rec := get(h, "/api/medicines", "10.0.0.2:5000"); rec.Code != http.StatusOK {
		t.Fatalf("other ip must not be limited, got %d", rec.Code)
	}

	// la ventana recarga el bucket
	now = now.Add(time.Hour)
	if rec := get(h, "/api/medicines", "10.0.0.1:5000"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after window, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := get(SecurityHeaders(ok), "/api/stats", "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff: %v", rec.Header())
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("missing csp")
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	c := metrics.NewCollector("medreminder")
	r := chi.NewRouter()
	r.Use(Metrics(c))
	r.Put("/api/doses/{doseID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	req := httptest.NewRequest(http.MethodPut, "/api/doses/abc-123", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues(http.MethodPut, "/api/doses/{doseID}", "403"))
	if got != 1 {
		t.Fatalf("expected 1 request by pattern, got %v", got)
	}
}

func TestMetrics_NilCollectorPassesThrough(t *testing.T) {
	if rec := get(Metrics(nil)(ok), "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	fail := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	get(RequestLogger(log)(ok), "/api/stats", "")
	get(RequestLogger(log)(fail), "/api/stats", "")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected levels: %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["status"] != int64(500) {
		t.Fatalf("unexpected status field: %v", entries[1].ContextMap()["status"])
	}
}

func TestTracing_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Tracing("medreminder"))
	r.Get("/api/health", ok)

	if rec := get(r, "/api/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
