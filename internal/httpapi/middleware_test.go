package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

func TestWithMetricsRecordsStatusFromRecorder(t *testing.T) {
	metrics := telemetry.NewHTTPMetrics("httpapi_middleware_test")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := WithMetrics(metrics, next)

	r := httptest.NewRequest("GET", "/api/v1/search", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}

func TestWithMetricsSkipsMetricsEndpoint(t *testing.T) {
	metrics := telemetry.NewHTTPMetrics("httpapi_middleware_test_skip")

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	wrapped := WithMetrics(metrics, next)

	r := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if !called {
		t.Fatal("expected the /metrics request to still reach the wrapped handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
