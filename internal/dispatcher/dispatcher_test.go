package dispatcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

// testMetrics is registered once: promauto registers on the default
// registry, which rejects a second registration of the same names.
var testMetrics = telemetry.NewDispatchMetrics("dispatcher_test")

func testDispatcher(t *testing.T, httpClient *http.Client) *Dispatcher {
	t.Helper()
	return &Dispatcher{
		httpClient:       httpClient,
		metrics:          testMetrics,
		log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		SelfSubscriberID: "bap.example.com",
		SelfUkID:         "key-1",
		DomainCode:       "ONDC:RET10",
		MaxRetries:       2,
	}
}

func TestPostOnceReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			t.Errorf("expected Authorization header to be set")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ack":true}`))
	}))
	defer srv.Close()

	d := testDispatcher(t, srv.Client())
	body, status, err := d.postOnce(context.Background(), srv.URL, []byte(`{}`), "Signature test")
	if err != nil {
		t.Fatalf("postOnce: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if string(body) != `{"ack":true}` {
		t.Fatalf("body = %s", body)
	}
}

func TestPostWithRetryGivesUpAfterMaxRetriesOn5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := testDispatcher(t, srv.Client())
	_, err := d.postWithRetry(context.Background(), "search", srv.URL, []byte(`{}`), "Signature test")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != int32(d.MaxRetries)+1 {
		t.Fatalf("calls = %d, want %d", got, d.MaxRetries+1)
	}
}

func TestPostWithRetrySucceedsAfterTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ack":true}`))
	}))
	defer srv.Close()

	d := testDispatcher(t, srv.Client())
	body, err := d.postWithRetry(context.Background(), "select", srv.URL, []byte(`{}`), "Signature test")
	if err != nil {
		t.Fatalf("postWithRetry: %v", err)
	}
	if string(body) != `{"ack":true}` {
		t.Fatalf("body = %s", body)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestPostWithRetryDoesNotRetry4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := testDispatcher(t, srv.Client())
	_, err := d.postWithRetry(context.Background(), "init", srv.URL, []byte(`{}`), "Signature test")
	if err != nil {
		t.Fatalf("postWithRetry returned error for a non-5xx status: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on 4xx)", got)
	}
}

func TestPostWithRetryRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := testDispatcher(t, srv.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := d.postWithRetry(ctx, "status", srv.URL, []byte(`{}`), "Signature test")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("postWithRetry took %s, should have returned promptly on cancellation", elapsed)
	}
}

func TestCounterpartyMapsParticipantFields(t *testing.T) {
	p := &domain.Participant{SubscriberID: "bpp.example.com", SubscriberURI: "https://bpp.example.com/ondc"}
	c := counterparty(p)
	if c.ID != p.SubscriberID || c.URI != p.SubscriberURI {
		t.Fatalf("counterparty() = %+v, want ID=%s URI=%s", c, p.SubscriberID, p.SubscriberURI)
	}
}
