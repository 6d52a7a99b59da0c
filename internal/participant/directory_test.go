package participant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/logging"
	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

type fakeStore struct {
	rows map[string]domain.Participant
}

func newFakeStore() *fakeStore { return &fakeStore{rows: map[string]domain.Participant{}} }

func (f *fakeStore) Get(ctx context.Context, subscriberID string, role domain.ParticipantRole) (*domain.Participant, error) {
	p, ok := f.rows[string(role)+"|"+subscriberID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) Upsert(ctx context.Context, p domain.Participant) error {
	key := string(p.Role) + "|" + p.SubscriberID
	if _, exists := f.rows[key]; exists {
		return nil
	}
	f.rows[key] = p
	return nil
}

type fakeCache struct {
	rows map[string]domain.Participant
}

func newFakeCache() *fakeCache { return &fakeCache{rows: map[string]domain.Participant{}} }

func (f *fakeCache) Get(ctx context.Context, subscriberID string, role domain.ParticipantRole) (*domain.Participant, error) {
	p, ok := f.rows[string(role)+"|"+subscriberID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCache) Set(ctx context.Context, p domain.Participant) error {
	f.rows[string(p.Role)+"|"+p.SubscriberID] = p
	return nil
}

func TestDirectoryLookupFallsThroughToRegistryAndCachesResult(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req registryLookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SubscriberID != "seller.example.org" {
			t.Fatalf("unexpected subscriber id: %s", req.SubscriberID)
		}
		_ = json.NewEncoder(w).Encode([]registryEntry{{
			SubscriberID:  "seller.example.org",
			Type:          "BPP",
			Domain:        "ONDC:RET10",
			SubscriberURL: "https://seller.example.org/ondc",
		}})
	}))
	defer registry.Close()

	store := newFakeStore()
	cache := newFakeCache()
	dir := NewDirectory(store, cache, registry.URL, logging.New("test"), telemetry.NewBusinessMetrics("test_directory"))

	p, err := dir.Lookup(context.Background(), "seller.example.org", domain.RoleBPP, "ONDC:RET10")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p == nil || p.SubscriberURI != "https://seller.example.org/ondc" {
		t.Fatalf("unexpected participant: %+v", p)
	}

	if _, ok := store.rows["BPP|seller.example.org"]; !ok {
		t.Fatal("expected registry hit to be written through to the store")
	}
	if _, ok := cache.rows["BPP|seller.example.org"]; !ok {
		t.Fatal("expected registry hit to be written through to the cache")
	}
}

func TestDirectoryLookupPrefersCacheOverRegistry(t *testing.T) {
	called := false
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		io.WriteString(w, "[]")
	}))
	defer registry.Close()

	store := newFakeStore()
	cache := newFakeCache()
	cache.rows["BAP|buyer.example.org"] = domain.Participant{SubscriberID: "buyer.example.org", Role: domain.RoleBAP}

	dir := NewDirectory(store, cache, registry.URL, logging.New("test"), telemetry.NewBusinessMetrics("test_directory2"))

	p, err := dir.Lookup(context.Background(), "buyer.example.org", domain.RoleBAP, "ONDC:RET10")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p == nil {
		t.Fatal("expected cached participant")
	}
	if called {
		t.Fatal("registry should not be consulted on a cache hit")
	}
}

func TestDirectoryLookupReturnsNilOnEmptyRegistryResponse(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "[]")
	}))
	defer registry.Close()

	dir := NewDirectory(newFakeStore(), newFakeCache(), registry.URL, logging.New("test"), telemetry.NewBusinessMetrics("test_directory3"))

	p, err := dir.Lookup(context.Background(), "unknown.example.org", domain.RoleBPP, "ONDC:RET10")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil participant, got %+v", p)
	}
}
