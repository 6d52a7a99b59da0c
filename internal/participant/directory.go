package participant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

// recordStore is the durable side of the directory; *Store satisfies
// it against Postgres, and tests satisfy it with an in-memory fake.
type recordStore interface {
	Get(ctx context.Context, subscriberID string, role domain.ParticipantRole) (*domain.Participant, error)
	Upsert(ctx context.Context, p domain.Participant) error
}

// recordCache is the cache-aside side of the directory; *Cache
// satisfies it against Redis.
type recordCache interface {
	Get(ctx context.Context, subscriberID string, role domain.ParticipantRole) (*domain.Participant, error)
	Set(ctx context.Context, p domain.Participant) error
}

// Directory is the Participant Directory component: a Store
// (Postgres) wrapped by a Cache (Redis), falling through to the
// network registry on a full miss. Ordering is strictly sequential
// per request — there is no internal concurrency here (unlike the
// Dispatcher, which joins a directory lookup with other subtasks).
type Directory struct {
	store       recordStore
	cache       recordCache
	registryURL string
	httpClient  *http.Client
	log         *slog.Logger
	metrics     *telemetry.BusinessMetrics
}

func NewDirectory(store recordStore, cache recordCache, registryURL string, log *slog.Logger, metrics *telemetry.BusinessMetrics) *Directory {
	return &Directory{
		store:       store,
		cache:       cache,
		registryURL: registryURL,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		log:         log,
		metrics:     metrics,
	}
}

type registryLookupRequest struct {
	SubscriberID string `json:"subscriber_id"`
	Type         string `json:"type"`
	Domain       string `json:"domain"`
}

type registryEntry struct {
	SubscriberID     string `json:"subscriber_id"`
	Type             string `json:"type"`
	Domain           string `json:"domain"`
	SubscriberURL    string `json:"subscriber_url"`
	SigningPublicKey string `json:"signing_public_key"`
	EncrPublicKey    string `json:"encr_public_key"`
	BrID             string `json:"br_id"`
	UkID             string `json:"ukid"`
}

// Lookup resolves (subscriber_id, role, domain) to a Participant.
// A cache hit or a local-store hit is returned without ever
// re-validating against the registry; only a full miss goes out over
// HTTP, and a registry hit is written through to both cache and store.
func (d *Directory) Lookup(ctx context.Context, subscriberID string, role domain.ParticipantRole, dom string) (*domain.Participant, error) {
	if cached, err := d.cache.Get(ctx, subscriberID, role); err != nil {
		d.log.Warn("participant cache read failed", "error", err)
	} else if cached != nil {
		d.metrics.ParticipantCacheHits.Inc()
		return cached, nil
	}

	if p, err := d.store.Get(ctx, subscriberID, role); err != nil {
		return nil, err
	} else if p != nil {
		d.metrics.ParticipantCacheHits.Inc()
		if err := d.cache.Set(ctx, *p); err != nil {
			d.log.Warn("participant cache write failed", "error", err)
		}
		return p, nil
	}

	d.metrics.ParticipantCacheMisses.Inc()
	entry, err := d.fetchFromRegistry(ctx, subscriberID, role, dom)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	if err := d.store.Upsert(ctx, *entry); err != nil {
		d.log.Error("failed to persist participant from registry", "error", err, "subscriber_id", subscriberID)
	}
	if err := d.cache.Set(ctx, *entry); err != nil {
		d.log.Warn("participant cache write failed", "error", err)
	}
	return entry, nil
}

// ResolveSelf looks up the caller's own registered identity by its
// own subscriber id / domain, used to sign outbound envelopes and
// assemble settlement details when the caller collects payment.
func (d *Directory) ResolveSelf(ctx context.Context, subscriberID string, role domain.ParticipantRole, dom string) (*domain.Participant, error) {
	return d.Lookup(ctx, subscriberID, role, dom)
}

func (d *Directory) fetchFromRegistry(ctx context.Context, subscriberID string, role domain.ParticipantRole, dom string) (*domain.Participant, error) {
	body, err := json.Marshal(registryLookupRequest{SubscriberID: subscriberID, Type: string(role), Domain: dom})
	if err != nil {
		return nil, ondcerr.Serializationf("participant.Directory.fetchFromRegistry", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.registryURL+"/lookup", bytes.NewReader(body))
	if err != nil {
		return nil, ondcerr.Upstreamf("participant.Directory.fetchFromRegistry", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, ondcerr.Upstreamf("participant.Directory.fetchFromRegistry", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ondcerr.Upstreamf("participant.Directory.fetchFromRegistry", fmt.Errorf("registry returned status %d", resp.StatusCode))
	}

	var entries []registryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, ondcerr.Upstreamf("participant.Directory.fetchFromRegistry", fmt.Errorf("decode registry response: %w", err))
	}
	if len(entries) == 0 {
		return nil, nil
	}

	e := entries[0]
	return &domain.Participant{
		SubscriberID:     e.SubscriberID,
		Role:             role,
		Domain:           e.Domain,
		SubscriberURI:    e.SubscriberURL,
		SigningPublicKey: e.SigningPublicKey,
		EncrPublicKey:    e.EncrPublicKey,
		BrID:             e.BrID,
		UkID:             e.UkID,
	}, nil
}
