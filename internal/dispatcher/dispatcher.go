// Package dispatcher implements the Dispatcher component: it resolves
// counterparties and local state concurrently, builds and signs the
// outbound envelope, persists an audit record alongside the retrying
// outbound POST, and on the inbound side drives the commerce state
// machine from seller callbacks.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ondcnet/bap-adapter/internal/catalog"
	"github.com/ondcnet/bap-adapter/internal/commerce"
	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/envelope"
	"github.com/ondcnet/bap-adapter/internal/notify"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
	"github.com/ondcnet/bap-adapter/internal/participant"
	"github.com/ondcnet/bap-adapter/internal/signer"
	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

// Dispatcher is the Dispatcher component. Every outbound method
// belongs to it; Intake is the symmetric inbound entry point.
type Dispatcher struct {
	Participants *participant.Directory
	Catalog      *catalog.Store
	Commerce     *commerce.Store
	Signer       signer.Signer
	Notifier     notify.Emitter

	httpClient *http.Client
	metrics    *telemetry.DispatchMetrics
	log        *slog.Logger

	SelfSubscriberID string
	SelfUkID         string
	SelfURI          string
	DomainCode       string
	MaxRetries       int
}

// Config collects everything New needs beyond the collaborators
// already broken out as exported fields for test substitution.
type Config struct {
	SelfSubscriberID string
	SelfUkID         string
	SelfURI          string
	DomainCode       string
	MaxRetries       int
	Timeout          time.Duration
}

func New(participants *participant.Directory, catalogStore *catalog.Store, commerceStore *commerce.Store, sign signer.Signer, notifier notify.Emitter, metrics *telemetry.DispatchMetrics, log *slog.Logger, cfg Config) *Dispatcher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Dispatcher{
		Participants:     participants,
		Catalog:          catalogStore,
		Commerce:         commerceStore,
		Signer:           sign,
		Notifier:         notifier,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		metrics:          metrics,
		log:              log,
		SelfSubscriberID: cfg.SelfSubscriberID,
		SelfUkID:         cfg.SelfUkID,
		SelfURI:          cfg.SelfURI,
		DomainCode:       cfg.DomainCode,
		MaxRetries:       cfg.MaxRetries,
	}
}

// outbound is everything send needs to serialize, sign, audit and
// POST one envelope to one counterparty.
type outbound struct {
	Action        envelope.Action
	CounterpartyURI string
	TransactionID uuid.UUID
	MessageID     uuid.UUID
	BusinessID    uuid.UUID
	UserID        *uuid.UUID
	DeviceID      *string
	Envelope      any
}

// send serializes env once, signs it, then runs the audit-record
// persist and the retrying outbound POST concurrently — the second
// errgroup join in spec.md 4.5(f). It returns the counterparty's raw
// response body.
func (d *Dispatcher) send(ctx context.Context, ob outbound) ([]byte, error) {
	body, err := json.Marshal(ob.Envelope)
	if err != nil {
		return nil, ondcerr.Serializationf("dispatcher.send", err)
	}

	authHeader, err := d.Signer.Sign(ctx, body, signer.ParticipantEntry{SubscriberID: d.SelfSubscriberID, UkID: d.SelfUkID})
	if err != nil {
		return nil, ondcerr.Upstreamf("dispatcher.send", fmt.Errorf("sign envelope: %w", err))
	}

	var respBody []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := d.Commerce.RecordOutbound(gctx, commerce.OutboundAuditInput{
			TransactionID: ob.TransactionID,
			MessageID:     ob.MessageID,
			Action:        string(ob.Action),
			Payload:       body,
			UserID:        ob.UserID,
			BusinessID:    ob.BusinessID,
			DeviceID:      ob.DeviceID,
		}); err != nil {
			return ondcerr.Databasef("dispatcher.send", fmt.Errorf("record outbound audit: %w", err))
		}
		return nil
	})
	g.Go(func() error {
		body, err := d.postWithRetry(gctx, string(ob.Action), ob.CounterpartyURI+"/"+string(ob.Action), body, authHeader)
		if err != nil {
			return ondcerr.Upstreamf("dispatcher.send", err)
		}
		respBody = body
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := d.Notifier.PublishDispatched(ctx, ob.BusinessID, ob.TransactionID, string(ob.Action), body); err != nil {
		d.log.Warn("outbound dispatched audit publish failed", "action", ob.Action, "transaction_id", ob.TransactionID, "error", err)
	}

	return respBody, nil
}

// postWithRetry POSTs body to url with a signed Authorization header,
// retrying a fixed number of times with linear backoff on a transient
// (5xx or network) failure.
func (d *Dispatcher) postWithRetry(ctx context.Context, action, url string, body []byte, authHeader string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= d.MaxRetries; attempt++ {
		if attempt > 0 {
			d.metrics.ObserveRetry(action)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		start := time.Now()
		respBody, status, err := d.postOnce(ctx, url, body, authHeader)
		d.metrics.Observe(action, fmt.Sprintf("%d", status), time.Since(start))

		if err == nil && status < 500 {
			return respBody, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("counterparty returned status %d", status)
		}
		d.log.Warn("outbound dispatch attempt failed", "url", url, "attempt", attempt, "error", lastErr)
	}
	return nil, fmt.Errorf("exhausted %d retries: %w", d.MaxRetries, lastErr)
}

func (d *Dispatcher) postOnce(ctx context.Context, url string, body []byte, authHeader string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

func counterparty(p *domain.Participant) domain.Counterparty {
	return domain.Counterparty{ID: p.SubscriberID, URI: p.SubscriberURI}
}
