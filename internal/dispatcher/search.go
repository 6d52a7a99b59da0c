package dispatcher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/envelope"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

// SearchRequest is everything DispatchSearch needs from the caller.
type SearchRequest struct {
	BPPSubscriberID string
	TransactionID   uuid.UUID
	CityCode        string
	CountryCode     string
	Params          envelope.SearchParams

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchSearch resolves self and the target BPP concurrently, then
// builds and sends a search envelope. Search has no associated local
// commit — its response is handled entirely by Intake's on_search path.
func (d *Dispatcher) DispatchSearch(ctx context.Context, req SearchRequest) error {
	var bap, bpp *domain.Participant

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := d.Participants.ResolveSelf(gctx, d.SelfSubscriberID, domain.RoleBAP, d.DomainCode)
		bap = p
		return err
	})
	g.Go(func() error {
		p, err := d.Participants.Lookup(gctx, req.BPPSubscriberID, domain.RoleBPP, d.DomainCode)
		bpp = p
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if bap == nil {
		return ondcerr.Validationf("dispatcher.DispatchSearch", "self participant %q is not registered", d.SelfSubscriberID)
	}
	if bpp == nil {
		return ondcerr.Validationf("dispatcher.DispatchSearch", "bpp %q not found", req.BPPSubscriberID)
	}

	messageID := uuid.New()
	bppParty := counterparty(bpp)
	octx := envelope.BuildContext(envelope.ActionSearch, d.DomainCode, req.CityCode, req.CountryCode,
		req.TransactionID.String(), messageID.String(), counterparty(bap), &bppParty, time.Now(), "")

	env := envelope.BuildSearch(octx, req.Params)

	_, err := d.send(ctx, outbound{
		Action:          envelope.ActionSearch,
		CounterpartyURI: bpp.SubscriberURI,
		TransactionID:   req.TransactionID,
		MessageID:       messageID,
		BusinessID:      req.BusinessID,
		UserID:          req.UserID,
		DeviceID:        req.DeviceID,
		Envelope:        env,
	})
	return err
}
