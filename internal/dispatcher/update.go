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

type UpdateRequest struct {
	ExternalURN   uuid.UUID
	TransactionID uuid.UUID
	Target        envelope.UpdateTarget
	Payment       envelope.UpdatePaymentParams

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchUpdate mirrors status/cancel's concurrent fetch shape but
// delegates to BuildUpdate, which returns ondcerr.NotImplemented for
// any target other than payment — the protocol's own unfinished
// update surface, not a gap introduced here.
func (d *Dispatcher) DispatchUpdate(ctx context.Context, req UpdateRequest) error {
	aggregate, err := d.Commerce.Fetch(ctx, req.ExternalURN)
	if err != nil {
		return err
	}
	if aggregate == nil {
		return ondcerr.Validationf("dispatcher.DispatchUpdate", "no commerce aggregate for external_urn %s", req.ExternalURN)
	}

	var bap, bpp *domain.Participant
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := d.Participants.ResolveSelf(gctx, d.SelfSubscriberID, domain.RoleBAP, d.DomainCode)
		bap = p
		return err
	})
	g.Go(func() error {
		p, err := d.Participants.Lookup(gctx, aggregate.Routing.BPP.ID, domain.RoleBPP, d.DomainCode)
		bpp = p
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if bap == nil || bpp == nil {
		return ondcerr.Validationf("dispatcher.DispatchUpdate", "routing participants not resolvable for external_urn %s", req.ExternalURN)
	}

	messageID := uuid.New()
	bppParty := counterparty(bpp)
	octx := envelope.BuildContext(envelope.ActionUpdate, d.DomainCode, aggregate.CityCode, aggregate.CountryCode,
		req.TransactionID.String(), messageID.String(), counterparty(bap), &bppParty, time.Now(), "")

	env, err := envelope.BuildUpdate(octx, req.Target, req.Payment)
	if err != nil {
		return err
	}

	_, err = d.send(ctx, outbound{
		Action: envelope.ActionUpdate, CounterpartyURI: bpp.SubscriberURI, TransactionID: req.TransactionID,
		MessageID: messageID, BusinessID: req.BusinessID, UserID: req.UserID, DeviceID: req.DeviceID, Envelope: env,
	})
	return err
}
