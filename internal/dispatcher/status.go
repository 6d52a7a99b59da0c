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

type StatusRequest struct {
	ExternalURN   uuid.UUID
	TransactionID uuid.UUID

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchStatus fetches the current aggregate, resolves self and the
// BPP concurrently, and sends a status envelope addressed by external urn.
func (d *Dispatcher) DispatchStatus(ctx context.Context, req StatusRequest) error {
	return d.dispatchOrderIDOnly(ctx, envelope.ActionStatus, req.ExternalURN, req.TransactionID, req.BusinessID, req.UserID, req.DeviceID,
		func(ctx2 envelope.Context, orderID string) any { return envelope.BuildStatus(ctx2, orderID) })
}

type CancelRequest struct {
	ExternalURN          uuid.UUID
	TransactionID        uuid.UUID
	CancellationReasonID string

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchCancel is status's structural twin with a reason code attached.
func (d *Dispatcher) DispatchCancel(ctx context.Context, req CancelRequest) error {
	return d.dispatchOrderIDOnly(ctx, envelope.ActionCancel, req.ExternalURN, req.TransactionID, req.BusinessID, req.UserID, req.DeviceID,
		func(ctx2 envelope.Context, orderID string) any { return envelope.BuildCancel(ctx2, orderID, req.CancellationReasonID) })
}

// dispatchOrderIDOnly is the shared shape of status and cancel: both
// need nothing but the order id and the routing pair off the current
// aggregate, fetched before self and the BPP are resolved concurrently.
func (d *Dispatcher) dispatchOrderIDOnly(ctx context.Context, action envelope.Action, externalURN, transactionID, businessID uuid.UUID, userID *uuid.UUID, deviceID *string, build func(envelope.Context, string) any) error {
	aggregate, err := d.Commerce.Fetch(ctx, externalURN)
	if err != nil {
		return err
	}
	if aggregate == nil {
		return ondcerr.Validationf("dispatcher.dispatchOrderIDOnly", "no commerce aggregate for external_urn %s", externalURN)
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
		return ondcerr.Validationf("dispatcher.dispatchOrderIDOnly", "routing participants not resolvable for external_urn %s", externalURN)
	}

	messageID := uuid.New()
	bppParty := counterparty(bpp)
	octx := envelope.BuildContext(action, d.DomainCode, aggregate.CityCode, aggregate.CountryCode,
		transactionID.String(), messageID.String(), counterparty(bap), &bppParty, time.Now(), "")

	env := build(octx, aggregate.ExternalURN.String())

	_, err = d.send(ctx, outbound{
		Action: action, CounterpartyURI: bpp.SubscriberURI, TransactionID: transactionID,
		MessageID: messageID, BusinessID: businessID, UserID: userID, DeviceID: deviceID, Envelope: env,
	})
	return err
}
