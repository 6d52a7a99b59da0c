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

// InitRequest is everything DispatchInit needs from the caller. The
// item list is re-read off the already-drafted commerce aggregate
// rather than supplied again by the caller.
type InitRequest struct {
	ExternalURN   uuid.UUID
	TransactionID uuid.UUID
	Billing       domain.Billing
	Payments      []envelope.InitPaymentParam
	Fulfillments  []envelope.InitFulfillmentParam
	VectorType    string
	VectorValue   string

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchInit fetches the draft aggregate, then resolves self and the
// BPP (from the aggregate's own routing) concurrently, then sends the
// init envelope built from the aggregate's already-quoted items.
// Init has no local commit of its own — on_init drives ApplyOnInit.
func (d *Dispatcher) DispatchInit(ctx context.Context, req InitRequest) error {
	aggregate, err := d.Commerce.Fetch(ctx, req.ExternalURN)
	if err != nil {
		return err
	}
	if aggregate == nil {
		return ondcerr.Validationf("dispatcher.DispatchInit", "no commerce aggregate for external_urn %s", req.ExternalURN)
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
		return ondcerr.Validationf("dispatcher.DispatchInit", "routing participants not resolvable for external_urn %s", req.ExternalURN)
	}

	items := make([]envelope.SelectItemParam, 0, len(aggregate.Items))
	for _, it := range aggregate.Items {
		items = append(items, envelope.SelectItemParam{
			ID: it.ItemID, LocationIDs: it.LocationIDs, FulfillmentIDs: it.FulfillmentIDs, Quantity: it.Qty, BuyerTerm: it.BuyerTerms,
		})
	}

	messageID := uuid.New()
	bppParty := counterparty(bpp)
	octx := envelope.BuildContext(envelope.ActionInit, d.DomainCode, aggregate.CityCode, aggregate.CountryCode,
		req.TransactionID.String(), messageID.String(), counterparty(bap), &bppParty, time.Now(), aggregate.QuoteTTL)

	env := envelope.BuildInit(octx, envelope.InitParams{
		ProviderID: aggregate.SellerID, Items: items, Billing: req.Billing, Payments: req.Payments,
		Fulfillments: req.Fulfillments, VectorType: req.VectorType, VectorValue: req.VectorValue,
	})

	_, err = d.send(ctx, outbound{
		Action: envelope.ActionInit, CounterpartyURI: bpp.SubscriberURI, TransactionID: req.TransactionID,
		MessageID: messageID, BusinessID: req.BusinessID, UserID: req.UserID, DeviceID: req.DeviceID, Envelope: env,
	})
	return err
}
