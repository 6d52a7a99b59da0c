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

// ConfirmRequest is everything DispatchConfirm needs from the caller
// beyond the already-initialized commerce aggregate.
type ConfirmRequest struct {
	ExternalURN   uuid.UUID
	TransactionID uuid.UUID
	VectorType    string
	VectorValue   string
	Self          envelope.SelfSettlement

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchConfirm fetches the initialized aggregate, then resolves
// self and the BPP concurrently, rebuilds the full quote breakup from it,
// and sends the confirm envelope. The Created transition is driven by
// the on_confirm callback, not by this call succeeding.
func (d *Dispatcher) DispatchConfirm(ctx context.Context, req ConfirmRequest) error {
	aggregate, err := d.Commerce.Fetch(ctx, req.ExternalURN)
	if err != nil {
		return err
	}
	if aggregate == nil {
		return ondcerr.Validationf("dispatcher.DispatchConfirm", "no commerce aggregate for external_urn %s", req.ExternalURN)
	}
	if aggregate.RecordStatus != domain.StatusInitialized {
		return ondcerr.Validationf("dispatcher.DispatchConfirm", "aggregate %s is %s, not Initialized", req.ExternalURN, aggregate.RecordStatus)
	}
	if len(aggregate.CancellationTerms) == 0 {
		return ondcerr.Validationf("dispatcher.DispatchConfirm", "aggregate %s has no cancellation terms", req.ExternalURN)
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
		return ondcerr.Validationf("dispatcher.DispatchConfirm", "routing participants not resolvable for external_urn %s", req.ExternalURN)
	}

	messageID := uuid.New()
	bppParty := counterparty(bpp)
	octx := envelope.BuildContext(envelope.ActionConfirm, d.DomainCode, aggregate.CityCode, aggregate.CountryCode,
		req.TransactionID.String(), messageID.String(), counterparty(bap), &bppParty, time.Now(), aggregate.QuoteTTL)

	env := envelope.BuildConfirm(octx, *aggregate, aggregate.SellerID, req.VectorType, req.VectorValue, req.Self)

	_, err = d.send(ctx, outbound{
		Action: envelope.ActionConfirm, CounterpartyURI: bpp.SubscriberURI, TransactionID: req.TransactionID,
		MessageID: messageID, BusinessID: req.BusinessID, UserID: req.UserID, DeviceID: req.DeviceID, Envelope: env,
	})
	return err
}
