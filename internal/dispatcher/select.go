package dispatcher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ondcnet/bap-adapter/internal/commerce"
	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/envelope"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

// SelectItem is one buyer-chosen line item before catalog enrichment.
type SelectItem struct {
	ItemID         string
	LocationIDs    []string
	FulfillmentIDs []string
	Quantity       int64
	BuyerTerm      *domain.BuyerTerm
}

// SelectFulfillment is one buyer-requested fulfillment on a select request.
type SelectFulfillment struct {
	ID              string
	Type            domain.FulfillmentType
	EndStop         *domain.FulfillmentStop
	IncoTerms       *domain.IncoTerm
	PlaceOfDelivery string
}

// SelectRequest is everything DispatchSelect needs from the caller.
type SelectRequest struct {
	ExternalURN     uuid.UUID
	TransactionID   uuid.UUID
	BPPSubscriberID string
	ProviderID      string
	ProviderName    string
	CityCode        string
	CountryCode     string
	CurrencyCode    string
	QuoteTTL        string
	BuyerID         string
	CreatedBy       uuid.UUID
	RecordType      domain.RecordType
	IsImport        bool
	CustomerName    string
	Items           []SelectItem
	Fulfillments    []SelectFulfillment
	PaymentTypes    []string

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

// DispatchSelect resolves self, the BPP, and the catalog item/location
// mappings concurrently — the four-way join replacing spec.md's
// flagged join-that-swallows-siblings with errgroup's all-or-first-
// error shape — then sends the select envelope. For a PurchaseOrder
// it commits the draft aggregate (status QuoteRequested) once the
// send succeeds, per spec.md 4.5(g).
func (d *Dispatcher) DispatchSelect(ctx context.Context, req SelectRequest) error {
	itemIDs := make([]string, 0, len(req.Items))
	locationIDs := []string{}
	seenLocations := map[string]struct{}{}
	for _, it := range req.Items {
		itemIDs = append(itemIDs, it.ItemID)
		for _, id := range it.LocationIDs {
			if _, ok := seenLocations[id]; !ok {
				seenLocations[id] = struct{}{}
				locationIDs = append(locationIDs, id)
			}
		}
	}

	var bap, bpp *domain.Participant
	var catalogItems map[string]domain.Item
	var catalogLocations map[string]domain.Location

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
	g.Go(func() error {
		m, err := d.Catalog.ItemMapping(gctx, req.BPPSubscriberID, req.ProviderID, itemIDs, req.CountryCode)
		catalogItems = m
		return err
	})
	g.Go(func() error {
		m, err := d.Catalog.LocationMapping(gctx, req.BPPSubscriberID, req.ProviderID, locationIDs)
		catalogLocations = m
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if bap == nil {
		return ondcerr.Validationf("dispatcher.DispatchSelect", "self participant %q is not registered", d.SelfSubscriberID)
	}
	if bpp == nil {
		return ondcerr.Validationf("dispatcher.DispatchSelect", "bpp %q not found", req.BPPSubscriberID)
	}
	_ = catalogLocations // degrades to zero/blank fields on miss; read by the envelope only via location ids, never values

	isPurchaseOrder := req.RecordType == domain.RecordTypePurchaseOrder

	envItems := make([]envelope.SelectItemParam, 0, len(req.Items))
	commerceItems := make([]commerce.SelectItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		envItems = append(envItems, envelope.SelectItemParam{
			ID: it.ItemID, LocationIDs: it.LocationIDs, FulfillmentIDs: it.FulfillmentIDs,
			Quantity: it.Quantity, BuyerTerm: it.BuyerTerm,
		})
		commerceItems = append(commerceItems, commerce.SelectItemInput{
			ItemID: it.ItemID, LocationIDs: it.LocationIDs, FulfillmentIDs: it.FulfillmentIDs,
			Qty: it.Quantity, BuyerTerm: it.BuyerTerm,
		})
	}

	envFulfillments := make([]envelope.SelectFulfillmentParam, 0, len(req.Fulfillments))
	commerceFulfillments := make([]commerce.SelectFulfillmentInput, 0, len(req.Fulfillments))
	for _, f := range req.Fulfillments {
		envFulfillments = append(envFulfillments, envelope.SelectFulfillmentParam{
			ID: f.ID, Type: f.Type, EndStop: f.EndStop, IncoTerms: f.IncoTerms, PlaceOfDelivery: f.PlaceOfDelivery,
		})
		commerceFulfillments = append(commerceFulfillments, commerce.SelectFulfillmentInput{
			FulfillmentID: f.ID, Type: f.Type, DropOff: f.EndStop, IncoTerms: f.IncoTerms, PlaceOfDelivery: f.PlaceOfDelivery,
		})
	}

	messageID := uuid.New()
	bppParty := counterparty(bpp)
	octx := envelope.BuildContext(envelope.ActionSelect, d.DomainCode, req.CityCode, req.CountryCode,
		req.TransactionID.String(), messageID.String(), counterparty(bap), &bppParty, time.Now(), req.QuoteTTL)

	env := envelope.BuildSelect(octx, envelope.SelectParams{
		ProviderID: req.ProviderID, ProviderTTL: req.QuoteTTL, Items: envItems, PaymentTypes: req.PaymentTypes,
		Fulfillments: envFulfillments, IsPurchaseOrder: isPurchaseOrder, IsImport: req.IsImport, CustomerName: req.CustomerName,
	})

	if _, err := d.send(ctx, outbound{
		Action: envelope.ActionSelect, CounterpartyURI: bpp.SubscriberURI, TransactionID: req.TransactionID,
		MessageID: messageID, BusinessID: req.BusinessID, UserID: req.UserID, DeviceID: req.DeviceID, Envelope: env,
	}); err != nil {
		return err
	}

	if !isPurchaseOrder {
		return nil
	}

	bppRouting := domain.NetworkParticipantPair{BAP: counterparty(bap), BPP: counterparty(bpp)}
	return d.Commerce.DraftSelect(ctx, commerce.DraftSelectInput{
		ExternalURN: req.ExternalURN, RecordType: req.RecordType, DomainCategoryCode: d.DomainCode,
		BuyerID: req.BuyerID, CreatedBy: req.CreatedBy, Routing: bppRouting, ProviderID: req.ProviderID,
		ProviderName: req.ProviderName, CityCode: req.CityCode, CountryCode: req.CountryCode, CurrencyCode: req.CurrencyCode,
		QuoteTTL: req.QuoteTTL, Items: commerceItems, Fulfillments: commerceFulfillments, PaymentTypes: req.PaymentTypes,
		CatalogItems: catalogItems,
	})
}
