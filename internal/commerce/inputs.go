package commerce

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

// SelectItemInput is one buyer-selected line item, as it arrives on
// a select request, before catalog enrichment.
type SelectItemInput struct {
	ItemID         string
	LocationIDs    []string
	FulfillmentIDs []string
	Qty            int64
	BuyerTerm      *domain.BuyerTerm
}

// SelectFulfillmentInput is one buyer-requested fulfillment on a
// select request, carrying only the buyer's own drop-off stop.
type SelectFulfillmentInput struct {
	FulfillmentID string
	Type          domain.FulfillmentType
	DropOff       *domain.FulfillmentStop
	IncoTerms     *domain.IncoTerm
	PlaceOfDelivery string
}

// DraftSelectInput is everything DraftSelect needs to persist a fresh
// QuoteRequested aggregate. CatalogItems is the (possibly partial)
// result of a Catalog Store lookup keyed by
// domain.MappingKey(bppID, providerID, itemID); a miss degrades to
// zero/blank fields rather than failing the draft.
type DraftSelectInput struct {
	ExternalURN        uuid.UUID
	RecordType         domain.RecordType
	DomainCategoryCode string
	BuyerID            string
	CreatedBy          uuid.UUID
	Routing            domain.NetworkParticipantPair
	ProviderID         string
	ProviderName       string
	CityCode           string
	CountryCode        string
	CurrencyCode       string
	QuoteTTL           string
	Items              []SelectItemInput
	Fulfillments       []SelectFulfillmentInput
	PaymentTypes       []string
	CatalogItems       map[string]domain.Item
}

// QuoteBreakupLineInput is one item's breakup line from an on_select
// response, keyed by item id by the caller before this call.
type QuoteBreakupLineInput struct {
	ItemID         string
	UnitPrice      decimal.Decimal
	TaxValue       decimal.Decimal
	DiscountAmount decimal.Decimal
	GrossTotal     decimal.Decimal
	AvailableQty   int64
}

// ApplyQuoteInput is everything ApplyQuote needs to update a draft
// aggregate with the seller's quoted response.
type ApplyQuoteInput struct {
	ExternalURN  uuid.UUID
	Accepted     bool
	GrandTotal   decimal.Decimal
	Breakup      []QuoteBreakupLineInput
	Fulfillments []QuotedFulfillmentInput
	Payments     []QuotedPaymentInput
}

// QuotedFulfillmentInput augments a select fulfillment with the
// BPP's response fields and, when present, a pickup stop parsed from
// a start-type response stop.
type QuotedFulfillmentInput struct {
	FulfillmentID    string
	Category         *domain.FulfillmentCategory
	ServicableStatus *domain.ServiceableStatus
	TAT              *string
	Tracking         *bool
	Pickup           *domain.FulfillmentStop
	PackingCharge    decimal.Decimal
	DeliveryCharge   decimal.Decimal
	ConvenienceFee   decimal.Decimal
}

type QuotedPaymentInput struct {
	Type        string
	CollectedBy *domain.CollectedBy
}

// PaymentTagInput is the tag-derived seller payment metadata attached
// to an on_init response payment.
type PaymentTagInput struct {
	BuyerFeeType      *string
	BuyerFeeAmount    *decimal.Decimal
	SettlementWindow  *string
	WithholdingAmount *decimal.Decimal
	SellerPaymentURI  *string
	SettlementBasis   *string
	SettlementDetails []domain.SettlementDetail
}

// ApplyOnInitInput is everything ApplyOnInit needs to move an
// aggregate into Initialized.
type ApplyOnInitInput struct {
	ExternalURN       uuid.UUID
	Billing           domain.Billing
	BPPTerms          *domain.BPPTerms
	CancellationTerms []domain.CancellationTerm
	Payments          []PaymentTagInput
}

// OutboundAuditInput is one row in the outbound audit log, written
// concurrently with the POST of the envelope it records.
type OutboundAuditInput struct {
	TransactionID uuid.UUID
	MessageID     uuid.UUID
	Action        string
	Payload       []byte
	UserID        *uuid.UUID
	BusinessID    uuid.UUID
	DeviceID      *string
}
