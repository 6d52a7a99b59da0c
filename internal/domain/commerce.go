package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commerce is the root aggregate: one per ExternalURN, mutated only
// through the commerce state store, never assembled ad hoc by the
// envelope builder (which only ever borrows an immutable snapshot).
type Commerce struct {
	ID                uuid.UUID
	ExternalURN        uuid.UUID
	RecordType         RecordType
	RecordStatus       RecordStatus
	DomainCategoryCode string
	BuyerID            string
	SellerID           string
	SellerName         string
	BuyerName          string
	Source             string
	Routing            NetworkParticipantPair
	IsImport           bool
	QuoteTTL           string
	CurrencyCode       string
	GrandTotal         decimal.Decimal
	CityCode           string
	CountryCode        string
	Billing            *Billing
	BPPTerms           *BPPTerms
	CancellationTerms  []CancellationTerm
	CreatedOn          time.Time
	UpdatedOn          time.Time
	CreatedBy          uuid.UUID

	Items         []CommerceItem
	Payments      []CommercePayment
	Fulfillments  []CommerceFulfillment
}

// Billing is the buyer's billing identity captured at init time.
type Billing struct {
	Name   string
	Address string
	TaxID  string
	MobileNo string
	Email  string
	City   string
	State  string
}

// BPPTerms are the seller's liability/jurisdiction terms captured at
// init time from response tags.
type BPPTerms struct {
	MaxLiability          string
	MaxLiabilityCap       string
	MandatoryArbitration  string
	CourtJurisdiction     string
	DelayInterest         string
}

// CancellationTerm is one cancellation-terms entry extracted from an
// on_init response.
type CancellationTerm struct {
	FulfillmentState   string
	CancellationFee    CancellationFee
	ExternalTriggerOnly bool
}

// CancellationFee is either a flat amount or a percentage; exactly one
// field is populated.
type CancellationFee struct {
	Percentage *decimal.Decimal
	Amount     *decimal.Decimal
}

// BuyerTerm carries the optional buyer-supplied item/packaging
// requirement strings attached to a select line item.
type BuyerTerm struct {
	ItemReq      string
	PackagingReq string
}

// CommerceItem is one buyer_commerce_data_line row. Unique per
// (CommerceID, ItemCode).
type CommerceItem struct {
	ID             uuid.UUID
	ItemID         string
	ItemName       string
	ItemCode       string
	ItemImage      string
	Qty            int64
	BuyerTerms     *BuyerTerm
	TaxRate        decimal.Decimal
	TaxValue       decimal.Decimal
	UnitPrice      decimal.Decimal
	GrossTotal     decimal.Decimal
	AvailableQty   int64
	DiscountAmount decimal.Decimal
	LocationIDs    []string
	FulfillmentIDs []string
}

// SettlementDetail is one counterparty/phase/type settlement line
// attached to a payment.
type SettlementDetail struct {
	Counterparty      string
	Phase             string
	Type              string
	BankAccountNo     string
	IFSC              string
	Beneficiary       string
	BankName          string
}

// CommercePayment is one buyer_commerce_payment row.
type CommercePayment struct {
	ID                uuid.UUID
	CollectedBy       *CollectedBy
	PaymentType       string
	BuyerFeeType      *string
	BuyerFeeAmount    *decimal.Decimal
	SettlementWindow  *string
	WithholdingAmount *decimal.Decimal
	SellerPaymentURI  *string
	SettlementBasis   *string
	SettlementDetails []SettlementDetail
}

// FulfillmentStop is the {location, contact} shape shared by pickup
// and drop-off stops.
type FulfillmentStop struct {
	Location FulfillmentLocation
	Contact  FulfillmentContact
}

// FulfillmentLocation is a buyer or seller stop's address block.
type FulfillmentLocation struct {
	GPS            string
	AreaCode       string
	Address        string
	City           CodeName
	Country        CodeName
	State          string
}

// FulfillmentContact is a stop's reachability block.
type FulfillmentContact struct {
	MobileNo string
	Email    string
}

// CommerceFulfillment is one buyer_commerce_fulfillment_data row.
type CommerceFulfillment struct {
	ID                uuid.UUID
	FulfillmentID     string
	FulfillmentType   FulfillmentType
	TAT               *string
	Status            CommerceFulfillmentStatus
	IncoTerms         *IncoTerm
	PlaceOfDelivery   *string
	ProviderName      *string
	Category          *FulfillmentCategory
	ServicableStatus  *ServiceableStatus
	Tracking          *bool
	DropOff           *FulfillmentStop
	Pickup            *FulfillmentStop
	PackingCharge     decimal.Decimal
	DeliveryCharge    decimal.Decimal
	ConvenienceFee    decimal.Decimal
}

// CommerceFulfillmentStatus is the fulfillment-level status, distinct
// from the commerce-level RecordStatus.
type CommerceFulfillmentStatus string

const (
	FulfillmentStatusPending          CommerceFulfillmentStatus = "Pending"
	FulfillmentStatusAgentAssigned    CommerceFulfillmentStatus = "Agent-assigned"
	FulfillmentStatusPacked           CommerceFulfillmentStatus = "Packed"
	FulfillmentStatusOrderPickedUp    CommerceFulfillmentStatus = "Order-picked-up"
	FulfillmentStatusSearchingForAgent CommerceFulfillmentStatus = "Searching-for-agent"
	FulfillmentStatusOutForDelivery   CommerceFulfillmentStatus = "Out-for-delivery"
	FulfillmentStatusOrderDelivered   CommerceFulfillmentStatus = "Order-delivered"
	FulfillmentStatusCancelled        CommerceFulfillmentStatus = "Cancelled"
)

// LocationIDClosure returns the deduplicated union of every item's
// LocationIDs, used both to populate the select envelope's provider
// block and to check the location/fulfillment closure property.
func (c *Commerce) LocationIDClosure() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, item := range c.Items {
		for _, id := range item.LocationIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

// FulfillmentIDSet returns the set of fulfillment ids present on the
// aggregate, for checking closure against item.FulfillmentIDs.
func (c *Commerce) FulfillmentIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Fulfillments))
	for _, f := range c.Fulfillments {
		set[f.FulfillmentID] = struct{}{}
	}
	return set
}
