package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/envelope"
)

// searchRequestDTO is the wire shape of POST /api/v1/search.
type searchRequestDTO struct {
	BPPSubscriberID string `json:"bpp_subscriber_id"`
	TransactionID   string `json:"transaction_id"`
	CityCode        string `json:"city_code"`
	CountryCode     string `json:"country_code"`

	Mode            string `json:"mode"`
	ItemName        string `json:"item_name,omitempty"`
	CategoryID      string `json:"category_id,omitempty"`
	PaymentType     string `json:"payment_type,omitempty"`
	VectorType      string `json:"vector_type"`
	VectorValue     string `json:"vector_value"`
	FeeType         string `json:"fee_type,omitempty"`
	FeeValue        string `json:"fee_value,omitempty"`
	FulfillmentType string `json:"fulfillment_type,omitempty"`
}

var searchModes = map[string]envelope.SearchMode{
	"city":      envelope.SearchByCity,
	"item_name": envelope.SearchByItemName,
	"category":  envelope.SearchByCategory,
}

type selectItemDTO struct {
	ItemID         string            `json:"item_id"`
	LocationIDs    []string          `json:"location_ids"`
	FulfillmentIDs []string          `json:"fulfillment_ids"`
	Quantity       int64             `json:"quantity"`
	BuyerTerm      *domain.BuyerTerm `json:"buyer_term,omitempty"`
}

type selectFulfillmentDTO struct {
	ID              string                  `json:"id"`
	Type            domain.FulfillmentType  `json:"type"`
	EndStop         *domain.FulfillmentStop `json:"end_stop,omitempty"`
	IncoTerms       *domain.IncoTerm        `json:"inco_terms,omitempty"`
	PlaceOfDelivery string                  `json:"place_of_delivery,omitempty"`
}

// selectRequestDTO is the wire shape of POST /api/v1/select. ExternalURN
// is decoded but not used: handleSelect mints a fresh external urn for
// every select and returns it in the response body.
type selectRequestDTO struct {
	ExternalURN     string                 `json:"external_urn"`
	TransactionID   string                 `json:"transaction_id"`
	BPPSubscriberID string                 `json:"bpp_subscriber_id"`
	ProviderID      string                 `json:"provider_id"`
	ProviderName    string                 `json:"provider_name"`
	CityCode        string                 `json:"city_code"`
	CountryCode     string                 `json:"country_code"`
	CurrencyCode    string                 `json:"currency_code"`
	QuoteTTL        string                 `json:"quote_ttl"`
	RecordType      string                 `json:"record_type"`
	IsImport        bool                   `json:"is_import"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	Items           []selectItemDTO        `json:"items"`
	Fulfillments    []selectFulfillmentDTO `json:"fulfillments"`
	PaymentTypes    []string               `json:"payment_types"`
}

type initPaymentDTO struct {
	Type        string             `json:"type"`
	CollectedBy *domain.CollectedBy `json:"collected_by,omitempty"`
}

type initFulfillmentDTO struct {
	ID      string                  `json:"id"`
	Type    domain.FulfillmentType  `json:"type"`
	Pickup  *domain.FulfillmentStop `json:"pickup,omitempty"`
	Dropoff *domain.FulfillmentStop `json:"dropoff,omitempty"`
}

// initRequestDTO is the wire shape of POST /api/v1/orders/{externalURN}/init.
type initRequestDTO struct {
	TransactionID string               `json:"transaction_id"`
	Billing       domain.Billing       `json:"billing"`
	Payments      []initPaymentDTO     `json:"payments"`
	Fulfillments  []initFulfillmentDTO `json:"fulfillments"`
	VectorType    string               `json:"vector_type"`
	VectorValue   string               `json:"vector_value"`
}

// confirmRequestDTO is the wire shape of POST /api/v1/orders/{externalURN}/confirm.
type confirmRequestDTO struct {
	TransactionID string                   `json:"transaction_id"`
	VectorType    string                   `json:"vector_type"`
	VectorValue   string                   `json:"vector_value"`
	Self          envelope.SelfSettlement  `json:"self_settlement"`
}

// statusRequestDTO is the wire shape of POST /api/v1/orders/{externalURN}/status.
type statusRequestDTO struct {
	TransactionID string `json:"transaction_id"`
}

// cancelRequestDTO is the wire shape of POST /api/v1/orders/{externalURN}/cancel.
type cancelRequestDTO struct {
	TransactionID        string `json:"transaction_id"`
	CancellationReasonID string `json:"cancellation_reason_id"`
}

// updateRequestDTO is the wire shape of POST /api/v1/orders/{externalURN}/update.
// Target is always "payment" today — BuildUpdate rejects anything else.
type updateRequestDTO struct {
	TransactionID string            `json:"transaction_id"`
	Target        string            `json:"target"`
	Items         []selectItemDTO   `json:"items"`
	Payments      []initPaymentDTO  `json:"payments"`
}

// callbackEnvelope is only used to read the transaction id back out of
// an inbound on_* body for logging; the body itself is forwarded to
// Intake untouched.
type callbackEnvelope struct {
	Context struct {
		TransactionID string `json:"transaction_id"`
		BPPID         string `json:"bpp_id"`
	} `json:"context"`
}

// errorResponse is the façade's uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// commerceView is the read-side projection of domain.Commerce returned
// by GET /api/v1/orders/{externalURN}. It keeps the aggregate's own
// field names, renders GrandTotal as a decimal string, and omits ID,
// DomainCategoryCode, BuyerID, BuyerName, Source, Routing, IsImport,
// QuoteTTL and CreatedBy.
type commerceView struct {
	ExternalURN       uuid.UUID                `json:"external_urn"`
	RecordType        domain.RecordType        `json:"record_type"`
	RecordStatus      domain.RecordStatus      `json:"record_status"`
	SellerID          string                   `json:"seller_id"`
	SellerName        string                   `json:"seller_name"`
	CityCode          string                   `json:"city_code"`
	CountryCode       string                   `json:"country_code"`
	CurrencyCode      string                   `json:"currency_code"`
	GrandTotal        string                   `json:"grand_total"`
	Billing           *domain.Billing          `json:"billing,omitempty"`
	BPPTerms          *domain.BPPTerms         `json:"bpp_terms,omitempty"`
	CancellationTerms []domain.CancellationTerm `json:"cancellation_terms,omitempty"`
	Items             []domain.CommerceItem    `json:"items"`
	Payments          []domain.CommercePayment `json:"payments"`
	Fulfillments      []domain.CommerceFulfillment `json:"fulfillments"`
	CreatedOn         time.Time                `json:"created_on"`
	UpdatedOn         time.Time                `json:"updated_on"`
}

func toCommerceView(c *domain.Commerce) commerceView {
	return commerceView{
		ExternalURN: c.ExternalURN, RecordType: c.RecordType, RecordStatus: c.RecordStatus,
		SellerID: c.SellerID, SellerName: c.SellerName, CityCode: c.CityCode, CountryCode: c.CountryCode,
		CurrencyCode: c.CurrencyCode, GrandTotal: c.GrandTotal.String(), Billing: c.Billing, BPPTerms: c.BPPTerms,
		CancellationTerms: c.CancellationTerms, Items: c.Items, Payments: c.Payments, Fulfillments: c.Fulfillments,
		CreatedOn: c.CreatedOn, UpdatedOn: c.UpdatedOn,
	}
}

func parseUUIDOrZero(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}
	}
	return id
}
