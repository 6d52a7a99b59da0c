// Package inbound decodes seller (on_*) callback payloads into the
// Commerce State Store's Apply* inputs. It is the read-side mirror of
// internal/envelope: envelope only ever builds outbound wire shapes,
// inbound only ever parses them.
package inbound

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/commerce"
	"github.com/ondcnet/bap-adapter/internal/domain"
)

type tagWire struct {
	Code string `json:"code"`
	List []struct {
		Code  string `json:"code"`
		Value string `json:"value"`
	} `json:"list"`
}

func tagValue(tags []tagWire, group, code string) string {
	for _, t := range tags {
		if t.Code != group {
			continue
		}
		for _, e := range t.List {
			if e.Code == code {
				return e.Value
			}
		}
	}
	return ""
}

type priceWire struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type breakupLineWire struct {
	Title     string    `json:"title"`
	TitleType string    `json:"@ondc/org/title_type"`
	Price     priceWire `json:"price"`
}

type quoteWire struct {
	Price   priceWire         `json:"price"`
	Breakup []breakupLineWire `json:"breakup"`
}

type stopWire struct {
	Type string `json:"type"`
}

type fulfillmentWire struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Category         string     `json:"@ondc/org/category,omitempty"`
	TAT              string     `json:"tat,omitempty"`
	Tracking         *bool      `json:"tracking,omitempty"`
	ServiceableStatus string    `json:"@ondc/org/serviceable_status,omitempty"`
	Stops            []stopWire `json:"stops,omitempty"`
}

type paymentWire struct {
	Type        string `json:"type"`
	CollectedBy string `json:"collected_by,omitempty"`
}

type onSelectOrderWire struct {
	Quote        quoteWire         `json:"quote"`
	Fulfillments []fulfillmentWire `json:"fulfillments"`
	Payments     []paymentWire     `json:"payments"`
}

type OnSelectResponse struct {
	Message struct {
		Order onSelectOrderWire `json:"order"`
	} `json:"message"`
	Error *errorWire `json:"error,omitempty"`
}

type errorWire struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseOnSelect decodes an on_select response into an ApplyQuoteInput.
// A present top-level error marks the quote as rejected; an absent one
// marks it accepted.
func ParseOnSelect(body []byte) (commerce.ApplyQuoteInput, error) {
	var resp OnSelectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return commerce.ApplyQuoteInput{}, fmt.Errorf("inbound: decode on_select: %w", err)
	}

	grandTotal := parseDecimalOrZero(resp.Message.Order.Quote.Price.Value)

	var packingTotal, deliveryTotal, miscTotal decimal.Decimal
	breakupByItem := map[string]commerce.QuoteBreakupLineInput{}
	for _, line := range resp.Message.Order.Quote.Breakup {
		switch line.TitleType {
		case "item":
			b := breakupByItem[line.Title]
			b.ItemID = line.Title
			b.UnitPrice = parseDecimalOrZero(line.Price.Value)
			breakupByItem[line.Title] = b
		case "tax":
			b := breakupByItem[line.Title]
			b.TaxValue = parseDecimalOrZero(line.Price.Value)
			breakupByItem[line.Title] = b
		case "discount":
			b := breakupByItem[line.Title]
			b.DiscountAmount = parseDecimalOrZero(line.Price.Value)
			breakupByItem[line.Title] = b
		case "packing":
			packingTotal = packingTotal.Add(parseDecimalOrZero(line.Price.Value))
		case "delivery":
			deliveryTotal = deliveryTotal.Add(parseDecimalOrZero(line.Price.Value))
		case "misc":
			miscTotal = miscTotal.Add(parseDecimalOrZero(line.Price.Value))
		}
	}
	breakup := make([]commerce.QuoteBreakupLineInput, 0, len(breakupByItem))
	for _, b := range breakupByItem {
		b.GrossTotal = b.UnitPrice.Add(b.TaxValue).Sub(b.DiscountAmount)
		breakup = append(breakup, b)
	}

	fulfillments := make([]commerce.QuotedFulfillmentInput, 0, len(resp.Message.Order.Fulfillments))
	for _, f := range resp.Message.Order.Fulfillments {
		qf := commerce.QuotedFulfillmentInput{FulfillmentID: f.ID, Tracking: f.Tracking}
		if f.Category != "" {
			cat := domain.FulfillmentCategory(f.Category)
			qf.Category = &cat
		}
		if f.ServiceableStatus != "" {
			st := domain.ServiceableStatus(f.ServiceableStatus)
			qf.ServicableStatus = &st
		}
		if f.TAT != "" {
			tat := f.TAT
			qf.TAT = &tat
		}
		for _, s := range f.Stops {
			if s.Type == "start" {
				qf.Pickup = &domain.FulfillmentStop{}
			}
		}
		fulfillments = append(fulfillments, qf)
	}
	// The ONDC breakup carries packing/delivery/misc as order-level
	// totals, not keyed per fulfillment (envelope.BuildConfirm emits
	// the same triple for every fulfillment rather than splitting it),
	// so the quoted charge totals are attributed to the first
	// fulfillment on the response.
	if len(fulfillments) > 0 {
		fulfillments[0].PackingCharge = packingTotal
		fulfillments[0].DeliveryCharge = deliveryTotal
		fulfillments[0].ConvenienceFee = miscTotal
	}

	payments := make([]commerce.QuotedPaymentInput, 0, len(resp.Message.Order.Payments))
	for _, p := range resp.Message.Order.Payments {
		qp := commerce.QuotedPaymentInput{Type: p.Type}
		if p.CollectedBy != "" {
			cb := domain.CollectedBy(p.CollectedBy)
			qp.CollectedBy = &cb
		}
		payments = append(payments, qp)
	}

	return commerce.ApplyQuoteInput{
		Accepted:     resp.Error == nil,
		GrandTotal:   grandTotal,
		Breakup:      breakup,
		Fulfillments: fulfillments,
		Payments:     payments,
	}, nil
}

type billingWire struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type initPaymentWire struct {
	Type string    `json:"type"`
	Tags []tagWire `json:"tags,omitempty"`
}

type onInitOrderWire struct {
	Billing  billingWire       `json:"billing"`
	Payments []initPaymentWire `json:"payments"`
	Tags     []tagWire         `json:"tags"`
}

type OnInitResponse struct {
	Message struct {
		Order onInitOrderWire `json:"order"`
	} `json:"message"`
}

// ParseOnInit decodes an on_init response into an ApplyOnInitInput,
// extracting bpp_terms and cancellation_terms from the order's tags
// the way get_bpp_term_model_from_tag does in the reference
// implementation.
func ParseOnInit(body []byte) (commerce.ApplyOnInitInput, error) {
	var resp OnInitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return commerce.ApplyOnInitInput{}, fmt.Errorf("inbound: decode on_init: %w", err)
	}

	order := resp.Message.Order
	billing := domain.Billing{
		Name: order.Billing.Name, Address: order.Billing.Address, TaxID: order.Billing.TaxID,
		MobileNo: order.Billing.Phone, Email: order.Billing.Email, City: order.Billing.City, State: order.Billing.State,
	}

	var bppTerms *domain.BPPTerms
	if v := tagValue(order.Tags, "bpp_terms", "max_liability"); v != "" {
		bppTerms = &domain.BPPTerms{
			MaxLiability:         v,
			MaxLiabilityCap:      tagValue(order.Tags, "bpp_terms", "max_liability_cap"),
			MandatoryArbitration: tagValue(order.Tags, "bpp_terms", "mandatory_arbitration"),
			CourtJurisdiction:    tagValue(order.Tags, "bpp_terms", "court_jurisdiction"),
			DelayInterest:        tagValue(order.Tags, "bpp_terms", "delay_interest"),
		}
	}

	var cancellationTerms []domain.CancellationTerm
	for _, t := range order.Tags {
		if t.Code != "cancellation_terms" {
			continue
		}
		ct := domain.CancellationTerm{}
		for _, e := range t.List {
			switch e.Code {
			case "fulfillment_state":
				ct.FulfillmentState = e.Value
			case "cancellation_fee_percentage":
				d := parseDecimalOrZero(e.Value)
				ct.CancellationFee.Percentage = &d
			case "cancellation_fee_amount":
				d := parseDecimalOrZero(e.Value)
				ct.CancellationFee.Amount = &d
			}
		}
		cancellationTerms = append(cancellationTerms, ct)
	}

	payments := make([]commerce.PaymentTagInput, 0, len(order.Payments))
	for _, p := range order.Payments {
		pt := commerce.PaymentTagInput{}
		if v := tagValue(p.Tags, "bpp_payment", "buyer_fee_type"); v != "" {
			pt.BuyerFeeType = &v
		}
		if v := tagValue(p.Tags, "bpp_payment", "buyer_fee_amount"); v != "" {
			d := parseDecimalOrZero(v)
			pt.BuyerFeeAmount = &d
		}
		if v := tagValue(p.Tags, "bpp_payment", "settlement_window"); v != "" {
			pt.SettlementWindow = &v
		}
		payments = append(payments, pt)
	}

	return commerce.ApplyOnInitInput{
		Billing:           billing,
		BPPTerms:          bppTerms,
		CancellationTerms: cancellationTerms,
		Payments:          payments,
	}, nil
}

func parseDecimalOrZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseProtocolError reports the top-level ack/nack error object an
// on_* callback body may carry instead of (or alongside) its message.
// Callers that have no dedicated error handling of their own (on_init,
// on_confirm, on_status, on_cancel) use this to skip the store call
// and log rather than apply a response that was never really quoted.
func ParseProtocolError(body []byte) (code, message string, hasError bool) {
	var w struct {
		Error *errorWire `json:"error,omitempty"`
	}
	if err := json.Unmarshal(body, &w); err != nil || w.Error == nil {
		return "", "", false
	}
	return w.Error.Code, w.Error.Message, true
}
