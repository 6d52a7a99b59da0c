package envelope

import (
	"github.com/ondcnet/bap-adapter/internal/domain"
)

type priceBlock struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type quoteBreakupLine struct {
	Title     string     `json:"title"`
	TitleType string     `json:"@ondc/org/title_type"`
	Price     priceBlock `json:"price"`
}

type quoteBlock struct {
	Price   priceBlock         `json:"price"`
	Breakup []quoteBreakupLine `json:"breakup"`
}

type settlementDetailWire struct {
	Counterparty  string `json:"counterparty"`
	Phase         string `json:"phase"`
	Type          string `json:"type"`
	BankAccountNo string `json:"bank_account_no,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	Beneficiary   string `json:"beneficiary_name,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

type confirmPaymentRef struct {
	Type              string                 `json:"type"`
	CollectedBy       string                 `json:"collected_by,omitempty"`
	SettlementDetails []settlementDetailWire `json:"@ondc/org/settlement_details,omitempty"`
}

type confirmOrderBlock struct {
	Provider     providerRef         `json:"provider"`
	Items        []OrderItem         `json:"items"`
	Quote        quoteBlock          `json:"quote"`
	Payments     []confirmPaymentRef `json:"payments"`
	Fulfillments []OrderFulfillment  `json:"fulfillments"`
	Tags         []Tag               `json:"tags"`
}

type ConfirmMessage struct {
	Order confirmOrderBlock `json:"order"`
}

type Confirm struct {
	Context Context        `json:"context"`
	Message ConfirmMessage `json:"message"`
}

// SelfSettlement is the caller's own registered bank identity,
// substituted for a payment's settlement details whenever that
// payment is collected_by=Bap.
type SelfSettlement struct {
	BankAccountNo string
	IFSC          string
	Beneficiary   string
	BankName      string
}

// BuildConfirm reconstructs the full quote breakup from a commerce
// aggregate: one Packing+Delivery+Misc triple per fulfillment,
// followed by one Item+Tax+Discount triple per item, in that order.
func BuildConfirm(ctx Context, c domain.Commerce, providerID string, vectorType, vectorValue string, self SelfSettlement) Confirm {
	currency := c.CurrencyCode

	var breakup []quoteBreakupLine
	for _, f := range c.Fulfillments {
		breakup = append(breakup,
			quoteBreakupLine{Title: "Packing Charges", TitleType: "packing", Price: priceBlock{Currency: currency, Value: f.PackingCharge.String()}},
			quoteBreakupLine{Title: "Delivery Charges", TitleType: "delivery", Price: priceBlock{Currency: currency, Value: f.DeliveryCharge.String()}},
			quoteBreakupLine{Title: "Convenience Fee", TitleType: "misc", Price: priceBlock{Currency: currency, Value: f.ConvenienceFee.String()}},
		)
	}
	for _, it := range c.Items {
		breakup = append(breakup,
			quoteBreakupLine{Title: it.ItemName, TitleType: "item", Price: priceBlock{Currency: currency, Value: it.GrossTotal.String()}},
			quoteBreakupLine{Title: "Tax", TitleType: "tax", Price: priceBlock{Currency: currency, Value: it.TaxValue.String()}},
			quoteBreakupLine{Title: "Discount", TitleType: "discount", Price: priceBlock{Currency: currency, Value: it.DiscountAmount.String()}},
		)
	}

	items := make([]OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, OrderItem{
			ID:             it.ItemID,
			LocationIDs:    it.LocationIDs,
			FulfillmentIDs: it.FulfillmentIDs,
			Quantity:       quantityBlock{Selected: quantitySelected{Count: it.Qty}},
		})
	}

	payments := make([]confirmPaymentRef, 0, len(c.Payments))
	for _, pay := range c.Payments {
		ref := confirmPaymentRef{Type: pay.PaymentType}
		if pay.CollectedBy != nil {
			ref.CollectedBy = string(*pay.CollectedBy)
			if *pay.CollectedBy == domain.CollectedByBAP {
				ref.SettlementDetails = []settlementDetailWire{{
					Counterparty:  "buyer-app",
					Phase:         "sale-amount",
					Type:          "upi",
					BankAccountNo: self.BankAccountNo,
					IFSC:          self.IFSC,
					Beneficiary:   self.Beneficiary,
					BankName:      self.BankName,
				}}
			} else {
				ref.SettlementDetails = toSettlementWire(pay.SettlementDetails)
			}
		}
		payments = append(payments, ref)
	}

	fulfillments := make([]OrderFulfillment, 0, len(c.Fulfillments))
	for _, f := range c.Fulfillments {
		of := OrderFulfillment{ID: f.FulfillmentID, Type: string(f.FulfillmentType)}
		if f.DropOff != nil {
			of.Stops = append(of.Stops, toStop("end", *f.DropOff))
		}
		if f.Pickup != nil {
			of.Stops = append(of.Stops, toStop("start", *f.Pickup))
		}
		fulfillments = append(fulfillments, of)
	}

	tags := []Tag{BuyerIDTag(vectorType, vectorValue)}
	if c.BPPTerms != nil {
		tags = append(tags, BPPTermsTag(*c.BPPTerms), AgreementTag())
	}
	for _, ct := range c.CancellationTerms {
		tags = append(tags, CancellationTermTag(ct))
	}

	order := confirmOrderBlock{
		Provider: providerRef{ID: providerID},
		Items:    items,
		Quote: quoteBlock{
			Price:   priceBlock{Currency: currency, Value: c.GrandTotal.String()},
			Breakup: breakup,
		},
		Payments:     payments,
		Fulfillments: fulfillments,
		Tags:         tags,
	}

	return Confirm{Context: ctx, Message: ConfirmMessage{Order: order}}
}

func toSettlementWire(details []domain.SettlementDetail) []settlementDetailWire {
	out := make([]settlementDetailWire, 0, len(details))
	for _, d := range details {
		out = append(out, settlementDetailWire{
			Counterparty:  d.Counterparty,
			Phase:         d.Phase,
			Type:          d.Type,
			BankAccountNo: d.BankAccountNo,
			IFSC:          d.IFSC,
			Beneficiary:   d.Beneficiary,
			BankName:      d.BankName,
		})
	}
	return out
}
