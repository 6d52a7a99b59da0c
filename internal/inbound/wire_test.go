package inbound

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseOnSelectAcceptedQuote(t *testing.T) {
	body := []byte(`{
		"message": {
			"order": {
				"quote": {
					"price": {"currency": "INR", "value": "150.00"},
					"breakup": [
						{"title": "item-1", "@ondc/org/title_type": "item", "price": {"currency": "INR", "value": "100.00"}},
						{"title": "item-1", "@ondc/org/title_type": "tax", "price": {"currency": "INR", "value": "5.00"}},
						{"title": "delivery", "@ondc/org/title_type": "delivery", "price": {"currency": "INR", "value": "45.00"}}
					]
				},
				"fulfillments": [
					{"id": "f1", "type": "Delivery", "@ondc/org/category": "Standard Delivery", "tracking": true}
				],
				"payments": [
					{"type": "ON-ORDER", "collected_by": "BAP"}
				]
			}
		}
	}`)

	got, err := ParseOnSelect(body)
	if err != nil {
		t.Fatalf("ParseOnSelect returned error: %v", err)
	}
	if !got.Accepted {
		t.Error("expected quote to be accepted when no error object is present")
	}
	if !got.GrandTotal.Equal(decimal.NewFromFloat(150.00)) {
		t.Errorf("GrandTotal = %s, want 150.00", got.GrandTotal)
	}
	if len(got.Breakup) != 1 {
		t.Fatalf("expected 1 item breakup line (the delivery line is an order-level charge), got %d", len(got.Breakup))
	}
	if got.Breakup[0].ItemID != "item-1" {
		t.Errorf("breakup item id = %q, want item-1", got.Breakup[0].ItemID)
	}
	if !got.Breakup[0].GrossTotal.Equal(decimal.NewFromFloat(105.00)) {
		t.Errorf("GrossTotal = %s, want 105.00 (unit_price 100.00 + tax 5.00 - discount 0)", got.Breakup[0].GrossTotal)
	}
	if len(got.Fulfillments) != 1 || got.Fulfillments[0].FulfillmentID != "f1" {
		t.Fatalf("unexpected fulfillments: %+v", got.Fulfillments)
	}
	if got.Fulfillments[0].Tracking == nil || !*got.Fulfillments[0].Tracking {
		t.Error("expected tracking true to survive parsing")
	}
	if !got.Fulfillments[0].DeliveryCharge.Equal(decimal.NewFromFloat(45.00)) {
		t.Errorf("DeliveryCharge = %s, want 45.00", got.Fulfillments[0].DeliveryCharge)
	}
	if len(got.Payments) != 1 || got.Payments[0].Type != "ON-ORDER" {
		t.Fatalf("unexpected payments: %+v", got.Payments)
	}
}

func TestParseOnSelectRejectedQuote(t *testing.T) {
	body := []byte(`{
		"message": {"order": {"quote": {"price": {"currency": "INR", "value": "0"}}}},
		"error": {"code": "40002", "message": "item out of stock"}
	}`)

	got, err := ParseOnSelect(body)
	if err != nil {
		t.Fatalf("ParseOnSelect returned error: %v", err)
	}
	if got.Accepted {
		t.Error("expected quote to be rejected when an error object is present")
	}
}

func TestParseOnSelectInvalidJSON(t *testing.T) {
	if _, err := ParseOnSelect([]byte(`not json`)); err == nil {
		t.Fatal("expected an error decoding malformed on_select body")
	}
}

func TestParseOnInitExtractsBillingAndBPPTerms(t *testing.T) {
	body := []byte(`{
		"message": {
			"order": {
				"billing": {"name": "Jane Doe", "address": "221B Baker St", "tax_id": "ABCDE1234F", "phone": "9999999999", "email": "jane@example.com", "city": "std:080", "state": "KA"},
				"payments": [
					{"type": "ON-ORDER", "tags": [
						{"code": "bpp_payment", "list": [
							{"code": "buyer_fee_type", "value": "percent"},
							{"code": "buyer_fee_amount", "value": "1.5"},
							{"code": "settlement_window", "value": "P1D"}
						]}
					]}
				],
				"tags": [
					{"code": "bpp_terms", "list": [
						{"code": "max_liability", "value": "2"},
						{"code": "max_liability_cap", "value": "10000"},
						{"code": "mandatory_arbitration", "value": "false"},
						{"code": "court_jurisdiction", "value": "Bengaluru"},
						{"code": "delay_interest", "value": "0"}
					]},
					{"code": "cancellation_terms", "list": [
						{"code": "fulfillment_state", "value": "Pending"},
						{"code": "cancellation_fee_percentage", "value": "10"}
					]}
				]
			}
		}
	}`)

	got, err := ParseOnInit(body)
	if err != nil {
		t.Fatalf("ParseOnInit returned error: %v", err)
	}
	if got.Billing.Name != "Jane Doe" || got.Billing.Email != "jane@example.com" {
		t.Errorf("billing not parsed correctly: %+v", got.Billing)
	}
	if got.BPPTerms == nil {
		t.Fatal("expected bpp_terms to be extracted")
	}
	if got.BPPTerms.MaxLiability != "2" || got.BPPTerms.CourtJurisdiction != "Bengaluru" {
		t.Errorf("unexpected bpp terms: %+v", got.BPPTerms)
	}
	if len(got.CancellationTerms) != 1 || got.CancellationTerms[0].FulfillmentState != "Pending" {
		t.Fatalf("unexpected cancellation terms: %+v", got.CancellationTerms)
	}
	if got.CancellationTerms[0].CancellationFee.Percentage == nil {
		t.Fatal("expected cancellation fee percentage to be parsed")
	}
	if len(got.Payments) != 1 || got.Payments[0].BuyerFeeType == nil || *got.Payments[0].BuyerFeeType != "percent" {
		t.Fatalf("unexpected payment tag extraction: %+v", got.Payments)
	}
}

func TestParseProtocolErrorReportsTopLevelErrorObject(t *testing.T) {
	body := []byte(`{"message": {"order": {}}, "error": {"code": "40002", "message": "item out of stock"}}`)
	code, msg, has := ParseProtocolError(body)
	if !has {
		t.Fatal("expected a protocol error to be reported")
	}
	if code != "40002" || msg != "item out of stock" {
		t.Errorf("ParseProtocolError = (%q, %q), want (40002, item out of stock)", code, msg)
	}
}

func TestParseProtocolErrorReportsNoneWhenAbsent(t *testing.T) {
	body := []byte(`{"message": {"order": {}}}`)
	if _, _, has := ParseProtocolError(body); has {
		t.Fatal("expected no protocol error to be reported")
	}
}

func TestParseProtocolErrorReportsNoneOnMalformedBody(t *testing.T) {
	if _, _, has := ParseProtocolError([]byte(`not json`)); has {
		t.Fatal("expected malformed bodies to report no protocol error, not panic or lie")
	}
}

func TestParseOnInitWithNoBPPTerms(t *testing.T) {
	body := []byte(`{"message": {"order": {"billing": {"name": "Jane"}, "tags": []}}}`)

	got, err := ParseOnInit(body)
	if err != nil {
		t.Fatalf("ParseOnInit returned error: %v", err)
	}
	if got.BPPTerms != nil {
		t.Error("expected nil BPPTerms when the order carries no bpp_terms tag group")
	}
	if len(got.CancellationTerms) != 0 {
		t.Error("expected no cancellation terms when none are tagged")
	}
}
