package envelope

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
}

// TestBuildSearchMatchesScenarioS1 checks the S1 scenario literally:
// buyer-fee + buyer-id tags only, no fulfillment block for a city search.
func TestBuildSearchMatchesScenarioS1(t *testing.T) {
	ctx := BuildContext(ActionSearch, "ONDC:RET10", "std:080", "IND", "T1", "M1",
		domain.Counterparty{ID: "buyer.example.org", URI: "https://buyer.example.org/ondc"}, nil, fixedNow(), "")

	s := BuildSearch(ctx, SearchParams{
		Mode:        SearchByCity,
		VectorType:  "gstin",
		VectorValue: "29ABCDE1234F1Z5",
		FeeType:     "percent",
		FeeValue:    "3.0",
	})

	if s.Message.Intent.Fulfillment != nil {
		t.Fatal("expected no fulfillment block for a city search")
	}
	if len(s.Message.Intent.Tags) != 2 {
		t.Fatalf("expected exactly 2 tags, got %d", len(s.Message.Intent.Tags))
	}

	feeTag := s.Message.Intent.Tags[0]
	if feeTag.Code != string(TagGroupBuyerFee) || feeTag.List[0].Value != "percent" || feeTag.List[1].Value != "3.0" {
		t.Fatalf("unexpected buyer fee tag: %+v", feeTag)
	}

	idTag := s.Message.Intent.Tags[1]
	if idTag.Code != string(TagGroupBuyerID) || idTag.List[0].Value != "gstin" || idTag.List[1].Value != "29ABCDE1234F1Z5" {
		t.Fatalf("unexpected buyer id tag: %+v", idTag)
	}
}

// TestEnvelopeDeterminism is testable property 1: fixed inputs produce
// byte-identical JSON output.
func TestEnvelopeDeterminism(t *testing.T) {
	build := func() []byte {
		ctx := BuildContext(ActionSearch, "ONDC:RET10", "std:080", "IND", "T1", "M1",
			domain.Counterparty{ID: "buyer.example.org", URI: "https://buyer.example.org/ondc"}, nil, fixedNow(), "")
		s := BuildSearch(ctx, SearchParams{Mode: SearchByCity, VectorType: "gstin", VectorValue: "29ABCDE1234F1Z5", FeeType: "percent", FeeValue: "3.0"})
		b, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return b
	}

	a := build()
	b := build()
	if string(a) != string(b) {
		t.Fatalf("expected byte-identical output, got:\n%s\nvs\n%s", a, b)
	}
}

// TestBuildCancelMatchesScenarioS6 checks the cancel message shape.
func TestBuildCancelMatchesScenarioS6(t *testing.T) {
	ctx := BuildContext(ActionCancel, "ONDC:RET10", "std:080", "IND", "T1", "M1",
		domain.Counterparty{ID: "buyer.example.org"}, &domain.Counterparty{ID: "seller.example.org"}, fixedNow(), "")

	c := BuildCancel(ctx, "urn-123", "001")
	if c.Message.OrderID != "urn-123" || c.Message.CancellationReasonID != "001" {
		t.Fatalf("unexpected cancel message: %+v", c.Message)
	}
}

// TestBuildConfirmOrdersFulfillmentTriplesBeforeItemTriples checks the
// S5 scenario's breakup ordering.
func TestBuildConfirmOrdersFulfillmentTriplesBeforeItemTriples(t *testing.T) {
	ctx := BuildContext(ActionConfirm, "ONDC:RET10", "std:080", "IND", "T1", "M1",
		domain.Counterparty{ID: "buyer.example.org"}, &domain.Counterparty{ID: "seller.example.org"}, fixedNow(), "")

	c := domain.Commerce{
		GrandTotal:   decimal.RequireFromString("1200.00"),
		CurrencyCode: "INR",
		BPPTerms: &domain.BPPTerms{
			MaxLiability: "2", MaxLiabilityCap: "10000", MandatoryArbitration: "false",
			CourtJurisdiction: "Bengaluru", DelayInterest: "1000",
		},
		Fulfillments: []domain.CommerceFulfillment{{FulfillmentID: "F1", FulfillmentType: domain.FulfillmentDelivery}},
		Items: []domain.CommerceItem{
			{ItemID: "I1", ItemName: "Widget", Qty: 2, UnitPrice: decimal.RequireFromString("400.00"), TaxValue: decimal.RequireFromString("40"), DiscountAmount: decimal.RequireFromString("10")},
		},
	}

	confirm := BuildConfirm(ctx, c, "prov-1", "gstin", "29ABCDE1234F1Z5", SelfSettlement{})

	breakup := confirm.Message.Order.Quote.Breakup
	if len(breakup) != 6 {
		t.Fatalf("expected 6 breakup lines, got %d", len(breakup))
	}
	wantTypes := []string{"packing", "delivery", "misc", "item", "tax", "discount"}
	for i, want := range wantTypes {
		if breakup[i].TitleType != want {
			t.Fatalf("breakup[%d].TitleType = %q, want %q", i, breakup[i].TitleType, want)
		}
	}

	tags := confirm.Message.Order.Tags
	if tags[0].Code != string(TagGroupBuyerID) {
		t.Fatalf("expected first tag to be buyer-id, got %s", tags[0].Code)
	}
	foundAgreement := false
	for _, tag := range tags {
		if tag.Code == string(TagGroupBPPTerms) {
			for _, e := range tag.List {
				if e.Code == "bap_agreement_to_bpp_terms" && e.Value == "Y" {
					foundAgreement = true
				}
			}
		}
	}
	if !foundAgreement {
		t.Fatal("expected bap_agreement_to_bpp_terms=Y tag when BPP terms exist")
	}
}

// TestBuildUpdateItemTargetIsNotImplemented checks the open-question
// resolution: item/fulfillment update targets return NotImplemented.
func TestBuildUpdateItemTargetIsNotImplemented(t *testing.T) {
	ctx := BuildContext(ActionUpdate, "ONDC:RET10", "std:080", "IND", "T1", "M1",
		domain.Counterparty{ID: "buyer.example.org"}, &domain.Counterparty{ID: "seller.example.org"}, fixedNow(), "")

	_, err := BuildUpdate(ctx, UpdateTargetItem, UpdatePaymentParams{})
	if err == nil {
		t.Fatal("expected error for item update target")
	}
	if ondcerr.KindOf(err) != ondcerr.NotImplemented {
		t.Fatalf("expected NotImplemented kind, got %v", ondcerr.KindOf(err))
	}
}
