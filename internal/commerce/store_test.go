package commerce

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

// Store itself talks to Postgres via *sql.DB and has no tests here;
// the pieces below are the pure logic store.go leans on and can be
// checked in isolation.

func TestEventForMapsAcceptedToTheRightTransitionEvent(t *testing.T) {
	if got := eventFor(true); got != "on_select_ok" {
		t.Fatalf("eventFor(true) = %q, want on_select_ok", got)
	}
	if got := eventFor(false); got != "on_select_err" {
		t.Fatalf("eventFor(false) = %q, want on_select_err", got)
	}
}

func TestFirstImageDefaultsToEmptyOnNoImages(t *testing.T) {
	if got := firstImage(nil); got != "" {
		t.Fatalf("firstImage(nil) = %q, want empty", got)
	}
	if got := firstImage([]string{"a.png", "b.png"}); got != "a.png" {
		t.Fatalf("firstImage = %q, want a.png", got)
	}
}

func TestEncodeDecodeStopRoundTrips(t *testing.T) {
	stop := &domain.FulfillmentStop{
		Location: domain.FulfillmentLocation{GPS: "12.9,77.6", Address: "123 Main St", City: domain.CodeName{Code: "std:080"}},
		Contact:  domain.FulfillmentContact{MobileNo: "9999999999"},
	}
	raw := encodeStop(stop)
	if raw == nil {
		t.Fatal("expected non-nil encoded stop")
	}
	got := decodeStop(raw)
	if got == nil || got.Location.Address != stop.Location.Address || got.Contact.MobileNo != stop.Contact.MobileNo {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if encodeStop(nil) != nil {
		t.Fatal("expected nil encoding for nil stop")
	}
	if decodeStop(nil) != nil {
		t.Fatal("expected nil decoding for empty input")
	}
}

func TestEncodeDecodeBPPTermsRoundTrips(t *testing.T) {
	terms := &domain.BPPTerms{MaxLiability: "2", CourtJurisdiction: "Bengaluru"}
	got := decodeBPPTerms(encodeBPPTerms(terms))
	if got == nil || got.MaxLiability != "2" || got.CourtJurisdiction != "Bengaluru" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if decodeBPPTerms(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestEncodeDecodeCancellationTermsRoundTrips(t *testing.T) {
	amt := decimal.RequireFromString("50.00")
	terms := []domain.CancellationTerm{
		{FulfillmentState: "Order-delivered", CancellationFee: domain.CancellationFee{Amount: &amt}},
	}
	got := decodeCancellationTerms(encodeCancellationTerms(terms))
	if len(got) != 1 || got[0].FulfillmentState != "Order-delivered" || got[0].CancellationFee.Amount == nil {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if decodeCancellationTerms(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestDecimalArgGuardsAgainstNilPointerPanic(t *testing.T) {
	if got := decimalArg(nil); got != nil {
		t.Fatalf("decimalArg(nil) = %v, want nil", got)
	}
	amt := decimal.RequireFromString("10.50")
	got, ok := decimalArg(&amt).(decimal.Decimal)
	if !ok || !got.Equal(amt) {
		t.Fatalf("decimalArg(&amt) = %v, want %v", got, amt)
	}
}

func TestCheckSelectClosureRejectsUnknownFulfillmentID(t *testing.T) {
	in := DraftSelectInput{
		Items:        []SelectItemInput{{ItemID: "I1", LocationIDs: []string{"L1"}, FulfillmentIDs: []string{"F-missing"}}},
		Fulfillments: []SelectFulfillmentInput{{FulfillmentID: "F1"}},
	}
	if err := checkSelectClosure("test", in); err == nil {
		t.Fatal("expected an error for an item referencing an unknown fulfillment id")
	}
}

func TestCheckSelectClosureRejectsItemsWithNoLocationID(t *testing.T) {
	in := DraftSelectInput{
		Items:        []SelectItemInput{{ItemID: "I1", FulfillmentIDs: []string{"F1"}}},
		Fulfillments: []SelectFulfillmentInput{{FulfillmentID: "F1"}},
	}
	if err := checkSelectClosure("test", in); err == nil {
		t.Fatal("expected an error when items carry no location id at all")
	}
}

func TestCheckSelectClosureAcceptsAClosedSelectRequest(t *testing.T) {
	in := DraftSelectInput{
		Items:        []SelectItemInput{{ItemID: "I1", LocationIDs: []string{"L1"}, FulfillmentIDs: []string{"F1"}}},
		Fulfillments: []SelectFulfillmentInput{{FulfillmentID: "F1"}},
	}
	if err := checkSelectClosure("test", in); err != nil {
		t.Fatalf("expected no error for a closed select request, got %v", err)
	}
}

func TestCheckSelectClosureAllowsNoItems(t *testing.T) {
	if err := checkSelectClosure("test", DraftSelectInput{}); err != nil {
		t.Fatalf("expected no error for an empty select request, got %v", err)
	}
}

func TestNullStringToPtrAndDecimalHelpers(t *testing.T) {
	if got := nullStringToPtr(sql.NullString{Valid: false}); got != nil {
		t.Fatal("expected nil for invalid NullString")
	}
	if got := nullStringToPtr(sql.NullString{String: "hello", Valid: true}); got == nil || *got != "hello" {
		t.Fatalf("expected pointer to 'hello', got %v", got)
	}
	if got := nullStringToDecimal(sql.NullString{String: "12.34", Valid: true}); got == nil || !got.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("expected decimal 12.34, got %v", got)
	}
	if got := nullStringToDecimal(sql.NullString{String: "not-a-number", Valid: true}); got != nil {
		t.Fatal("expected nil for malformed decimal string")
	}
}
