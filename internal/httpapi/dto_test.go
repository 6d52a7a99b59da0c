package httpapi

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

func TestToCommerceViewProjectsAggregateFields(t *testing.T) {
	externalURN := uuid.New()
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)

	c := &domain.Commerce{
		ExternalURN:  externalURN,
		RecordType:   domain.RecordType("ORDER"),
		RecordStatus: domain.StatusCreated,
		SellerID:     "seller.example.com",
		SellerName:   "Example Seller",
		CityCode:     "std:080",
		CountryCode:  "IND",
		CurrencyCode: "INR",
		GrandTotal:   decimal.NewFromFloat(249.50),
		CreatedOn:    now,
		UpdatedOn:    now,
	}

	got := toCommerceView(c)

	if got.ExternalURN != externalURN {
		t.Errorf("ExternalURN = %s, want %s", got.ExternalURN, externalURN)
	}
	if got.GrandTotal != "249.5" {
		t.Errorf("GrandTotal = %q, want a decimal string rendering of 249.50", got.GrandTotal)
	}
	if got.RecordStatus != domain.StatusCreated {
		t.Errorf("RecordStatus = %q, want %q", got.RecordStatus, domain.StatusCreated)
	}
	if got.SellerName != "Example Seller" {
		t.Errorf("SellerName = %q, want Example Seller", got.SellerName)
	}
}

func TestParseUUIDOrZeroReturnsZeroValueOnBadInput(t *testing.T) {
	if got := parseUUIDOrZero("not-a-uuid"); got != (uuid.UUID{}) {
		t.Errorf("parseUUIDOrZero(invalid) = %s, want zero value", got)
	}
}

func TestParseUUIDOrZeroRoundTripsValidUUID(t *testing.T) {
	id := uuid.New()
	if got := parseUUIDOrZero(id.String()); got != id {
		t.Errorf("parseUUIDOrZero(%s) = %s, want %s", id, got, id)
	}
}

func TestSearchModesCoversAllFacadeVocabulary(t *testing.T) {
	for _, key := range []string{"city", "item_name", "category"} {
		if _, ok := searchModes[key]; !ok {
			t.Errorf("searchModes missing entry for %q", key)
		}
	}
}
