package catalog

import (
	"testing"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

func TestMappingKeyShape(t *testing.T) {
	got := domain.MappingKey("bpp1", "prov1", "item1")
	want := "bpp1_prov1_item1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWireItemTagValueDefaultsToEmptyOnMissingTag(t *testing.T) {
	it := WireItem{}
	if v := it.TagValue("tax", "tax_rate"); v != "" {
		t.Fatalf("expected empty tax rate, got %q", v)
	}
	if d := mustDecimal(it.TagValue("tax", "tax_rate")); !d.IsZero() {
		t.Fatalf("expected zero tax rate default, got %s", d)
	}
}

func TestWireItemTagValueFindsNestedEntry(t *testing.T) {
	it := WireItem{Tags: []WireTag{
		{Code: "tax", List: []struct {
			Code  string `json:"code"`
			Value string `json:"value"`
		}{{Code: "tax_rate", Value: "5.00"}}},
	}}
	if v := it.TagValue("tax", "tax_rate"); v != "5.00" {
		t.Fatalf("got %q, want 5.00", v)
	}
}

func TestParseGPSDefaultsToZeroOnMalformedInput(t *testing.T) {
	lat, lng := parseGPS("not-a-gps-string")
	if !lat.IsZero() || !lng.IsZero() {
		t.Fatalf("expected zero lat/lng, got %s/%s", lat, lng)
	}

	lat, lng = parseGPS("12.34, 56.78")
	if lat.String() != "12.34" || lng.String() != "56.78" {
		t.Fatalf("got %s/%s, want 12.34/56.78", lat, lng)
	}
}
