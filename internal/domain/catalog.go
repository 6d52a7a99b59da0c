package domain

import "github.com/shopspring/decimal"

// Seller is an ondc_seller_info row. Unique on (SellerSubscriberID, ProviderID).
type Seller struct {
	SellerSubscriberID string
	ProviderID         string
	ProviderName       string
}

// CodeName is the {code, name} shape shared by city, state and country.
type CodeName struct {
	Code string
	Name string
}

// Location is an ondc_seller_location_info row. Unique on
// (SellerSubscriberID, ProviderID, LocationID).
type Location struct {
	SellerSubscriberID string
	ProviderID         string
	LocationID         string
	GPSLat             decimal.Decimal
	GPSLng             decimal.Decimal
	Address            string
	City               CodeName
	State              CodeName
	Country            CodeName
	AreaCode           string
}

// PriceSlab is one opaque price-break entry attached to an item. The
// catalog ingest path does not populate Item.PriceSlabs, so ingested
// items carry none.
type PriceSlab struct {
	MinQuantity int64
	MaxQuantity *int64
	UnitPrice   decimal.Decimal
}

// Item is an ondc_seller_product_info row. Unique on
// (SellerSubscriberID, CountryCode, ProviderID, ItemID).
type Item struct {
	SellerSubscriberID  string
	CountryCode         string
	ProviderID          string
	ItemID              string
	ItemCode            string
	ItemName            string
	TaxRate             decimal.Decimal
	Images              []string
	MRP                 decimal.Decimal
	UnitPriceWithTax    decimal.Decimal
	UnitPriceWithoutTax decimal.Decimal
	CurrencyCode        string
	PriceSlabs          []PriceSlab
}

// MappingKey builds the "bppID_providerID_entityID" composite key
// callers depend on exactly for collating outbound items.
func MappingKey(bppID, providerID, entityID string) string {
	return bppID + "_" + providerID + "_" + entityID
}
