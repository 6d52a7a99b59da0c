package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

// sellerBSON, locationBSON, itemBSON mirror domain.{Seller,Location,Item}
// but with bson struct tags and plain-string decimals, so we control
// the exact wire shape Mongo stores without teaching bson about
// decimal.Decimal's internal representation.

type sellerBSON struct {
	SellerSubscriberID string `bson:"seller_subscriber_id"`
	ProviderID         string `bson:"provider_id"`
	ProviderName       string `bson:"provider_name"`
}

func (d sellerBSON) toDomain() domain.Seller {
	return domain.Seller{SellerSubscriberID: d.SellerSubscriberID, ProviderID: d.ProviderID, ProviderName: d.ProviderName}
}

type codeNameBSON struct {
	Code string `bson:"code"`
	Name string `bson:"name"`
}

type locationBSON struct {
	SellerSubscriberID string       `bson:"seller_subscriber_id"`
	ProviderID         string       `bson:"provider_id"`
	LocationID         string       `bson:"location_id"`
	GPSLat             string       `bson:"gps_lat"`
	GPSLng             string       `bson:"gps_lng"`
	Address            string       `bson:"address"`
	City               codeNameBSON `bson:"city"`
	State              codeNameBSON `bson:"state"`
	Country            codeNameBSON `bson:"country"`
	AreaCode           string       `bson:"area_code"`
}

func (d locationBSON) toDomain() domain.Location {
	return domain.Location{
		SellerSubscriberID: d.SellerSubscriberID,
		ProviderID:         d.ProviderID,
		LocationID:         d.LocationID,
		GPSLat:             mustDecimal(d.GPSLat),
		GPSLng:             mustDecimal(d.GPSLng),
		Address:            d.Address,
		City:               domain.CodeName{Code: d.City.Code, Name: d.City.Name},
		State:              domain.CodeName{Code: d.State.Code, Name: d.State.Name},
		Country:            domain.CodeName{Code: d.Country.Code, Name: d.Country.Name},
		AreaCode:           d.AreaCode,
	}
}

func locationDoc(l domain.Location) locationBSON {
	return locationBSON{
		SellerSubscriberID: l.SellerSubscriberID,
		ProviderID:         l.ProviderID,
		LocationID:         l.LocationID,
		GPSLat:             l.GPSLat.String(),
		GPSLng:             l.GPSLng.String(),
		Address:            l.Address,
		City:               codeNameBSON{Code: l.City.Code, Name: l.City.Name},
		State:              codeNameBSON{Code: l.State.Code, Name: l.State.Name},
		Country:            codeNameBSON{Code: l.Country.Code, Name: l.Country.Name},
		AreaCode:           l.AreaCode,
	}
}

type priceSlabBSON struct {
	MinQuantity int64  `bson:"min_quantity"`
	MaxQuantity *int64 `bson:"max_quantity"`
	UnitPrice   string `bson:"unit_price"`
}

type itemBSON struct {
	SellerSubscriberID  string          `bson:"seller_subscriber_id"`
	CountryCode         string          `bson:"country_code"`
	ProviderID          string          `bson:"provider_id"`
	ItemID              string          `bson:"item_id"`
	ItemCode            string          `bson:"item_code"`
	ItemName            string          `bson:"item_name"`
	TaxRate             string          `bson:"tax_rate"`
	Images              []string        `bson:"images"`
	MRP                 string          `bson:"mrp"`
	UnitPriceWithTax    string          `bson:"unit_price_with_tax"`
	UnitPriceWithoutTax string          `bson:"unit_price_without_tax"`
	CurrencyCode        string          `bson:"currency_code"`
	PriceSlabs          []priceSlabBSON `bson:"price_slabs"`
}

func (d itemBSON) toDomain() domain.Item {
	slabs := make([]domain.PriceSlab, 0, len(d.PriceSlabs))
	for _, s := range d.PriceSlabs {
		slabs = append(slabs, domain.PriceSlab{MinQuantity: s.MinQuantity, MaxQuantity: s.MaxQuantity, UnitPrice: mustDecimal(s.UnitPrice)})
	}
	return domain.Item{
		SellerSubscriberID:  d.SellerSubscriberID,
		CountryCode:         d.CountryCode,
		ProviderID:          d.ProviderID,
		ItemID:              d.ItemID,
		ItemCode:            d.ItemCode,
		ItemName:            d.ItemName,
		TaxRate:             mustDecimal(d.TaxRate),
		Images:              d.Images,
		MRP:                 mustDecimal(d.MRP),
		UnitPriceWithTax:    mustDecimal(d.UnitPriceWithTax),
		UnitPriceWithoutTax: mustDecimal(d.UnitPriceWithoutTax),
		CurrencyCode:        d.CurrencyCode,
		PriceSlabs:          slabs,
	}
}

func itemDoc(it domain.Item) itemBSON {
	slabs := make([]priceSlabBSON, 0, len(it.PriceSlabs))
	for _, s := range it.PriceSlabs {
		slabs = append(slabs, priceSlabBSON{MinQuantity: s.MinQuantity, MaxQuantity: s.MaxQuantity, UnitPrice: s.UnitPrice.String()})
	}
	return itemBSON{
		SellerSubscriberID:  it.SellerSubscriberID,
		CountryCode:         it.CountryCode,
		ProviderID:          it.ProviderID,
		ItemID:              it.ItemID,
		ItemCode:            it.ItemCode,
		ItemName:            it.ItemName,
		TaxRate:             it.TaxRate.String(),
		Images:              it.Images,
		MRP:                 it.MRP.String(),
		UnitPriceWithTax:    it.UnitPriceWithTax.String(),
		UnitPriceWithoutTax: it.UnitPriceWithoutTax.String(),
		CurrencyCode:        it.CurrencyCode,
		PriceSlabs:          slabs,
	}
}

// mustDecimal parses a stored decimal string, defaulting to zero for
// an empty or malformed value rather than failing the read — storage
// is the boundary where bad historical data can exist, not a reason
// to fail catalog lookups.
func mustDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toDomainLocation(bppID, providerID string, l WireLocation) domain.Location {
	lat, lng := parseGPS(l.GPS)
	return domain.Location{
		SellerSubscriberID: bppID,
		ProviderID:         providerID,
		LocationID:         l.ID,
		GPSLat:             lat,
		GPSLng:             lng,
		Address:            l.Address,
		City:               domain.CodeName{Code: l.City.Code, Name: l.City.Name},
		State:              domain.CodeName{Code: l.State.Code, Name: l.State.Name},
		Country:            domain.CodeName{Code: l.Country.Code, Name: l.Country.Name},
		AreaCode:           l.AreaCode,
	}
}

func toDomainItem(bppID, countryCode, providerID string, it WireItem) domain.Item {
	taxRate := mustDecimal(it.TagValue("tax", "tax_rate"))
	return domain.Item{
		SellerSubscriberID:  bppID,
		CountryCode:         countryCode,
		ProviderID:          providerID,
		ItemID:              it.ID,
		ItemCode:            it.Descriptor.Code,
		ItemName:            it.Descriptor.Name,
		TaxRate:             taxRate,
		Images:              it.Descriptor.Images,
		MRP:                 mustDecimal(it.Price.MaximumValue),
		UnitPriceWithTax:    mustDecimal(it.Price.Value),
		UnitPriceWithoutTax: mustDecimal(it.Price.Value),
		CurrencyCode:        "",
	}
}
