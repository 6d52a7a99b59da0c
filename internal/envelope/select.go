package envelope

import "github.com/ondcnet/bap-adapter/internal/domain"

type providerRef struct {
	ID          string   `json:"id"`
	LocationIDs []string `json:"location_ids"`
	TTL         string   `json:"ttl,omitempty"`
}

type quantitySelected struct {
	Count int64 `json:"count"`
}

type quantityBlock struct {
	Selected quantitySelected `json:"selected"`
}

// OrderItem is the shape shared by select and init item lines.
type OrderItem struct {
	ID             string   `json:"id"`
	LocationIDs    []string `json:"location_ids"`
	FulfillmentIDs []string `json:"fulfillment_ids"`
	Quantity       quantityBlock `json:"quantity"`
	Tags           []Tag    `json:"tags,omitempty"`
}

type stop struct {
	Type     string               `json:"type"`
	Location fulfillmentLocation  `json:"location"`
}

type fulfillmentLocation struct {
	GPS      string `json:"gps,omitempty"`
	Address  string `json:"address,omitempty"`
	AreaCode string `json:"area_code,omitempty"`
	City     CodeNameWire `json:"city,omitempty"`
	Country  CodeNameWire `json:"country,omitempty"`
	State    string `json:"state,omitempty"`
	Contact  *contactBlock `json:"contact,omitempty"`
}

type CodeNameWire struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

type contactBlock struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type customerBlock struct {
	Person personRef `json:"person"`
}

type personRef struct {
	Name string `json:"name"`
}

// OrderFulfillment is the select/init fulfillment block shape.
type OrderFulfillment struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Stops   []stop  `json:"stops,omitempty"`
	Tags    []Tag   `json:"tags,omitempty"`
	Customer *customerBlock `json:"customer,omitempty"`
}

type paymentRef struct {
	Type string `json:"type"`
}

type orderBlock struct {
	Provider     providerRef        `json:"provider"`
	Items        []OrderItem        `json:"items"`
	Payments     []paymentRef       `json:"payments,omitempty"`
	Fulfillments []OrderFulfillment `json:"fulfillments"`
	Tags         []Tag              `json:"tags,omitempty"`
}

type SelectMessage struct {
	Order orderBlock `json:"order"`
}

type Select struct {
	Context Context       `json:"context"`
	Message SelectMessage `json:"message"`
}

// SelectItemParam is one buyer-selected line item.
type SelectItemParam struct {
	ID             string
	LocationIDs    []string
	FulfillmentIDs []string
	Quantity       int64
	BuyerTerm      *domain.BuyerTerm
}

// SelectFulfillmentParam is one buyer-requested fulfillment, carrying
// only the end (drop-off) stop — select never includes a pickup stop.
type SelectFulfillmentParam struct {
	ID          string
	Type        domain.FulfillmentType
	EndStop     *domain.FulfillmentStop
	IncoTerms   *domain.IncoTerm
	PlaceOfDelivery string
}

// SelectParams collects everything BuildSelect needs beyond the
// shared context.
type SelectParams struct {
	ProviderID      string
	ProviderTTL     string
	Items           []SelectItemParam
	PaymentTypes    []string
	Fulfillments    []SelectFulfillmentParam
	IsPurchaseOrder bool
	IsImport        bool
	CustomerName    string
}

// BuildSelect assembles a select envelope. Location ids on the
// provider block are the deduplicated union of every item's location
// ids; buyer-term tags are attached to items only for a PurchaseOrder;
// delivery-terms tags and the customer block are attached to
// fulfillments only for an Import trade.
func BuildSelect(ctx Context, p SelectParams) Select {
	locationSet := map[string]struct{}{}
	var locationIDs []string
	items := make([]OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		for _, id := range it.LocationIDs {
			if _, ok := locationSet[id]; !ok {
				locationSet[id] = struct{}{}
				locationIDs = append(locationIDs, id)
			}
		}

		oi := OrderItem{
			ID:             it.ID,
			LocationIDs:    it.LocationIDs,
			FulfillmentIDs: it.FulfillmentIDs,
			Quantity:       quantityBlock{Selected: quantitySelected{Count: it.Quantity}},
		}
		if p.IsPurchaseOrder && it.BuyerTerm != nil {
			oi.Tags = []Tag{BuyerTermsTag(*it.BuyerTerm)}
		}
		items = append(items, oi)
	}

	payments := make([]paymentRef, 0, len(p.PaymentTypes))
	for _, pt := range p.PaymentTypes {
		payments = append(payments, paymentRef{Type: pt})
	}

	fulfillments := make([]OrderFulfillment, 0, len(p.Fulfillments))
	for _, f := range p.Fulfillments {
		of := OrderFulfillment{ID: f.ID, Type: string(f.Type)}
		if f.Type == domain.FulfillmentDelivery && f.EndStop != nil {
			of.Stops = []stop{toStop("end", *f.EndStop)}
		}
		if p.IsImport {
			if f.IncoTerms != nil {
				of.Tags = append(of.Tags, DeliveryTermsTag(*f.IncoTerms, f.PlaceOfDelivery))
			}
			of.Customer = &customerBlock{Person: personRef{Name: p.CustomerName}}
		}
		fulfillments = append(fulfillments, of)
	}

	order := orderBlock{
		Provider:     providerRef{ID: p.ProviderID, LocationIDs: locationIDs, TTL: p.ProviderTTL},
		Items:        items,
		Payments:     payments,
		Fulfillments: fulfillments,
	}

	return Select{Context: ctx, Message: SelectMessage{Order: order}}
}

func toStop(kind string, s domain.FulfillmentStop) stop {
	return stop{
		Type: kind,
		Location: fulfillmentLocation{
			GPS:      s.Location.GPS,
			Address:  s.Location.Address,
			AreaCode: s.Location.AreaCode,
			City:     CodeNameWire{Code: s.Location.City.Code, Name: s.Location.City.Name},
			Country:  CodeNameWire{Code: s.Location.Country.Code, Name: s.Location.Country.Name},
			State:    s.Location.State,
			Contact:  &contactBlock{Phone: s.Contact.MobileNo, Email: s.Contact.Email},
		},
	}
}
