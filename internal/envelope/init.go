package envelope

import "github.com/ondcnet/bap-adapter/internal/domain"

type billingBlock struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id,omitempty"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type initPaymentRef struct {
	Type        string `json:"type"`
	CollectedBy string `json:"collected_by,omitempty"`
}

type initOrderBlock struct {
	Provider     providerRef        `json:"provider"`
	Items        []OrderItem        `json:"items"`
	Billing      billingBlock       `json:"billing"`
	Payments     []initPaymentRef   `json:"payments"`
	Fulfillments []OrderFulfillment `json:"fulfillments"`
	Tags         []Tag              `json:"tags"`
}

type InitMessage struct {
	Order initOrderBlock `json:"order"`
}

type Init struct {
	Context Context     `json:"context"`
	Message InitMessage `json:"message"`
}

// InitFulfillmentParam carries both stops of a fulfillment; Pickup is
// only populated for a Delivery fulfillment, Dropoff only if the
// fulfillment type requires it.
type InitFulfillmentParam struct {
	ID      string
	Type    domain.FulfillmentType
	Pickup  *domain.FulfillmentStop
	Dropoff *domain.FulfillmentStop
}

type InitPaymentParam struct {
	Type        string
	CollectedBy *domain.CollectedBy
}

// InitParams collects everything BuildInit needs beyond the shared
// context and the select-shaped item list.
type InitParams struct {
	ProviderID      string
	Items           []SelectItemParam
	Billing         domain.Billing
	Payments        []InitPaymentParam
	Fulfillments    []InitFulfillmentParam
	VectorType      string
	VectorValue     string
}

// BuildInit assembles an init envelope, reusing the select item
// shape and adding the billing block and both fulfillment stops.
func BuildInit(ctx Context, p InitParams) Init {
	items := make([]OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, OrderItem{
			ID:             it.ID,
			LocationIDs:    it.LocationIDs,
			FulfillmentIDs: it.FulfillmentIDs,
			Quantity:       quantityBlock{Selected: quantitySelected{Count: it.Quantity}},
		})
	}

	payments := make([]initPaymentRef, 0, len(p.Payments))
	for _, pay := range p.Payments {
		ref := initPaymentRef{Type: pay.Type}
		if pay.CollectedBy != nil {
			ref.CollectedBy = string(*pay.CollectedBy)
		}
		payments = append(payments, ref)
	}

	fulfillments := make([]OrderFulfillment, 0, len(p.Fulfillments))
	for _, f := range p.Fulfillments {
		of := OrderFulfillment{ID: f.ID, Type: string(f.Type)}
		if f.Pickup != nil {
			of.Stops = append(of.Stops, toStop("start", *f.Pickup))
		}
		if f.Dropoff != nil {
			of.Stops = append(of.Stops, toStop("end", *f.Dropoff))
		}
		fulfillments = append(fulfillments, of)
	}

	order := initOrderBlock{
		Provider: providerRef{ID: p.ProviderID},
		Items:    items,
		Billing: billingBlock{
			Name:    p.Billing.Name,
			Address: p.Billing.Address,
			TaxID:   p.Billing.TaxID,
			Phone:   p.Billing.MobileNo,
			Email:   p.Billing.Email,
			City:    p.Billing.City,
			State:   p.Billing.State,
		},
		Payments:     payments,
		Fulfillments: fulfillments,
		Tags:         []Tag{BuyerIDTag(p.VectorType, p.VectorValue)},
	}

	return Init{Context: ctx, Message: InitMessage{Order: order}}
}
