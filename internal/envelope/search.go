package envelope

// SearchMode selects which optional descriptor the intent carries.
type SearchMode int

const (
	SearchByCity SearchMode = iota
	SearchByItemName
	SearchByCategory
)

// SearchParams collects everything BuildSearch needs beyond the
// shared context.
type SearchParams struct {
	Mode            SearchMode
	ItemName        string
	CategoryID      string
	PaymentType     string
	VectorType      string
	VectorValue     string
	FeeType         string
	FeeValue        string
	FulfillmentType string // only consulted when Mode != SearchByCity
}

type searchDescriptor struct {
	Name *string `json:"name,omitempty"`
}

type categoryRef struct {
	ID string `json:"id"`
}

type searchIntent struct {
	Fulfillment        *fulfillmentTypeRef `json:"fulfillment,omitempty"`
	Tags               []Tag               `json:"tags"`
	ItemDescriptor     *searchDescriptor   `json:"item,omitempty"`
	Category           *categoryRef        `json:"category,omitempty"`
	PaymentType        *paymentTypeRef     `json:"payment,omitempty"`
}

type fulfillmentTypeRef struct {
	Type string `json:"type"`
}

type paymentTypeRef struct {
	Type string `json:"type"`
}

// SearchMessage is the search action's message block.
type SearchMessage struct {
	Intent searchIntent `json:"intent"`
}

// Search is the full {context, message} envelope for the search action.
type Search struct {
	Context Context       `json:"context"`
	Message SearchMessage `json:"message"`
}

// BuildSearch assembles a search envelope. The fulfillment block is
// present only for non-city searches; item/category descriptors are
// mutually exclusive based on params.Mode.
func BuildSearch(ctx Context, p SearchParams) Search {
	intent := searchIntent{
		Tags: []Tag{
			BuyerFeeTag(p.FeeType, p.FeeValue),
			BuyerIDTag(p.VectorType, p.VectorValue),
		},
	}

	if p.Mode != SearchByCity && p.FulfillmentType != "" {
		intent.Fulfillment = &fulfillmentTypeRef{Type: p.FulfillmentType}
	}

	switch p.Mode {
	case SearchByItemName:
		name := p.ItemName
		intent.ItemDescriptor = &searchDescriptor{Name: &name}
	case SearchByCategory:
		intent.Category = &categoryRef{ID: p.CategoryID}
	}

	if p.PaymentType != "" {
		intent.PaymentType = &paymentTypeRef{Type: p.PaymentType}
	}

	return Search{Context: ctx, Message: SearchMessage{Intent: intent}}
}
