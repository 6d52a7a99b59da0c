package envelope

import (
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

// UpdateTarget is what an update action targets. Only Payment is
// implemented; Item and Fulfillment are declared but not yet
// designed, per the protocol's own incomplete update surface.
type UpdateTarget string

const (
	UpdateTargetPayment     UpdateTarget = "payment"
	UpdateTargetItem        UpdateTarget = "item"
	UpdateTargetFulfillment UpdateTarget = "fulfillment"
)

type updateOrderBlock struct {
	ID       string             `json:"id"`
	Items    []OrderItem        `json:"items"`
	Payments []initPaymentRef   `json:"payments"`
}

type UpdateMessage struct {
	UpdateTarget string           `json:"update_target"`
	Order        updateOrderBlock `json:"order"`
}

type Update struct {
	Context Context       `json:"context"`
	Message UpdateMessage `json:"message"`
}

// UpdatePaymentParams collects everything a payment-targeted update
// needs: the full payment block and items reduced to quantities only.
type UpdatePaymentParams struct {
	OrderID  string
	Items    []SelectItemParam
	Payments []InitPaymentParam
}

// BuildUpdate assembles an update envelope for the given target.
// Only UpdateTargetPayment is implemented; any other target returns
// an ondcerr.NotImplemented error, matching the protocol's own
// unfinished update surface rather than inventing one.
func BuildUpdate(ctx Context, target UpdateTarget, p UpdatePaymentParams) (Update, error) {
	if target != UpdateTargetPayment {
		return Update{}, ondcerr.NotImplementedf("envelope.BuildUpdate", "update target %q is not implemented", target)
	}

	items := make([]OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, OrderItem{
			ID:       it.ID,
			Quantity: quantityBlock{Selected: quantitySelected{Count: it.Quantity}},
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

	return Update{
		Context: ctx,
		Message: UpdateMessage{
			UpdateTarget: string(target),
			Order: updateOrderBlock{
				ID:       p.OrderID,
				Items:    items,
				Payments: payments,
			},
		},
	}, nil
}
