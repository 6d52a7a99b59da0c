// Package authboundary declares the seam between the HTTP façade and
// whatever resolves a request into a business/user identity — JWT
// verification, session lookup, business-account resolution. All of
// that is external collaborator infrastructure spec.md places out of
// scope; this package only names the interface the façade depends on.
package authboundary

import (
	"net/http"

	"github.com/google/uuid"
)

// BuyerContext is the identity a verified request carries forward:
// who is acting, and on behalf of which registered business.
type BuyerContext struct {
	UserID     *uuid.UUID
	BusinessID uuid.UUID
	DeviceID   *string
}

// Verifier resolves an inbound HTTP request into a BuyerContext.
type Verifier interface {
	Verify(r *http.Request) (BuyerContext, error)
}
