package authboundary

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// PassThrough trusts the X-Business-Id header verbatim. It exists so
// the adapter is runnable standalone; production deployments sit a
// real JWT/business-account-resolution middleware in front of it.
type PassThrough struct{}

var _ Verifier = PassThrough{}

func (PassThrough) Verify(r *http.Request) (BuyerContext, error) {
	raw := r.Header.Get("X-Business-Id")
	if raw == "" {
		return BuyerContext{}, fmt.Errorf("authboundary: missing X-Business-Id header")
	}
	businessID, err := uuid.Parse(raw)
	if err != nil {
		return BuyerContext{}, fmt.Errorf("authboundary: invalid X-Business-Id: %w", err)
	}

	var userID *uuid.UUID
	if raw := r.Header.Get("X-User-Id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			userID = &id
		}
	}

	var deviceID *string
	if raw := r.Header.Get("X-Device-Id"); raw != "" {
		deviceID = &raw
	}

	return BuyerContext{UserID: userID, BusinessID: businessID, DeviceID: deviceID}, nil
}
