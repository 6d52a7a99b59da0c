package authboundary

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestPassThroughRejectsMissingBusinessHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/search", nil)
	if _, err := (PassThrough{}).Verify(r); err == nil {
		t.Fatal("expected an error when X-Business-Id is absent")
	}
}

func TestPassThroughRejectsMalformedBusinessHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/search", nil)
	r.Header.Set("X-Business-Id", "not-a-uuid")
	if _, err := (PassThrough{}).Verify(r); err == nil {
		t.Fatal("expected an error for a malformed X-Business-Id")
	}
}

func TestPassThroughParsesFullIdentity(t *testing.T) {
	businessID := uuid.New()
	userID := uuid.New()

	r := httptest.NewRequest("POST", "/api/v1/search", nil)
	r.Header.Set("X-Business-Id", businessID.String())
	r.Header.Set("X-User-Id", userID.String())
	r.Header.Set("X-Device-Id", "device-123")

	ctx, err := (PassThrough{}).Verify(r)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ctx.BusinessID != businessID {
		t.Errorf("BusinessID = %s, want %s", ctx.BusinessID, businessID)
	}
	if ctx.UserID == nil || *ctx.UserID != userID {
		t.Errorf("UserID not parsed correctly: %+v", ctx.UserID)
	}
	if ctx.DeviceID == nil || *ctx.DeviceID != "device-123" {
		t.Errorf("DeviceID not parsed correctly: %+v", ctx.DeviceID)
	}
}

func TestPassThroughToleratesMissingOptionalHeaders(t *testing.T) {
	businessID := uuid.New()
	r := httptest.NewRequest("POST", "/api/v1/search", nil)
	r.Header.Set("X-Business-Id", businessID.String())

	ctx, err := (PassThrough{}).Verify(r)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ctx.UserID != nil {
		t.Error("expected nil UserID when X-User-Id is absent")
	}
	if ctx.DeviceID != nil {
		t.Error("expected nil DeviceID when X-Device-Id is absent")
	}
}

func TestPassThroughIgnoresMalformedOptionalUserID(t *testing.T) {
	businessID := uuid.New()
	r := httptest.NewRequest("POST", "/api/v1/search", nil)
	r.Header.Set("X-Business-Id", businessID.String())
	r.Header.Set("X-User-Id", "garbage")

	ctx, err := (PassThrough{}).Verify(r)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ctx.UserID != nil {
		t.Error("expected a malformed X-User-Id to be silently dropped, not rejected")
	}
}
