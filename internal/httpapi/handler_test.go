package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

func TestWriteDispatchErrorMapsKindToStatus(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{ondcerr.Validationf("op", "bad input"), 400},
		{ondcerr.NotImplementedf("op", "not done yet"), 501},
		{ondcerr.Upstreamf("op", errors.New("seller unreachable")), 502},
		{ondcerr.Protocolf("op", "unexpected wire shape"), 502},
		{ondcerr.Databasef("op", errors.New("insert failed")), 500},
		{ondcerr.Serializationf("op", errors.New("marshal failed")), 500},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		writeDispatchError(w, tc.err)
		if w.Code != tc.wantStatus {
			t.Errorf("writeDispatchError(%v): status = %d, want %d", tc.err, w.Code, tc.wantStatus)
		}

		var body errorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response body is not valid JSON: %v", err)
		}
		if body.Error == "" {
			t.Error("expected a non-empty error message in the response body")
		}
	}
}

func TestDecodeJSONPopulatesTarget(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBufferString(`{"mode":"city"}`))
	var req searchRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		t.Fatalf("decodeJSON returned error: %v", err)
	}
	if req.Mode != "city" {
		t.Errorf("Mode = %q, want city", req.Mode)
	}
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBufferString(`not json`))
	var req searchRequestDTO
	if err := decodeJSON(r, &req); err == nil {
		t.Fatal("expected an error decoding a malformed body")
	}
}

func TestWriteJSONSetsContentTypeAndStatus(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, 202, map[string]string{"external_urn": "abc"})

	if w.Code != 202 {
		t.Errorf("status = %d, want 202", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
