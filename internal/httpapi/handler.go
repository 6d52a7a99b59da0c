// Package httpapi is the HTTP façade: a stdlib net/http.ServeMux
// translating buyer-app requests into Dispatcher calls and ONDC
// network callbacks into Dispatcher.Intake calls. It owns no
// business logic of its own — every handler parses its input,
// resolves the caller's identity via authboundary.Verifier, and
// delegates.
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ondcnet/bap-adapter/internal/authboundary"
	"github.com/ondcnet/bap-adapter/internal/dispatcher"
	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/envelope"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

type Handler struct {
	Dispatch    *dispatcher.Dispatcher
	Auth        authboundary.Verifier
	CountryCode string
	log         *slog.Logger
}

func NewHandler(dispatch *dispatcher.Dispatcher, auth authboundary.Verifier, countryCode string, log *slog.Logger) *Handler {
	return &Handler{Dispatch: dispatch, Auth: auth, CountryCode: countryCode, log: log}
}

func (h *Handler) logDispatchError(r *http.Request, err error) {
	h.log.Warn("dispatch failed", slog.String("path", r.URL.Path), slog.Any("error", err))
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/search", h.handleSearch)
	mux.HandleFunc("POST /api/v1/select", h.handleSelect)
	mux.HandleFunc("GET /api/v1/orders/{externalURN}", h.handleGetOrder)
	mux.HandleFunc("POST /api/v1/orders/{externalURN}/init", h.handleInit)
	mux.HandleFunc("POST /api/v1/orders/{externalURN}/confirm", h.handleConfirm)
	mux.HandleFunc("POST /api/v1/orders/{externalURN}/status", h.handleStatus)
	mux.HandleFunc("POST /api/v1/orders/{externalURN}/cancel", h.handleCancel)
	mux.HandleFunc("POST /api/v1/orders/{externalURN}/update", h.handleUpdate)

	mux.HandleFunc("POST /ondc/on_search", h.handleOnSearch)
	mux.HandleFunc("POST /ondc/{externalURN}/on_select", h.handleCallback("on_select"))
	mux.HandleFunc("POST /ondc/{externalURN}/on_init", h.handleCallback("on_init"))
	mux.HandleFunc("POST /ondc/{externalURN}/on_confirm", h.handleCallback("on_confirm"))
	mux.HandleFunc("POST /ondc/{externalURN}/on_status", h.handleCallback("on_status"))
	mux.HandleFunc("POST /ondc/{externalURN}/on_cancel", h.handleCallback("on_cancel"))

	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	buyer, err := h.Auth.Verify(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req searchRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, ok := searchModes[req.Mode]
	if !ok {
		writeError(w, http.StatusBadRequest, ondcerr.Validationf("httpapi.handleSearch", "unknown search mode %q", req.Mode))
		return
	}

	err = h.Dispatch.DispatchSearch(r.Context(), dispatcher.SearchRequest{
		BPPSubscriberID: req.BPPSubscriberID,
		TransactionID:   parseUUIDOrZero(req.TransactionID),
		CityCode:        req.CityCode,
		CountryCode:     req.CountryCode,
		Params: envelope.SearchParams{
			Mode: mode, ItemName: req.ItemName, CategoryID: req.CategoryID, PaymentType: req.PaymentType,
			VectorType: req.VectorType, VectorValue: req.VectorValue, FeeType: req.FeeType, FeeValue: req.FeeValue,
			FulfillmentType: req.FulfillmentType,
		},
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	buyer, err := h.Auth.Verify(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req selectRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]dispatcher.SelectItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, dispatcher.SelectItem{
			ItemID: it.ItemID, LocationIDs: it.LocationIDs, FulfillmentIDs: it.FulfillmentIDs,
			Quantity: it.Quantity, BuyerTerm: it.BuyerTerm,
		})
	}
	fulfillments := make([]dispatcher.SelectFulfillment, 0, len(req.Fulfillments))
	for _, f := range req.Fulfillments {
		fulfillments = append(fulfillments, dispatcher.SelectFulfillment{
			ID: f.ID, Type: f.Type, EndStop: f.EndStop, IncoTerms: f.IncoTerms, PlaceOfDelivery: f.PlaceOfDelivery,
		})
	}

	externalURN := uuid.New()
	err = h.Dispatch.DispatchSelect(r.Context(), dispatcher.SelectRequest{
		ExternalURN: externalURN, TransactionID: parseUUIDOrZero(req.TransactionID),
		BPPSubscriberID: req.BPPSubscriberID, ProviderID: req.ProviderID, ProviderName: req.ProviderName,
		CityCode: req.CityCode, CountryCode: req.CountryCode, CurrencyCode: req.CurrencyCode, QuoteTTL: req.QuoteTTL,
		BuyerID: buyer.BusinessID.String(), CreatedBy: buyer.BusinessID, RecordType: domain.RecordType(req.RecordType),
		IsImport: req.IsImport, CustomerName: req.CustomerName, Items: items, Fulfillments: fulfillments, PaymentTypes: req.PaymentTypes,
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		ExternalURN uuid.UUID `json:"external_urn"`
	}{ExternalURN: externalURN})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	externalURN, err := uuid.Parse(r.PathValue("externalURN"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	aggregate, err := h.Dispatch.Commerce.Fetch(r.Context(), externalURN)
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	if aggregate == nil {
		writeError(w, http.StatusNotFound, ondcerr.Validationf("httpapi.handleGetOrder", "no order %s", externalURN))
		return
	}
	writeJSON(w, http.StatusOK, toCommerceView(aggregate))
}

func (h *Handler) handleInit(w http.ResponseWriter, r *http.Request) {
	buyer, externalURN, err := h.identify(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req initRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	payments := make([]envelope.InitPaymentParam, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, envelope.InitPaymentParam{Type: p.Type, CollectedBy: p.CollectedBy})
	}
	fulfillments := make([]envelope.InitFulfillmentParam, 0, len(req.Fulfillments))
	for _, f := range req.Fulfillments {
		fulfillments = append(fulfillments, envelope.InitFulfillmentParam{ID: f.ID, Type: f.Type, Pickup: f.Pickup, Dropoff: f.Dropoff})
	}

	err = h.Dispatch.DispatchInit(r.Context(), dispatcher.InitRequest{
		ExternalURN: externalURN, TransactionID: parseUUIDOrZero(req.TransactionID), Billing: req.Billing,
		Payments: payments, Fulfillments: fulfillments, VectorType: req.VectorType, VectorValue: req.VectorValue,
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	buyer, externalURN, err := h.identify(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req confirmRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Dispatch.DispatchConfirm(r.Context(), dispatcher.ConfirmRequest{
		ExternalURN: externalURN, TransactionID: parseUUIDOrZero(req.TransactionID),
		VectorType: req.VectorType, VectorValue: req.VectorValue, Self: req.Self,
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	buyer, externalURN, err := h.identify(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req statusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Dispatch.DispatchStatus(r.Context(), dispatcher.StatusRequest{
		ExternalURN: externalURN, TransactionID: parseUUIDOrZero(req.TransactionID),
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	buyer, externalURN, err := h.identify(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req cancelRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Dispatch.DispatchCancel(r.Context(), dispatcher.CancelRequest{
		ExternalURN: externalURN, TransactionID: parseUUIDOrZero(req.TransactionID), CancellationReasonID: req.CancellationReasonID,
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	buyer, externalURN, err := h.identify(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req updateRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]envelope.SelectItemParam, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, envelope.SelectItemParam{ID: it.ItemID, LocationIDs: it.LocationIDs, FulfillmentIDs: it.FulfillmentIDs, Quantity: it.Quantity, BuyerTerm: it.BuyerTerm})
	}
	payments := make([]envelope.InitPaymentParam, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, envelope.InitPaymentParam{Type: p.Type, CollectedBy: p.CollectedBy})
	}

	err = h.Dispatch.DispatchUpdate(r.Context(), dispatcher.UpdateRequest{
		ExternalURN: externalURN, TransactionID: parseUUIDOrZero(req.TransactionID), Target: envelope.UpdateTarget(req.Target),
		Payment:    envelope.UpdatePaymentParams{OrderID: externalURN.String(), Items: items, Payments: payments},
		BusinessID: buyer.BusinessID, UserID: buyer.UserID, DeviceID: buyer.DeviceID,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleOnSearch has no order identity to key off — a BPP's catalog
// is ingested independent of any single buyer's transaction.
func (h *Handler) handleOnSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var env callbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Dispatch.Intake(r.Context(), dispatcher.IntakeRequest{
		Action: "on_search", BPPSubscriberID: env.Context.BPPID, CountryCode: h.CountryCode, Body: body,
	})
	if err != nil {
		h.logDispatchError(r, err)
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleCallback handles the order-scoped callbacks, all of which
// share the same shape: decode the body, apply the matching commerce
// transition, emit a best-effort notification.
func (h *Handler) handleCallback(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalURN, err := uuid.Parse(r.PathValue("externalURN"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		aggregate, err := h.Dispatch.Commerce.Fetch(r.Context(), externalURN)
		if err != nil {
			writeDispatchError(w, err)
			return
		}
		if aggregate == nil {
			writeError(w, http.StatusNotFound, ondcerr.Validationf("httpapi.handleCallback", "no order %s", externalURN))
			return
		}

		err = h.Dispatch.Intake(r.Context(), dispatcher.IntakeRequest{
			Action: action, ExternalURN: externalURN, CountryCode: h.CountryCode, Body: body,
			BusinessID: parseUUIDOrZero(aggregate.BuyerID), UserID: nil, DeviceID: nil,
		})
		if err != nil {
			writeDispatchError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// identify verifies the caller and parses the order id path segment
// shared by every order-scoped action endpoint.
func (h *Handler) identify(r *http.Request) (authboundary.BuyerContext, uuid.UUID, error) {
	buyer, err := h.Auth.Verify(r)
	if err != nil {
		return authboundary.BuyerContext{}, uuid.UUID{}, err
	}
	externalURN, err := uuid.Parse(r.PathValue("externalURN"))
	if err != nil {
		return authboundary.BuyerContext{}, uuid.UUID{}, err
	}
	return buyer, externalURN, nil
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeDispatchError maps the ondcerr kind to an HTTP status; anything
// unrecognized falls back to 500.
func writeDispatchError(w http.ResponseWriter, err error) {
	switch ondcerr.KindOf(err) {
	case ondcerr.Validation:
		writeError(w, http.StatusBadRequest, err)
	case ondcerr.NotImplemented:
		writeError(w, http.StatusNotImplemented, err)
	case ondcerr.Upstream, ondcerr.Protocol:
		writeError(w, http.StatusBadGateway, err)
	case ondcerr.Database, ondcerr.Serialization:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
