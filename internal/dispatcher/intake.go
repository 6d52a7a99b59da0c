package dispatcher

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ondcnet/bap-adapter/internal/catalog"
	"github.com/ondcnet/bap-adapter/internal/inbound"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

// IntakeRequest carries an inbound callback body plus the audit
// identity it should be attributed to for the resulting notify emit.
type IntakeRequest struct {
	Action          string
	BPPSubscriberID string
	ExternalURN     uuid.UUID
	CountryCode     string
	Body            []byte

	BusinessID uuid.UUID
	UserID     *uuid.UUID
	DeviceID   *string
}

var orderStatusEvents = map[string]string{
	"Accepted":    "on_status_accepted",
	"In-progress": "on_status_in_progress",
	"Completed":   "on_status_completed",
}

type orderStateWire struct {
	Message struct {
		Order struct {
			State string `json:"state"`
		} `json:"order"`
	} `json:"message"`
}

// Intake is the inbound symmetric half of the dispatcher: it applies
// whatever commerce or catalog transition the callback implies, then
// makes a best-effort notify emit that never fails the request back
// to the caller — a malfunctioning notification channel must not
// block ONDC callback acknowledgement.
func (d *Dispatcher) Intake(ctx context.Context, req IntakeRequest) error {
	var applyErr error

	switch req.Action {
	case "on_search":
		var resp catalog.SearchResponse
		if err := json.Unmarshal(req.Body, &resp); err != nil {
			return ondcerr.Validationf("dispatcher.Intake", "decoding on_search body: %v", err)
		}
		applyErr = d.Catalog.Ingest(ctx, req.BPPSubscriberID, resp, req.CountryCode)

	case "on_select":
		in, err := inbound.ParseOnSelect(req.Body)
		if err != nil {
			return err
		}
		applyErr = d.Commerce.ApplyQuote(ctx, req.ExternalURN, in)

	case "on_init":
		if code, msg, has := inbound.ParseProtocolError(req.Body); has {
			d.log.Warn("on_init signaled a protocol error", slog.String("code", code), slog.String("message", msg), slog.String("external_urn", req.ExternalURN.String()))
			break
		}
		in, err := inbound.ParseOnInit(req.Body)
		if err != nil {
			return err
		}
		in.ExternalURN = req.ExternalURN
		applyErr = d.Commerce.ApplyOnInit(ctx, in)

	case "on_confirm":
		if code, msg, has := inbound.ParseProtocolError(req.Body); has {
			d.log.Warn("on_confirm signaled a protocol error", slog.String("code", code), slog.String("message", msg), slog.String("external_urn", req.ExternalURN.String()))
			break
		}
		applyErr = d.Commerce.ApplyOnConfirm(ctx, req.ExternalURN)

	case "on_status":
		if code, msg, has := inbound.ParseProtocolError(req.Body); has {
			d.log.Warn("on_status signaled a protocol error", slog.String("code", code), slog.String("message", msg), slog.String("external_urn", req.ExternalURN.String()))
			break
		}
		var st orderStateWire
		if err := json.Unmarshal(req.Body, &st); err != nil {
			return ondcerr.Validationf("dispatcher.Intake", "decoding on_status body: %v", err)
		}
		event, ok := orderStatusEvents[st.Message.Order.State]
		if !ok {
			return ondcerr.Validationf("dispatcher.Intake", "unrecognized order state %q", st.Message.Order.State)
		}
		applyErr = d.Commerce.ApplyOnStatus(ctx, req.ExternalURN, event)

	case "on_cancel":
		if code, msg, has := inbound.ParseProtocolError(req.Body); has {
			d.log.Warn("on_cancel signaled a protocol error", slog.String("code", code), slog.String("message", msg), slog.String("external_urn", req.ExternalURN.String()))
			break
		}
		applyErr = d.Commerce.ApplyOnCancel(ctx, req.ExternalURN)

	default:
		return ondcerr.NotImplementedf("dispatcher.Intake", "inbound action %q is not handled", req.Action)
	}

	if applyErr != nil {
		return applyErr
	}

	var payload any
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		payload = nil
	}
	if err := d.Notifier.Emit(ctx, req.UserID, req.BusinessID, req.DeviceID, req.Action, payload); err != nil {
		d.log.Warn("notify emit failed", slog.String("action", req.Action), slog.String("external_urn", req.ExternalURN.String()), slog.Any("error", err))
	}

	return nil
}
