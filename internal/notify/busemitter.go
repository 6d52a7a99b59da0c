package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ondcnet/bap-adapter/internal/eventbus"
)

// wireMessage is the envelope a websocket-bridge process consumes off
// eventbus.NotifyEvent: enough addressing to route to exactly one
// connected client plus the raw callback payload.
type wireMessage struct {
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	BusinessID uuid.UUID  `json:"business_id"`
	DeviceID   *string    `json:"device_id,omitempty"`
	Action     string     `json:"action"`
	Payload    any        `json:"payload"`
}

// dispatchedWireMessage is the envelope published onto
// eventbus.OutboundDispatchedEvent for a durable record of what was
// sent, independent of the Commerce State Store's own audit row.
type dispatchedWireMessage struct {
	BusinessID    uuid.UUID `json:"business_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Action        string    `json:"action"`
	Payload       []byte    `json:"payload"`
}

// BusEmitter publishes notifications onto eventbus.NotifyEvent.
type BusEmitter struct {
	ch  *amqp.Channel
	log *slog.Logger
}

func NewBusEmitter(ch *amqp.Channel, log *slog.Logger) *BusEmitter {
	return &BusEmitter{ch: ch, log: log}
}

var _ Emitter = (*BusEmitter)(nil)

func (e *BusEmitter) Emit(ctx context.Context, userID *uuid.UUID, businessID uuid.UUID, deviceID *string, action string, payload any) error {
	body, err := json.Marshal(wireMessage{UserID: userID, BusinessID: businessID, DeviceID: deviceID, Action: action, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal notify message: %w", err)
	}

	if err := eventbus.Publish(ctx, e.ch, eventbus.NotifyEvent, body, nil); err != nil {
		e.log.Warn("failed to publish notify event", "action", action, "business_id", businessID, "error", err)
		return err
	}
	return nil
}

func (e *BusEmitter) PublishDispatched(ctx context.Context, businessID uuid.UUID, transactionID uuid.UUID, action string, payload []byte) error {
	body, err := json.Marshal(dispatchedWireMessage{BusinessID: businessID, TransactionID: transactionID, Action: action, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal dispatched audit message: %w", err)
	}

	if err := eventbus.Publish(ctx, e.ch, eventbus.OutboundDispatchedEvent, body, nil); err != nil {
		e.log.Warn("failed to publish outbound dispatched event", "action", action, "business_id", businessID, "error", err)
		return err
	}
	return nil
}
