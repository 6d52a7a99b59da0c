// Package notify defines the collaborator the dispatcher's intake
// path calls after every inbound callback: tell whoever is watching
// that something changed. The adapter never manages a websocket
// connection itself; it only ever publishes onto the event bus for a
// separate relay process to pick up.
package notify

import (
	"context"

	"github.com/google/uuid"
)

// Emitter publishes a best-effort notification. A failure here must
// never fail the inbound request it was raised from — callers log and
// move on.
type Emitter interface {
	Emit(ctx context.Context, userID *uuid.UUID, businessID uuid.UUID, deviceID *string, action string, payload any) error

	// PublishDispatched fans the outbound envelope the dispatcher just
	// sent out onto the audit topic, for any durable consumer that
	// wants its own copy of what was sent. Like Emit, a failure here
	// must never fail the dispatch it describes.
	PublishDispatched(ctx context.Context, businessID uuid.UUID, transactionID uuid.UUID, action string, payload []byte) error
}
