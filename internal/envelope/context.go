// Package envelope builds outbound {context, message} wire envelopes
// for every buyer action. It is pure: every function takes its inputs
// as plain arguments (including "now"), and returns a value ready for
// json.Marshal — no field here ever calls time.Now() itself, which is
// what makes envelope assembly byte-identical for fixed inputs.
package envelope

import (
	"time"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

// DefaultTTL is the fixed ISO-8601 duration used when a request
// carries no explicit TTL — "instantaneous" in protocol terms.
const DefaultTTL = "PT30S"

const ProtocolVersion = "2.0.1"

type Action string

const (
	ActionSearch  Action = "search"
	ActionSelect  Action = "select"
	ActionInit    Action = "init"
	ActionConfirm Action = "confirm"
	ActionStatus  Action = "status"
	ActionCancel  Action = "cancel"
	ActionUpdate  Action = "update"
)

// Location is the {city, country} pair every context carries.
type Location struct {
	City struct {
		Code string `json:"code"`
	} `json:"city"`
	Country struct {
		Code string `json:"code"`
	} `json:"country"`
}

// Context is the fixed-shape context record shared by every action.
type Context struct {
	Domain        string        `json:"domain"`
	Location      Location      `json:"location"`
	Action        Action        `json:"action"`
	Version       string        `json:"core_version"`
	TransactionID string        `json:"transaction_id"`
	MessageID     string        `json:"message_id"`
	BAP           participantRef `json:"bap_id_uri"`
	BPP           *participantRef `json:"bpp_id_uri,omitempty"`
	Timestamp     string        `json:"timestamp"`
	TTL           string        `json:"ttl"`
}

type participantRef struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// BuildContext assembles the fixed-shape context block. bpp is nil
// for search (the only action that can legitimately omit it); every
// other action requires one. now is formatted UTC with millisecond
// precision and a trailing "Z", no sub-millisecond digits — the exact
// shape the protocol mandates.
func BuildContext(action Action, domainCode, cityCode, countryCode, transactionID, messageID string, bap domain.Counterparty, bpp *domain.Counterparty, now time.Time, ttl string) Context {
	if ttl == "" {
		ttl = DefaultTTL
	}

	ctx := Context{
		Domain:        domainCode,
		Action:        action,
		Version:       ProtocolVersion,
		TransactionID: transactionID,
		MessageID:     messageID,
		BAP:           participantRef{ID: bap.ID, URI: bap.URI},
		Timestamp:     formatTimestamp(now),
		TTL:           ttl,
	}
	ctx.Location.City.Code = cityCode
	ctx.Location.Country.Code = countryCode

	if bpp != nil {
		ctx.BPP = &participantRef{ID: bpp.ID, URI: bpp.URI}
	}
	return ctx
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
