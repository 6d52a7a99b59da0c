// Package signer defines the authorization-header collaborator the
// dispatcher calls before every outbound POST. Production message
// signing (the network's Ed25519 Authorization header scheme, key
// rotation, registry-published key lookup) is delegated infrastructure
// outside this adapter's scope; this package only declares the seam
// and ships a development stub so the adapter runs standalone.
package signer

import "context"

// ParticipantEntry is the minimal signing identity the Signer needs:
// who is signing, and under what subscriber id the counterparty will
// look the signing key back up.
type ParticipantEntry struct {
	SubscriberID string
	UkID         string
}

// Signer computes the Authorization header value for an outbound
// request body. Implementations own all key material.
type Signer interface {
	Sign(ctx context.Context, body []byte, self ParticipantEntry) (string, error)
}
