package signer

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// DevSigner signs outbound bodies with a locally held Ed25519 key and
// formats them in the shape of the network's Authorization header:
// keyId, algorithm, the signed-headers list and the base64 signature
// are present; no created/expires values are emitted (the created
// func is stored but not called), and there is no key rotation or
// registry-published key material — callers in production replace
// this with a real collaborator.
type DevSigner struct {
	privateKey ed25519.PrivateKey
	keyID      string
	created    func() int64
}

// NewDevSigner builds a DevSigner from a raw 64-byte Ed25519 private
// key and the key id it should advertise.
func NewDevSigner(privateKey ed25519.PrivateKey, keyID string, created func() int64) *DevSigner {
	return &DevSigner{privateKey: privateKey, keyID: keyID, created: created}
}

var _ Signer = (*DevSigner)(nil)

func (s *DevSigner) Sign(_ context.Context, body []byte, self ParticipantEntry) (string, error) {
	if len(s.privateKey) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("signer: private key must be %d bytes", ed25519.PrivateKeySize)
	}

	sig := ed25519.Sign(s.privateKey, body)
	encoded := base64.StdEncoding.EncodeToString(sig)

	return fmt.Sprintf(
		`Signature keyId="%s|%s|ed25519",algorithm="ed25519",headers="(created) (expires) digest",signature="%s"`,
		self.SubscriberID, s.keyID, encoded,
	), nil
}
