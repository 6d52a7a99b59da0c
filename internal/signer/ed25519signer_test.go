package signer

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
)

func TestDevSignerProducesParseableAuthorizationHeader(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	s := NewDevSigner(priv, "key-1", func() int64 { return 1700000000 })

	header, err := s.Sign(context.Background(), []byte(`{"hello":"world"}`), ParticipantEntry{SubscriberID: "buyer.example.com", UkID: "key-1"})
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	if !strings.Contains(header, `keyId="buyer.example.com|key-1|ed25519"`) {
		t.Errorf("header missing expected keyId: %s", header)
	}
	if !strings.Contains(header, `algorithm="ed25519"`) {
		t.Errorf("header missing algorithm: %s", header)
	}
	if !strings.Contains(header, `signature="`) {
		t.Errorf("header missing signature field: %s", header)
	}
}

func TestDevSignerRejectsMalformedKey(t *testing.T) {
	s := NewDevSigner(ed25519.PrivateKey([]byte("too-short")), "key-1", func() int64 { return 0 })
	if _, err := s.Sign(context.Background(), []byte("body"), ParticipantEntry{SubscriberID: "x"}); err == nil {
		t.Fatal("expected an error signing with a malformed private key")
	}
}

func TestDevSignerProducesDistinctSignaturesForDifferentBodies(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	s := NewDevSigner(priv, "key-1", func() int64 { return 1700000000 })

	h1, err := s.Sign(context.Background(), []byte("body-a"), ParticipantEntry{SubscriberID: "buyer"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	h2, err := s.Sign(context.Background(), []byte("body-b"), ParticipantEntry{SubscriberID: "buyer"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if h1 == h2 {
		t.Error("expected signatures over different bodies to differ")
	}
}
