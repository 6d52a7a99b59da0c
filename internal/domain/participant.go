package domain

// Participant is a network_participant row: the routing and key
// material needed to address and authenticate a counterparty.
// Unique on (SubscriberID, Role).
type Participant struct {
	SubscriberID    string
	Role            ParticipantRole
	Domain          string
	SubscriberURI   string
	SigningPublicKey string
	EncrPublicKey   string
	BrID            string
	UkID            string
}

// NetworkParticipantPair is the bap/bpp routing pair carried on every
// envelope context and every commerce header.
type NetworkParticipantPair struct {
	BAP Counterparty
	BPP Counterparty
}

// Counterparty is the minimal {id, uri} shape used wherever the
// protocol names a participant without its full directory entry.
type Counterparty struct {
	ID  string
	URI string
}
