// Package participant implements the Participant Directory: a
// three-tier lookup (a Redis cache, then the local Postgres store
// behind it, then the network registry over HTTP) for the routing and
// key material of a counterparty.
package participant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ondcnet/bap-adapter/internal/domain"
	"github.com/ondcnet/bap-adapter/internal/ondcerr"
)

// Store is the durable network_participant table, the source of
// truth behind the cache.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, subscriberID string, role domain.ParticipantRole) (*domain.Participant, error) {
	const query = `
		SELECT subscriber_id, role, domain, subscriber_uri, signing_public_key, encr_public_key, br_id, uk_id
		FROM network_participant
		WHERE subscriber_id = $1 AND role = $2`

	var p domain.Participant
	err := s.db.QueryRowContext(ctx, query, subscriberID, role).Scan(
		&p.SubscriberID, &p.Role, &p.Domain, &p.SubscriberURI,
		&p.SigningPublicKey, &p.EncrPublicKey, &p.BrID, &p.UkID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ondcerr.Databasef("participant.Store.Get", err)
	}
	return &p, nil
}

// Upsert inserts p, or silently leaves the existing row untouched on
// a (subscriber_id, role) conflict — a fresh registry hit never
// overwrites a record another request already wrote.
func (s *Store) Upsert(ctx context.Context, p domain.Participant) error {
	const query = `
		INSERT INTO network_participant
			(subscriber_id, role, domain, subscriber_uri, signing_public_key, encr_public_key, br_id, uk_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subscriber_id, role) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		p.SubscriberID, p.Role, p.Domain, p.SubscriberURI,
		p.SigningPublicKey, p.EncrPublicKey, p.BrID, p.UkID,
	)
	if err != nil {
		return ondcerr.Databasef("participant.Store.Upsert", fmt.Errorf("upsert participant %s/%s: %w", p.SubscriberID, p.Role, err))
	}
	return nil
}
