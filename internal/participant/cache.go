package participant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ondcnet/bap-adapter/internal/domain"
)

// Cache is a cache-aside layer over Store, keyed by
// "participant:<subscriber_id>:<role>". Directory entries churn far
// less than, say, menu items, so the default TTL here is much longer
// than a typical item cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func cacheKey(subscriberID string, role domain.ParticipantRole) string {
	return fmt.Sprintf("participant:%s:%s", subscriberID, role)
}

func (c *Cache) Get(ctx context.Context, subscriberID string, role domain.ParticipantRole) (*domain.Participant, error) {
	data, err := c.client.Get(ctx, cacheKey(subscriberID, role)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var p domain.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal cached participant: %w", err)
	}
	return &p, nil
}

func (c *Cache) Set(ctx context.Context, p domain.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}
	return c.client.Set(ctx, cacheKey(p.SubscriberID, p.Role), data, c.ttl).Err()
}
