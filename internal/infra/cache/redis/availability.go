package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainlisting "wayfare/internal/domain/listing"
)

// AvailabilityCache keeps derived occupied-day sets in Redis so repeated
// calendar reads skip the booking scan. Entries are dropped whenever the
// booking list changes and expire on their own as a backstop.
type AvailabilityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func (c *AvailabilityCache) Get(ctx context.Context, id domainlisting.ListingID) ([]time.Time, bool, error) {
	raw, err := c.Client.Get(ctx, c.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		return nil, false, fmt.Errorf("redis: decode availability entry: %w", err)
	}
	days := make([]time.Time, 0, len(encoded))
	for _, s := range encoded {
		d, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
		if err != nil {
			return nil, false, fmt.Errorf("redis: decode availability day %q: %w", s, err)
		}
		days = append(days, d)
	}
	return days, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, id domainlisting.ListingID, days []time.Time) error {
	encoded := make([]string, 0, len(days))
	for _, d := range days {
		encoded = append(encoded, d.UTC().Format(time.DateOnly))
	}
	payload, err := json.Marshal(encoded)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return c.Client.Set(ctx, c.key(id), payload, ttl).Err()
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, id domainlisting.ListingID) error {
	return c.Client.Del(ctx, c.key(id)).Err()
}

func (c *AvailabilityCache) key(id domainlisting.ListingID) string {
	return "availability:" + string(id)
}
