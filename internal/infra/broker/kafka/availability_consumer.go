package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	domainlisting "wayfare/internal/domain/listing"
)

// DayCacheDropper is the slice of the availability cache the consumer needs.
type DayCacheDropper interface {
	Invalidate(ctx context.Context, id domainlisting.ListingID) error
}

// AvailabilityConsumer follows the bookings topic and drops the cached
// occupied-day set of every listing a booking event names. Replicas learn
// about bookings they did not create through this path.
type AvailabilityConsumer struct {
	group  sarama.ConsumerGroup
	topic  string
	cache  DayCacheDropper
	logger *slog.Logger
}

func NewAvailabilityConsumer(brokers []string, groupID, topicPrefix string, cache DayCacheDropper, logger *slog.Logger) (*AvailabilityConsumer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &AvailabilityConsumer{group: group, topic: bookingsTopic(topicPrefix), cache: cache, logger: logger}, nil
}

// Run blocks until ctx is cancelled, rejoining the group after rebalances.
func (c *AvailabilityConsumer) Run(ctx context.Context) error {
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *AvailabilityConsumer) Close() error {
	return c.group.Close()
}

func (c *AvailabilityConsumer) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *AvailabilityConsumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *AvailabilityConsumer) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		// Marked consumed even on failure: the local cache falls back to
		// recomputing from bookings, so a dropped invalidation is benign.
		c.invalidate(sess.Context(), message.Value)
		sess.MarkMessage(message, "")
	}
	return nil
}

func (c *AvailabilityConsumer) invalidate(ctx context.Context, payload []byte) {
	var evt struct {
		Event     string `json:"event"`
		ListingID string `json:"listingId"`
	}
	if err := json.Unmarshal(payload, &evt); err != nil {
		if c.logger != nil {
			c.logger.Warn("undecodable booking event", "error", err)
		}
		return
	}
	if evt.ListingID == "" {
		return
	}
	if err := c.cache.Invalidate(ctx, domainlisting.ListingID(evt.ListingID)); err != nil {
		if c.logger != nil {
			c.logger.Warn("availability invalidation failed", "event", evt.Event, "listing_id", evt.ListingID, "error", err)
		}
		return
	}
	if c.logger != nil {
		c.logger.Debug("availability cache dropped", "event", evt.Event, "listing_id", evt.ListingID)
	}
}
