package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	domainbooking "wayfare/internal/domain/booking"
)

const (
	EventBookingCreated = "booking.created"
	EventBookingDeleted = "booking.deleted"
)

// BookingEvents publishes booking lifecycle events, keyed by listing so all
// events of one listing land on the same partition in order. Publish
// failures are logged and swallowed: a reservation that is already
// persisted must not be rolled back because the broker is down.
type BookingEvents struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

func NewBookingEvents(brokers []string, topicPrefix string, logger *slog.Logger) (*BookingEvents, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &BookingEvents{producer: producer, topic: bookingsTopic(topicPrefix), logger: logger}, nil
}

func bookingsTopic(prefix string) string {
	return prefix + "bookings"
}

type bookingEvent struct {
	Event      string  `json:"event"`
	BookingID  string  `json:"bookingId"`
	ListingID  string  `json:"listingId"`
	GuestID    string  `json:"guestId"`
	CheckIn    string  `json:"checkInDate"`
	CheckOut   string  `json:"checkOutDate"`
	Guests     int     `json:"numGuests"`
	TotalPrice float64 `json:"totalPrice"`
	OccurredAt string  `json:"occurredAt"`
}

func (e *BookingEvents) BookingCreated(ctx context.Context, b *domainbooking.Booking) {
	e.publish(EventBookingCreated, b)
}

func (e *BookingEvents) BookingDeleted(ctx context.Context, b *domainbooking.Booking) {
	e.publish(EventBookingDeleted, b)
}

func (e *BookingEvents) Close() error {
	if e.producer == nil {
		return nil
	}
	return e.producer.Close()
}

func (e *BookingEvents) publish(event string, b *domainbooking.Booking) {
	if e.producer == nil || b == nil {
		return
	}
	payload, err := json.Marshal(bookingEvent{
		Event:      event,
		BookingID:  string(b.ID),
		ListingID:  string(b.ListingID),
		GuestID:    b.GuestID,
		CheckIn:    b.Range.CheckIn.Format(time.DateOnly),
		CheckOut:   b.Range.CheckOut.Format(time.DateOnly),
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	_, _, err = e.producer.SendMessage(&sarama.ProducerMessage{
		Topic:   e.topic,
		Key:     sarama.StringEncoder(b.ListingID),
		Value:   sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{{Key: []byte("event"), Value: []byte(event)}},
	})
	if err != nil && e.logger != nil {
		e.logger.Warn("booking event publish failed", "event", event, "booking_id", b.ID, "error", err)
	}
}
