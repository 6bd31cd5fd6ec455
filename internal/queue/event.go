// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair moving them.
package queue

import "context"

// bookingQueueName is the durable queue carrying booking events.
const bookingQueueName = "booking.created"

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	UserID      uint64   `json:"user_id"`
	ShowID      uint64   `json:"show_id"`
	MovieTitle  string   `json:"movie_title"`
	TheaterName string   `json:"theater_name"`
	ShowTime    string   `json:"show_time"`
	Seats       []string `json:"seats"`
	TotalPrice  float64  `json:"total_price"`
	CreatedAt   string   `json:"created_at"`
}

// Publisher sends booking events to the broker. Implementations must be
// safe to call after the booking transaction has committed and must not
// block the request path longer than a broker round trip.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, event BookingCreatedEvent) error
}
