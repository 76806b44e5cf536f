// Package queue defines the hold lifecycle events exchanged over the
// message broker and the publisher/consumer that move them.
package queue

import "github.com/iliyamo/venue-seat-reservation/internal/model"

// Queue names. Both queues are declared durable by publisher and
// consumer alike so declaration stays idempotent on either side.
const (
	ReservationConfirmedQueue = "reservation.confirmed"
	HoldExpiredQueue          = "hold.expired"
)

// ReservationConfirmedEvent is published when a hold is successfully
// converted into a reservation. It carries enough information for
// downstream consumers to log or notify without querying the service.
type ReservationConfirmedEvent struct {
	HoldID         string           `json:"hold_id"`
	ConfirmationID string           `json:"confirmation_id"`
	CustomerEmail  string           `json:"customer_email"`
	Seats          []model.Position `json:"seats"`
	ConfirmedAt    string           `json:"confirmed_at"`
}

// HoldExpiredEvent is published when a hold's TTL elapses before
// confirmation and its seats return to availability.
type HoldExpiredEvent struct {
	HoldID        string           `json:"hold_id"`
	CustomerEmail string           `json:"customer_email"`
	Seats         []model.Position `json:"seats"`
	ExpiredAt     string           `json:"expired_at"`
}
