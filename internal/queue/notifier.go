package queue

import (
	"context"
	"time"

	"github.com/iliyamo/venue-seat-reservation/internal/model"
)

// Notifier adapts the publisher to the reservation service's event
// hook. Publish failures are logged by the publisher and otherwise
// ignored: losing a notification must never interrupt the reservation
// flow.
type Notifier struct {
	// Timeout bounds each publish attempt. Zero means 5 seconds.
	Timeout time.Duration
}

func (n Notifier) timeout() time.Duration {
	if n.Timeout > 0 {
		return n.Timeout
	}
	return 5 * time.Second
}

// ReservationConfirmed publishes a ReservationConfirmedEvent for the
// given hold.
func (n Notifier) ReservationConfirmed(hold model.SeatHold) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout())
	defer cancel()
	_ = PublishReservationConfirmed(ctx, ReservationConfirmedEvent{
		HoldID:         hold.ID,
		ConfirmationID: hold.ConfirmationID,
		CustomerEmail:  hold.CustomerEmail,
		Seats:          hold.Seats,
		ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// HoldExpired publishes a HoldExpiredEvent for the given hold.
func (n Notifier) HoldExpired(hold model.SeatHold) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout())
	defer cancel()
	_ = PublishHoldExpired(ctx, HoldExpiredEvent{
		HoldID:        hold.ID,
		CustomerEmail: hold.CustomerEmail,
		Seats:         hold.Seats,
		ExpiredAt:     time.Now().UTC().Format(time.RFC3339),
	})
}
