package model

import "time"

// SeatHold represents a temporary, exclusive claim on a set of seats
// while a customer completes checkout.  A hold prevents concurrent
// requests from grabbing the same seats and expires automatically at
// ExpiresAt unless it is confirmed first.  A seat belongs to at most
// one live hold at a time.
//
// Fields:
//  ID             – opaque token returned to the client for reference.
//  Seats          – ordered seat positions claimed by this hold (never empty).
//  CustomerEmail  – customer who placed the hold; opaque to the core.
//  CreatedAt      – when the hold was created.
//  ExpiresAt      – when the hold expires (CreatedAt + TTL).
//  ConfirmationID – set once the hold is confirmed, empty before that.
type SeatHold struct {
	ID             string     `json:"id"`
	Seats          []Position `json:"seats"`
	CustomerEmail  string     `json:"customer_email"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConfirmationID string     `json:"confirmation_id,omitempty"`
}
