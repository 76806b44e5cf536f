// Package service contains the reservation core: the only component
// that transitions seats between VACANT, HELD and RESERVED and the only
// one that creates or terminates seat holds.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/venue-seat-reservation/internal/clock"
	"github.com/iliyamo/venue-seat-reservation/internal/model"
)

const defaultHoldTTL = 5 * time.Second

// Notifier receives hold lifecycle events after the corresponding state
// change has committed.  Implementations must not call back into the
// service from the notification and should not block for long; the
// service itself performs no logging, so any user-visible narration
// belongs to the notifier or the caller.
type Notifier interface {
	HoldExpired(hold model.SeatHold)
	ReservationConfirmed(hold model.SeatHold)
}

// IDGenerator produces opaque hold identifiers.  Any collision-free
// scheme satisfies the contract.
type IDGenerator func() string

// ReservationService owns the seat-status invariants under concurrency.
// One mutex guards the venue grid, the active-holds index and the timer
// index so that every scan-then-mark and remove-then-mark sequence is
// atomic relative to all others.  No seat may be visibly HELD by two
// holds, and a hold resolves to exactly one of confirmed or expired.
type ReservationService struct {
	mu        sync.Mutex
	venue     *model.Venue
	holds     map[string]*model.SeatHold
	timers    map[string]*time.Timer
	ttl       time.Duration
	clk       clock.Clock
	notifier  Notifier
	newHoldID IDGenerator
	stopped   bool
}

// Option configures a ReservationService.
type Option func(*ReservationService)

// WithHoldTTL overrides the default 5 second time-to-live of new holds.
func WithHoldTTL(d time.Duration) Option {
	return func(s *ReservationService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithClock injects the time source used for hold timestamps.
func WithClock(clk clock.Clock) Option {
	return func(s *ReservationService) {
		if clk != nil {
			s.clk = clk
		}
	}
}

// WithNotifier installs an observer for hold lifecycle events.
func WithNotifier(n Notifier) Option {
	return func(s *ReservationService) {
		s.notifier = n
	}
}

// WithIDGenerator overrides how hold identifiers are produced.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *ReservationService) {
		if gen != nil {
			s.newHoldID = gen
		}
	}
}

// NewReservationService builds a service around the given venue.  The
// venue must not be mutated by anyone else afterwards.
func NewReservationService(venue *model.Venue, opts ...Option) *ReservationService {
	s := &ReservationService{
		venue:     venue,
		holds:     make(map[string]*model.SeatHold),
		timers:    make(map[string]*time.Timer),
		ttl:       defaultHoldTTL,
		clk:       clock.NewSystem(),
		newHoldID: func() string { return randomToken(16) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HoldTTL returns the time-to-live applied to new holds.
func (s *ReservationService) HoldTTL() time.Duration { return s.ttl }

// TotalSeats returns the venue capacity.  The dimensions are fixed at
// construction, so no locking is needed.
func (s *ReservationService) TotalSeats() int { return s.venue.TotalSeats() }

// AvailableSeatCount reports how many seats are neither held nor
// reserved.  Safe to call freely and concurrently; no side effects.
func (s *ReservationService) AvailableSeatCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked()
}

// ActiveHoldCount reports the number of live (unconfirmed, unexpired)
// holds.
func (s *ReservationService) ActiveHoldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.holds)
}

func (s *ReservationService) availableLocked() int {
	return s.venue.TotalSeats() -
		(s.venue.CountByStatus(model.SeatHeld) + s.venue.CountByStatus(model.SeatReserved))
}

// FindAndHoldSeats searches for numSeats vacant seats in row-major
// first-fit order and places a time-limited hold on them.  It returns
// nil without side effects when numSeats is not positive, exceeds the
// venue capacity, or exceeds current availability.  On success the
// chosen seats are HELD, the hold is indexed, and an expiry action is
// scheduled to fire after the TTL unless the hold is confirmed first.
func (s *ReservationService) FindAndHoldSeats(numSeats int, customerEmail string) *model.SeatHold {
	if numSeats <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if numSeats > s.venue.TotalSeats() || numSeats > s.availableLocked() {
		return nil
	}
	seats := s.venue.VacantPositions(numSeats)
	if len(seats) < numSeats {
		return nil
	}

	s.venue.ChangeStatus(seats, model.SeatHeld)
	now := s.clk.Now()
	hold := &model.SeatHold{
		ID:            s.uniqueHoldIDLocked(),
		Seats:         seats,
		CustomerEmail: customerEmail,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	s.holds[hold.ID] = hold

	if !s.stopped {
		id := hold.ID
		s.timers[id] = time.AfterFunc(s.ttl, func() { s.ExpireHold(id) })
	}
	return hold
}

// ReserveSeats converts a live hold into a permanent reservation.  The
// atomic removal of the hold from the active index is the linearization
// point of the confirm-versus-expire race: whichever side removes the
// hold performs the status change, the other becomes a no-op.  It
// returns the fresh confirmation id, or "" when the hold id is unknown
// or already terminal.
//
// customerEmail is accepted for interface symmetry but deliberately not
// matched against the hold's original customer.
func (s *ReservationService) ReserveSeats(holdID, customerEmail string) string {
	s.mu.Lock()
	hold, ok := s.holds[holdID]
	if !ok {
		s.mu.Unlock()
		return ""
	}
	delete(s.holds, holdID)
	s.cancelTimerLocked(holdID)
	s.venue.ChangeStatus(hold.Seats, model.SeatReserved)
	hold.ConfirmationID = uuid.NewString()
	snapshot := *hold
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		notifier.ReservationConfirmed(snapshot)
	}
	return snapshot.ConfirmationID
}

// ExpireHold releases the seats of a still-live hold back to VACANT and
// drops the hold from the active index.  It is the shared expiry action
// for the scheduled timer, duplicate timer fires and manual callers:
// when the hold has already been confirmed or expired the id is gone
// from the index and the call is a no-op.  It reports whether this call
// performed the release.
func (s *ReservationService) ExpireHold(holdID string) bool {
	s.mu.Lock()
	hold, ok := s.holds[holdID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.holds, holdID)
	s.cancelTimerLocked(holdID)
	s.venue.ChangeStatus(hold.Seats, model.SeatVacant)
	snapshot := *hold
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		notifier.HoldExpired(snapshot)
	}
	return true
}

// Stop cancels every pending expiry timer and prevents new ones from
// being scheduled.  Intended for shutdown; outstanding holds simply
// stop expiring.
func (s *ReservationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *ReservationService) cancelTimerLocked(holdID string) {
	if t, ok := s.timers[holdID]; ok {
		t.Stop()
		delete(s.timers, holdID)
	}
}

// uniqueHoldIDLocked draws ids until one is free among the active
// holds.  Collisions are practically impossible with 16 random bytes
// but id uniqueness is the contract, so check anyway.
func (s *ReservationService) uniqueHoldIDLocked() string {
	for {
		id := s.newHoldID()
		if _, taken := s.holds[id]; !taken && id != "" {
			return id
		}
	}
}

// randomToken returns a hex string built from n bytes of
// cryptographically secure random data.
func randomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the platform source is broken;
		// fall back to a UUID rather than hand out an empty id.
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
