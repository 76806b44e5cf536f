package model

// SeatStatus enumerates the lifecycle states of a single seat.  A seat
// starts VACANT, becomes HELD while a customer decides, and ends up
// RESERVED once the hold is confirmed.  Expired holds move their seats
// back to VACANT.
type SeatStatus string

const (
	SeatVacant   SeatStatus = "VACANT"
	SeatHeld     SeatStatus = "HELD"
	SeatReserved SeatStatus = "RESERVED"
)

// Position identifies a seat by its zero-based row and column inside
// the venue grid.
//
// Fields:
//  Row – zero-based row index.
//  Col – zero-based column index within the row.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Seat describes a single position in the venue.  The position never
// changes; only the status does, and only the venue or the reservation
// service may change it.  Seat performs no validation of its own —
// invariant preservation is the caller's job.
type Seat struct {
	pos    Position
	status SeatStatus
}

// NewSeat creates a VACANT seat at the given position.
func NewSeat(row, col int) *Seat {
	return &Seat{pos: Position{Row: row, Col: col}, status: SeatVacant}
}

// Position returns the seat's fixed grid position.
func (s *Seat) Position() Position { return s.pos }

// Status returns the seat's current status.
func (s *Seat) Status() SeatStatus { return s.status }

// SetStatus overwrites the seat's status in place.
func (s *Seat) SetStatus(status SeatStatus) { s.status = status }
