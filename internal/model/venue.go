package model

import "errors"

// ErrInvalidDimensions is returned when a venue is constructed with a
// non-positive number of rows or columns.  Construction is the only
// operation in the core that signals a real error; everything else uses
// sentinel return values.
var ErrInvalidDimensions = errors.New("venue dimensions must be positive")

// Venue is a fixed two-dimensional grid of seats.  The dimensions are
// set at construction and never change; every seat is reachable by
// exactly one (row, column) pair.  Venue itself is not safe for
// concurrent use — the reservation service serializes all access.
//
// Fields:
//  rows – number of rows, fixed for the venue's lifetime.
//  cols – number of seats per row, fixed for the venue's lifetime.
//  grid – row-major seat grid owned exclusively by the venue.
type Venue struct {
	rows int
	cols int
	grid [][]*Seat
}

// NewVenue builds a venue with rows×cols VACANT seats.  It returns
// ErrInvalidDimensions when either dimension is not positive.
func NewVenue(rows, cols int) (*Venue, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	grid := make([][]*Seat, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]*Seat, cols)
		for c := 0; c < cols; c++ {
			grid[r][c] = NewSeat(r, c)
		}
	}
	return &Venue{rows: rows, cols: cols, grid: grid}, nil
}

// Rows returns the number of rows in the venue.
func (v *Venue) Rows() int { return v.rows }

// Cols returns the number of seats per row.
func (v *Venue) Cols() int { return v.cols }

// TotalSeats returns rows×cols, constant for the venue's life.
func (v *Venue) TotalSeats() int { return v.rows * v.cols }

// Seat returns the seat at the given position.  Positions outside the
// grid return nil.
func (v *Venue) Seat(pos Position) *Seat {
	if pos.Row < 0 || pos.Row >= v.rows || pos.Col < 0 || pos.Col >= v.cols {
		return nil
	}
	return v.grid[pos.Row][pos.Col]
}

// CountByStatus counts the seats currently in the given status.  The
// full O(rows×cols) scan is the simplest correct implementation and the
// grid never grows.
func (v *Venue) CountByStatus(status SeatStatus) int {
	n := 0
	for _, row := range v.grid {
		for _, seat := range row {
			if seat.Status() == status {
				n++
			}
		}
	}
	return n
}

// ChangeStatus overwrites the status of every listed seat and echoes
// the list back for caller convenience.  It deliberately does not check
// the seats' prior status; the reservation service is responsible for
// only requesting legal transitions.  Unknown positions are skipped.
func (v *Venue) ChangeStatus(positions []Position, status SeatStatus) []Position {
	for _, pos := range positions {
		if seat := v.Seat(pos); seat != nil {
			seat.SetStatus(status)
		}
	}
	return positions
}

// VacantPositions scans the grid in row-major order (row 0 left to
// right, then row 1, and so on) and returns the first limit VACANT
// positions encountered.  Fewer positions are returned when the grid
// runs out.  This is the venue half of the first-fit search.
func (v *Venue) VacantPositions(limit int) []Position {
	if limit <= 0 {
		return nil
	}
	found := make([]Position, 0, limit)
	for _, row := range v.grid {
		for _, seat := range row {
			if seat.Status() == SeatVacant {
				found = append(found, seat.Position())
				if len(found) == limit {
					return found
				}
			}
		}
	}
	return found
}
