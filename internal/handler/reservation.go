package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-seat-reservation/internal/service"
)

// ReservationHandler exposes the reservation core over HTTP.  All
// methods assume JWT authentication has already run, so the customer
// email is available in the request context.  The core's sentinel
// returns (nil hold, empty confirmation) map onto 400/409/404 here;
// only venue construction ever surfaces a hard error, and that happens
// at startup.
type ReservationHandler struct {
	Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

// Availability handles GET /v1/availability.  It reports the venue
// capacity and how many seats are currently neither held nor reserved.
func (h *ReservationHandler) Availability(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"total_seats":  h.Svc.TotalSeats(),
		"available":    h.Svc.AvailableSeatCount(),
		"active_holds": h.Svc.ActiveHoldCount(),
	})
}

// CreateHold handles POST /v1/holds.  The body carries the requested
// seat count; the seats themselves are chosen by the core's first-fit
// scan.  Responds 201 with the hold (id, seats, expiry) on success, 400
// when the count is not a positive number within venue capacity, and
// 409 when availability is insufficient at evaluation time.
func (h *ReservationHandler) CreateHold(c echo.Context) error {
	email, _ := c.Get("customer_email").(string)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		Seats int `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Seats <= 0 || body.Seats > h.Svc.TotalSeats() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat count must be positive and within venue capacity"})
	}

	hold := h.Svc.FindAndHoldSeats(body.Seats, email)
	if hold == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats available"})
	}
	return c.JSON(http.StatusCreated, hold)
}

// Reserve handles POST /v1/holds/:id/reserve.  It converts a live hold
// into a permanent reservation.  A hold that never existed, already
// expired or was already confirmed yields 404; the winner of a
// confirm-versus-expiry race gets the confirmation id.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	email, _ := c.Get("customer_email").(string)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	holdID := c.Param("id")
	if holdID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hold id required"})
	}

	confirmationID := h.Svc.ReserveSeats(holdID, email)
	if confirmationID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired hold"})
	}
	return c.JSON(http.StatusOK, echo.Map{"confirmation_id": confirmationID})
}
