package handler

import (
	"errors"   // errors.Is / errors.As against service sentinels
	"net/http" // HTTP status codes
	"time"     // reservation response timestamps

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-booking/internal/booking"
	"github.com/iliyamo/show-booking/internal/ledger"
)

// BookingHandler exposes the reservation flow over HTTP. The heavy lifting
// lives in booking.Service; this layer binds requests, maps domain errors
// to status codes and shapes the JSON responses. JWT and role checks run
// in middleware before any method here is reached.
type BookingHandler struct {
	Svc     *booking.Service
	Ledger  ledger.SeatLedger
	Shows   booking.ShowStore
	ResRepo booking.ReservationStore
}

func NewBookingHandler(svc *booking.Service, l ledger.SeatLedger, shows booking.ShowStore, reservations booking.ReservationStore) *BookingHandler {
	if svc == nil || l == nil || shows == nil || reservations == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Ledger: l, Shows: shows, ResRepo: reservations}
}

// ----- DTOs -----

type createReservationReq struct {
	SeatLabels []string `json:"seat_labels"`
}

type reservationResp struct {
	ID          uint64    `json:"id"`
	ShowID      uint64    `json:"show_id"`
	SeatLabels  []string  `json:"seat_labels"`
	AmountCents uint32    `json:"amount_cents"`
	Confirmed   bool      `json:"confirmed"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateReservation handles POST /v1/shows/:id/reservations. It acquires
// the requested seats atomically and starts a payment session. On a seat
// conflict the response carries the taken labels so the client can offer
// alternatives.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, checkoutURL, err := h.Svc.CreateReservation(c.Request().Context(), showID, userID, req.SeatLabels)
	if err != nil {
		var conflict *booking.SeatsUnavailableError
		switch {
		case errors.As(err, &conflict):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "seats unavailable",
				"taken": conflict.Taken,
			})
		case errors.Is(err, booking.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, booking.ErrEmptySeatSelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_labels is required"})
		case errors.Is(err, booking.ErrInvalidSeatLabel):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat label"})
		case errors.Is(err, booking.ErrPaymentSession):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
		}
	}

	return c.JSON(http.StatusCreated, reservationResp{
		ID:          res.ID,
		ShowID:      res.ShowID,
		SeatLabels:  res.SeatLabels,
		AmountCents: res.AmountCents,
		Confirmed:   res.Confirmed,
		CheckoutURL: checkoutURL,
		ExpiresAt:   res.CreatedAt.Add(h.Svc.HoldTimeout()),
		CreatedAt:   res.CreatedAt,
	})
}

// ListMyReservations handles GET /v1/my-reservations and returns the
// caller's reservations, newest first.
func (h *BookingHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.ResRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResp, 0, len(list))
	for i := range list {
		r := &list[i]
		out = append(out, reservationResp{
			ID:          r.ID,
			ShowID:      r.ShowID,
			SeatLabels:  r.SeatLabels,
			AmountCents: r.AmountCents,
			Confirmed:   r.Confirmed,
			CreatedAt:   r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// GetReservation handles GET /v1/reservations/:id. Customers can only see
// their own reservations.
func (h *BookingHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.ResRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, reservationResp{
		ID:          res.ID,
		ShowID:      res.ShowID,
		SeatLabels:  res.SeatLabels,
		AmountCents: res.AmountCents,
		Confirmed:   res.Confirmed,
		CreatedAt:   res.CreatedAt,
	})
}

// ShowSeats handles GET /v1/shows/:id/seats. It is public so guests can
// check availability before registering. The response is the show's seat
// grid plus the labels currently held or sold.
func (h *BookingHandler) ShowSeats(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.Shows.GetByID(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, booking.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	occupied, err := h.Ledger.Occupied(c.Request().Context(), showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":       show.ID,
		"rows":          show.Rows,
		"seats_per_row": show.SeatsPerRow,
		"occupied":      occupied,
	})
}

// PaymentWebhook handles POST /v1/payments/webhook. The payment provider
// calls it once a checkout session settles. It is an HTTP fallback for the
// queue consumer and shares the same idempotent confirmation path. The
// route sits behind the SharedSecret middleware; an unauthenticated caller
// never reaches this handler.
func (h *BookingHandler) PaymentWebhook(c echo.Context) error {
	var body struct {
		ReservationID uint64 `json:"reservation_id"`
		Status        string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if body.Status != "" && body.Status != "succeeded" {
		// Failed or expired sessions resolve through the hold timeout.
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.Svc.OnConfirmed(c.Request().Context(), body.ReservationID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirmation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
