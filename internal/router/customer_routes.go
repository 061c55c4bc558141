package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-booking/internal/handler"
	"github.com/iliyamo/show-booking/internal/middleware"
)

// RegisterCustomer wires the customer-facing booking endpoints under /v1.
// Every route requires a valid JWT with the CUSTOMER role. Customers can
// reserve seats for a show and inspect their own reservations.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/shows/:id/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListMyReservations)
	g.GET("/reservations/:id", h.GetReservation)
}
