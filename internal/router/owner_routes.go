package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-booking/internal/handler"
	"github.com/iliyamo/show-booking/internal/middleware"
)

// RegisterOwner wires the show administration endpoints under /v1. Every
// route requires a valid JWT with the OWNER role.
func RegisterOwner(e *echo.Echo, h *handler.ShowHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	g.POST("/shows", h.CreateShow)
}
