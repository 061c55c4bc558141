package handler // HTTP handlers for the booking API

import (
	"net/http" // status codes

	"github.com/labstack/echo/v4" // web framework
)

// Health answers load balancer probes with a plain "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
