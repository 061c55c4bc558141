package router // route registration for the booking API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/show-booking/internal/config"
	"github.com/iliyamo/show-booking/internal/handler"
	"github.com/iliyamo/show-booking/internal/middleware"
)

// RegisterRoutes wires the unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitors probe this path.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login and
// the refresh variants live under /v1/auth and need no session. /v1/me sits
// behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a refresh token in the body or a bearer
	// token in the header, so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic wires the guest-facing browse endpoints. They carry the
// Redis response cache and the rate limiter since they take anonymous
// traffic.
func RegisterPublic(e *echo.Echo, sh *handler.ShowHandler, bh *handler.BookingHandler, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	g := e.Group(
		"/v1",
		middleware.NewTokenBucket(rlCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	g.GET("/shows", sh.ListShows)
	g.GET("/shows/:id", sh.GetShow)
	// Seat availability is public so guests can pick seats before they
	// register.
	g.GET("/shows/:id/seats", bh.ShowSeats)
}

// RegisterWebhooks wires provider callbacks. The payment webhook carries
// no user JWT; it is gated on the shared secret the provider sends in the
// X-Webhook-Secret header.
func RegisterWebhooks(e *echo.Echo, bh *handler.BookingHandler, webhookSecret string) {
	e.POST("/v1/payments/webhook", bh.PaymentWebhook,
		middleware.SharedSecret("X-Webhook-Secret", webhookSecret))
}
