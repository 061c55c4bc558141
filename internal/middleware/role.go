package middleware

import (
	"net/http" // standard HTTP status codes

	"github.com/labstack/echo/v4" // middleware chaining and context
)

// RequireRole enforces that the authenticated user carries one of the given
// roles. The values must match what the JWT's "role" claim holds. A request
// with a missing or disallowed role is aborted with 403 Forbidden. JWTAuth
// must run earlier in the chain so the role is present in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	// Allowed roles as a set for cheap lookups.
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
