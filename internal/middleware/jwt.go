package middleware // reusable HTTP middleware shared by all route groups

import (
	"net/http" // HTTP status codes for error responses
	"strings"  // prefix checks on the Authorization header

	"github.com/golang-jwt/jwt/v5" // parsing and validating access tokens
	"github.com/labstack/echo/v4"  // middleware and handler plumbing
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores its subject and role claims in the request context. The secret
// must be the one used to sign tokens. Handlers behind this middleware read
// the authenticated identity via `c.Get("user_id")` and `c.Get("role")`.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer <jwt>". Anything else is rejected
			// before we touch the token parser.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only. The key callback rejects any other
			// signing method before returning the secret bytes.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Expose the subject and role to handlers. Type assertions are
			// left to the consumers.
			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}
