package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookEcho(secret string, hits *int) *echo.Echo {
	e := echo.New()
	e.POST("/hook", func(c echo.Context) error {
		*hits++
		return c.NoContent(http.StatusNoContent)
	}, SharedSecret("X-Webhook-Secret", secret))
	return e
}

func TestSharedSecretAllowsMatchingHeader(t *testing.T) {
	hits := 0
	e := webhookEcho("s3cret", &hits)

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set("X-Webhook-Secret", "s3cret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, hits)
}

func TestSharedSecretRejectsMissingOrWrongHeader(t *testing.T) {
	hits := 0
	e := webhookEcho("s3cret", &hits)

	for _, got := range []string{"", "wrong", "s3cret "} {
		req := httptest.NewRequest(http.MethodPost, "/hook", nil)
		if got != "" {
			req.Header.Set("X-Webhook-Secret", got)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", got)
	}
	assert.Zero(t, hits, "handler must not run without the secret")
}

func TestSharedSecretRejectsAllWhenUnconfigured(t *testing.T) {
	// An empty configured secret closes the route instead of opening it.
	hits := 0
	e := webhookEcho("", &hits)

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set("X-Webhook-Secret", "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, hits)
}
