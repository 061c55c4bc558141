// Package payment integrates the external payment provider.  The
// core treats it as a black box that either returns a checkout URL or
// fails, in which case the reservation is rolled back.
package payment

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/google/uuid"
)

// Client creates checkout sessions against the provider's HTTP API.
// It implements booking.PaymentClient.
type Client struct {
    baseURL string
    apiKey  string
    http    *http.Client
}

// NewClient returns a Client for the given provider endpoint.  A nil
// httpClient gets a default with a 10 second timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
    if httpClient == nil {
        httpClient = &http.Client{Timeout: 10 * time.Second}
    }
    return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

type sessionRequest struct {
    AmountCents    uint32 `json:"amount_cents"`
    Currency       string `json:"currency"`
    Reference      string `json:"reference"`
    SuccessURL     string `json:"success_url"`
    CancelURL      string `json:"cancel_url"`
    IdempotencyKey string `json:"idempotency_key"`
}

type sessionResponse struct {
    URL   string `json:"url"`
    Error string `json:"error,omitempty"`
}

// CreateSession opens a checkout session for the reservation and
// returns the redirect URL.  Each call carries a fresh idempotency
// key so a retried HTTP request cannot double-charge.
func (c *Client) CreateSession(ctx context.Context, amountCents uint32, reservationID uint64, successURL, cancelURL string) (string, error) {
    body, err := json.Marshal(sessionRequest{
        AmountCents:    amountCents,
        Currency:       "EUR",
        Reference:      fmt.Sprintf("reservation-%d", reservationID),
        SuccessURL:     successURL,
        CancelURL:      cancelURL,
        IdempotencyKey: uuid.NewString(),
    })
    if err != nil {
        return "", err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+c.apiKey)

    resp, err := c.http.Do(req)
    if err != nil {
        return "", fmt.Errorf("payment provider: %w", err)
    }
    defer resp.Body.Close()

    data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
    if err != nil {
        return "", fmt.Errorf("payment provider: read response: %w", err)
    }
    var sr sessionResponse
    if err := json.Unmarshal(data, &sr); err != nil {
        return "", fmt.Errorf("payment provider: decode response (status %d): %w", resp.StatusCode, err)
    }
    if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
        msg := sr.Error
        if msg == "" {
            msg = http.StatusText(resp.StatusCode)
        }
        return "", fmt.Errorf("payment provider: %s (status %d)", msg, resp.StatusCode)
    }
    if sr.URL == "" {
        return "", fmt.Errorf("payment provider: response without checkout url")
    }
    return sr.URL, nil
}
