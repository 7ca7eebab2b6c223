package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"appstore_sales_bot/internal/summary"

	"github.com/rs/zerolog/log"
)

// Client posts report messages to an incoming webhook. Transient
// failures are retried with exponential backoff; a message that cannot
// be delivered after retries fails the whole run, since a partially
// posted report is worse than none.
type Client struct {
	httpClient *http.Client
	webhookURL string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

type DeliveryError struct {
	Type       string
	StatusCode int
	Attempt    int
	Underlying error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed [%s] attempt %d: %v", e.Type, e.Attempt, e.Underlying)
}

func (e *DeliveryError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(webhookURL string, maxRetries int, baseDelay, maxDelay time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		webhookURL: webhookURL,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
	}
}

// Send delivers one report message, retrying retryable failures.
func (c *Client) Send(ctx context.Context, msg *summary.Message) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying delivery after delay")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.post(ctx, msg, attempt+1)
		if err == nil {
			return nil
		}

		lastErr = err
		if delErr, ok := err.(*DeliveryError); ok && !delErr.IsRetryable() {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Msg("Non-retryable delivery error, giving up")
			return err
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("Delivery attempt failed")
	}

	return &DeliveryError{
		Type:       "max_retries_exceeded",
		Attempt:    c.maxRetries + 1,
		Underlying: lastErr,
	}
}

func (c *Client) post(ctx context.Context, msg *summary.Message, attempt int) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return &DeliveryError{Type: "client", Attempt: attempt, Underlying: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return &DeliveryError{Type: "client", Attempt: attempt, Underlying: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Type: "network", Attempt: attempt, Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &DeliveryError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Attempt:    attempt,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("attachments", len(msg.Attachments)).
		Int("attempt", attempt).
		Msg("Report message delivered")
	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	base := float64(c.baseDelay)
	backoff := base * math.Pow(2, float64(attempt-1))

	// jitter, plus or minus 25%
	jitter := rand.Float64()*0.5 - 0.25
	backoff = backoff * (1 + jitter)

	if backoff > float64(c.maxDelay) {
		backoff = float64(c.maxDelay)
	}
	return time.Duration(backoff)
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}
