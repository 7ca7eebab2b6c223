package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client fetches the daily exchange rate table. Rates are expressed as
// units of the currency per 1 USD, the same convention the report
// parser divides by.
type Client struct {
	baseURL string
	appID   string
	client  *http.Client
}

func NewClient(baseURL, appID string) *Client {
	return &Client{
		baseURL: baseURL,
		appID:   appID,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// GetRates fetches the current rate table. An empty or undecodable
// table is an error; the whole run depends on it.
func (c *Client) GetRates(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/latest.json?app_id=%s", c.baseURL, c.appID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rates request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("rates response contained no rates")
	}

	EnsureUSD(result.Rates)

	log.Debug().Int("currencies", len(result.Rates)).Msg("Fetched exchange rates")
	return result.Rates, nil
}

// EnsureUSD guarantees the reference currency resolves to 1 so USD
// report rows always normalize, whatever the rate source returned.
func EnsureUSD(table map[string]float64) {
	if _, ok := table["USD"]; !ok {
		table["USD"] = 1
	}
}
