package appstore

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Availability is the tri-state outcome of a daily report fetch.
type Availability int

const (
	// Available means the report exists and carries data rows.
	Available Availability = iota
	// NotYetPublished means the provider has not generated the report
	// for that date yet. Not an error; try again later.
	NotYetPublished
	// NoSales means the report exists but has zero data rows. Distinct
	// from NotYetPublished: the date is final and can be processed.
	NoSales
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case NotYetPublished:
		return "not_yet_published"
	case NoSales:
		return "no_sales"
	}
	return "unknown"
}

// Client talks to the sales report service. Daily reports come back as
// gzip-compressed tab-separated text keyed by vendor number and date.
type Client struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type statusResponse struct {
	Message string `json:"message"`
}

// Status checks the report service health endpoint. A malformed or
// empty status body means the provider API itself is broken, which is
// fatal to the run, unlike a report that simply is not ready.
func (c *Client) Status(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/status", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode status response: %w", err)
	}
	if status.Message == "" {
		return fmt.Errorf("status response missing message")
	}

	log.Debug().Str("message", status.Message).Msg("Report service status OK")
	return nil
}

// DailyReport fetches the sales report for a vendor and date. The date
// is sent as YYYYMMDD. A 404 maps to NotYetPublished; a report with a
// header but no data rows maps to NoSales.
func (c *Client) DailyReport(ctx context.Context, vendor string, date time.Time) (Availability, [][]string, error) {
	day := date.Format("20060102")
	url := fmt.Sprintf("%s/v1/sales/%s/%s", c.baseURL, vendor, day)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return NotYetPublished, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return NotYetPublished, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Debug().Str("date", day).Msg("Report not yet published")
		return NotYetPublished, nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return NotYetPublished, nil, fmt.Errorf("report request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NotYetPublished, nil, fmt.Errorf("failed to read report body: %w", err)
	}

	rows, err := decodeReport(body)
	if err != nil {
		return NotYetPublished, nil, fmt.Errorf("failed to decode report for %s: %w", day, err)
	}

	if len(rows) < 2 {
		log.Debug().Str("date", day).Msg("Report published with zero sales rows")
		return NoSales, rows, nil
	}

	log.Debug().Str("date", day).Int("rows", len(rows)-1).Msg("Fetched sales report")
	return Available, rows, nil
}

// decodeReport unpacks a gzip'd tab-separated report body. A body that
// is not gzip'd is read as plain TSV, which the provider sends for
// empty reports.
func decodeReport(body []byte) ([][]string, error) {
	var reader io.Reader = bytes.NewReader(body)

	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err == nil {
		defer gz.Close()
		reader = gz
	}

	tsv := csv.NewReader(reader)
	tsv.Comma = '\t'
	tsv.LazyQuotes = true
	tsv.FieldsPerRecord = -1

	rows, err := tsv.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse tab-separated report: %w", err)
	}
	return rows, nil
}
