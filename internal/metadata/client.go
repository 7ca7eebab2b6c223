package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AppInfo is the subset of store metadata the report message needs.
type AppInfo struct {
	Title   string
	IconURL string
}

// Client looks up app metadata from the iTunes lookup API. Results are
// cached for an hour since the job may run several times before the
// cursor catches up.
type Client struct {
	baseURL string
	client  *http.Client
	cache   sync.Map
}

type cachedInfo struct {
	info      *AppInfo
	timestamp time.Time
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName     string `json:"trackName"`
		ArtworkURL512 string `json:"artworkUrl512"`
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

// Lookup resolves title and icon for an app in a storefront country.
// A missing or malformed result is an error; callers treat it as fatal
// because a half-enriched message must not go out.
func (c *Client) Lookup(ctx context.Context, appID, country string) (*AppInfo, error) {
	cacheKey := appID + "|" + country
	if cached, ok := c.cache.Load(cacheKey); ok {
		entry := cached.(cachedInfo)
		if time.Since(entry.timestamp) < time.Hour {
			return entry.info, nil
		}
	}

	url := fmt.Sprintf("%s/lookup?id=%s&country=%s", c.baseURL, appID, country)

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
		return nil, fmt.Errorf("lookup request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if result.ResultCount == 0 || len(result.Results) == 0 {
		return nil, fmt.Errorf("no metadata found for app %s in %s", appID, country)
	}

	first := result.Results[0]
	icon := first.ArtworkURL512
	if icon == "" {
		icon = first.ArtworkURL100
	}
	info := &AppInfo{
		Title:   first.TrackName,
		IconURL: icon,
	}

	c.cache.Store(cacheKey, cachedInfo{info: info, timestamp: time.Now()})

	log.Debug().
		Str("app_id", appID).
		Str("country", country).
		Str("title", info.Title).
		Msg("Resolved app metadata")
	return info, nil
}
