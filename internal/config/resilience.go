package config

import (
	"time"

	"appstore_sales_bot/internal/retry"
)

// ResilienceConfig groups the retry presets for the run's external
// calls. Report fetches get a longer leash than the small JSON calls.
type ResilienceConfig struct {
	ReportFetch retry.Config
	RateFetch   retry.Config
	SheetAccess retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	ReportFetch: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    45 * time.Second,
	},
	RateFetch: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   15 * time.Second,
		Timeout:    15 * time.Second,
	},
	SheetAccess: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
}
