package main

import (
	"context"
	"time"

	"appstore_sales_bot/internal/app"
	"appstore_sales_bot/internal/config"
	"appstore_sales_bot/internal/pipeline"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Debug().Msg("Starting application")
	app.SetupEnvironment()

	ctx := context.Background()
	clients := app.InitializeClients(ctx)

	aggregator := pipeline.NewAggregator(
		clients.Reports, clients.Rates, clients.VendorID, config.DefaultResilienceConfig)
	coordinator := pipeline.NewCoordinator(
		clients.Reports, aggregator, clients.Metadata, clients.Cursor, clients.Sink)

	interval := runInterval()
	log.Info().
		Dur("interval", interval).
		Msg("Starting sales report monitor. Running immediately and then on the interval...")

	runOnce(ctx, coordinator)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		runOnce(ctx, coordinator)
	}
}

// runOnce executes a single run and reports its outcome. A failed run
// is logged and left for the next tick to retry; the coordinator never
// advances the cursor on failure, so no date is lost.
func runOnce(ctx context.Context, coordinator *pipeline.Coordinator) {
	outcome, err := coordinator.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Run failed, will retry on next interval")
		return
	}
	log.Info().Str("outcome", outcome.String()).Msg("Run complete")
}

func runInterval() time.Duration {
	raw := app.GetEnvWithDefault("RUN_INTERVAL", "1h")
	interval, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatal().Err(err).Str("value", raw).Msg("Invalid RUN_INTERVAL")
	}
	return interval
}
