package pipeline

import (
	"context"
	"time"

	"appstore_sales_bot/internal/appstore"
	"appstore_sales_bot/internal/config"
	"appstore_sales_bot/internal/rates"
	"appstore_sales_bot/internal/retry"
	"appstore_sales_bot/internal/sales"

	"github.com/rs/zerolog/log"
)

// ReportSource is the report service surface the pipeline consumes.
type ReportSource interface {
	Status(ctx context.Context) error
	DailyReport(ctx context.Context, vendor string, date time.Time) (appstore.Availability, [][]string, error)
}

// RateSource provides the currency-code to per-USD-rate table.
type RateSource interface {
	GetRates(ctx context.Context) (map[string]float64, error)
}

// Aggregator fetches and parses the three report dates one comparison
// run needs. All three dates share the rate table fetched for the
// target day so the comparison is not skewed by intra-run rate drift.
type Aggregator struct {
	reports    ReportSource
	rates      RateSource
	vendor     string
	resilience config.ResilienceConfig
}

func NewAggregator(reports ReportSource, rateSource RateSource, vendor string, resilience config.ResilienceConfig) *Aggregator {
	return &Aggregator{
		reports:    reports,
		rates:      rateSource,
		vendor:     vendor,
		resilience: resilience,
	}
}

type reportResult struct {
	availability appstore.Availability
	rows         [][]string
}

// Aggregate builds the snapshot for target. A nil snapshot with a nil
// error means the target day's report is not published yet and the run
// should end as a no-op. When the day parses to zero apps the snapshot
// is returned without fetching the comparison dates.
func (a *Aggregator) Aggregate(ctx context.Context, target time.Time) (*sales.Snapshot, error) {
	day, err := a.fetchReport(ctx, target)
	if err != nil {
		return nil, err
	}
	if day.availability == appstore.NotYetPublished {
		log.Info().
			Str("date", target.Format("2006-01-02")).
			Msg("Report not published yet, nothing to do")
		return nil, nil
	}

	table, err := retry.WithRetry(ctx, a.resilience.RateFetch, a.rates.GetRates)
	if err != nil {
		return nil, err
	}
	rates.EnsureUSD(table)

	snap := &sales.Snapshot{
		PrevDay:  map[string]*sales.Record{},
		PrevWeek: map[string]*sales.Record{},
	}

	snap.Day, err = sales.Parse(day.rows, table)
	if err != nil {
		return nil, err
	}
	if len(snap.Day) == 0 {
		log.Info().
			Str("date", target.Format("2006-01-02")).
			Msg("Report published with no sales")
		return snap, nil
	}

	snap.PrevDay, err = a.comparisonDay(ctx, target.AddDate(0, 0, -1), table)
	if err != nil {
		return nil, err
	}
	snap.PrevWeek, err = a.comparisonDay(ctx, target.AddDate(0, 0, -7), table)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("day_apps", len(snap.Day)).
		Int("prev_day_apps", len(snap.PrevDay)).
		Int("prev_week_apps", len(snap.PrevWeek)).
		Msg("Aggregated sales snapshot")
	return snap, nil
}

// comparisonDay parses a baseline date's report. A report that is
// missing or empty degrades to an empty map; the comparison then runs
// against a zero baseline instead of failing.
func (a *Aggregator) comparisonDay(ctx context.Context, date time.Time, table map[string]float64) (map[string]*sales.Record, error) {
	result, err := a.fetchReport(ctx, date)
	if err != nil {
		return nil, err
	}
	if result.availability == appstore.NotYetPublished {
		log.Debug().
			Str("date", date.Format("2006-01-02")).
			Msg("Comparison report unavailable, using zero baseline")
		return map[string]*sales.Record{}, nil
	}
	return sales.Parse(result.rows, table)
}

func (a *Aggregator) fetchReport(ctx context.Context, date time.Time) (reportResult, error) {
	return retry.WithRetry(ctx, a.resilience.ReportFetch, func(ctx context.Context) (reportResult, error) {
		availability, rows, err := a.reports.DailyReport(ctx, a.vendor, date)
		return reportResult{availability: availability, rows: rows}, err
	})
}
