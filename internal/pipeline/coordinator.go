package pipeline

import (
	"context"
	"time"

	"appstore_sales_bot/internal/metadata"
	"appstore_sales_bot/internal/sales"
	"appstore_sales_bot/internal/summary"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MetadataSource resolves title and icon for one app in a storefront.
type MetadataSource interface {
	Lookup(ctx context.Context, appID, country string) (*metadata.AppInfo, error)
}

// CursorStore persists the last successfully processed report date.
type CursorStore interface {
	Get(ctx context.Context) (time.Time, bool, error)
	Set(ctx context.Context, date time.Time) error
}

// Sink delivers the finished report message.
type Sink interface {
	Send(ctx context.Context, msg *summary.Message) error
}

// Outcome distinguishes a run that delivered a report from one that
// had nothing to do yet.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeNoOp
)

func (o Outcome) String() string {
	if o == OutcomeNoOp {
		return "no_op"
	}
	return "delivered"
}

// firstRunLagDays is how far behind today the first run starts, since
// the provider publishes a date's report with roughly a day of lag.
const firstRunLagDays = 2

// Coordinator sequences one run: status check, target date resolution,
// aggregation, delivery, cursor advance. The cursor moves only after a
// successful delivery, so a failed date is retried on the next run.
type Coordinator struct {
	reports    ReportSource
	aggregator *Aggregator
	metadata   MetadataSource
	cursor     CursorStore
	sink       Sink
	now        func() time.Time
}

func NewCoordinator(reports ReportSource, aggregator *Aggregator, meta MetadataSource, cursor CursorStore, sink Sink) *Coordinator {
	return &Coordinator{
		reports:    reports,
		aggregator: aggregator,
		metadata:   meta,
		cursor:     cursor,
		sink:       sink,
		now:        time.Now,
	}
}

// Run executes one invocation of the job.
func (c *Coordinator) Run(ctx context.Context) (Outcome, error) {
	runLog := log.With().Str("run_id", uuid.NewString()).Logger()

	if err := c.reports.Status(ctx); err != nil {
		return OutcomeNoOp, err
	}

	target, err := c.targetDate(ctx)
	if err != nil {
		return OutcomeNoOp, err
	}
	runLog.Info().Str("target", target.Format("2006-01-02")).Msg("Processing report date")

	snap, err := c.aggregator.Aggregate(ctx, target)
	if err != nil {
		return OutcomeNoOp, err
	}
	if snap == nil {
		runLog.Info().Msg("Run ended as no-op, cursor unchanged")
		return OutcomeNoOp, nil
	}

	if err := c.enrichIcons(ctx, snap.Day); err != nil {
		return OutcomeNoOp, err
	}

	msg := summary.Build(snap, target)
	if err := c.sink.Send(ctx, msg); err != nil {
		return OutcomeNoOp, err
	}

	if err := c.cursor.Set(ctx, target); err != nil {
		return OutcomeNoOp, err
	}

	runLog.Info().
		Int("apps", len(snap.Day)).
		Int("attachments", len(msg.Attachments)).
		Msg("Run delivered")
	return OutcomeDelivered, nil
}

// targetDate resolves the next date to process: cursor + 1 day, or
// now − firstRunLagDays when no cursor has been persisted yet.
func (c *Coordinator) targetDate(ctx context.Context) (time.Time, error) {
	last, ok, err := c.cursor.Get(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return last.AddDate(0, 0, 1), nil
	}

	now := c.now().UTC()
	target := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -firstRunLagDays)
	log.Debug().Str("target", target.Format("2006-01-02")).Msg("First run, starting behind publication lag")
	return target, nil
}

// enrichIcons resolves icon metadata for every app in the day map.
// Lookups are independent, so they run concurrently; any failure fails
// the run, because a message with holes in it must not go out.
func (c *Coordinator) enrichIcons(ctx context.Context, day map[string]*sales.Record) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, rec := range day {
		g.Go(func() error {
			info, err := c.metadata.Lookup(gctx, rec.AppID, rec.Country)
			if err != nil {
				return err
			}
			rec.IconURL = info.IconURL
			return nil
		})
	}
	return g.Wait()
}
