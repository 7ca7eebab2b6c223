package cursor

import (
	"context"
	"fmt"
	"time"

	"appstore_sales_bot/internal/retry"

	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// RangeStore is the sheet access the cursor needs; satisfied by
// sheets.Client.
type RangeStore interface {
	ReadRange(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
}

// Store persists the last successfully processed report date in a
// single spreadsheet cell. Sheet calls are retried; a flaky read must
// not fail a run before it starts.
type Store struct {
	sheet         RangeStore
	spreadsheetID string
	cell          string
	retryCfg      retry.Config
}

func NewStore(sheet RangeStore, spreadsheetID, cell string, retryCfg retry.Config) *Store {
	return &Store{
		sheet:         sheet,
		spreadsheetID: spreadsheetID,
		cell:          cell,
		retryCfg:      retryCfg,
	}
}

// Get reads the cursor. The second return is false when no date has
// been persisted yet (first run). A cell that holds anything other
// than a YYYY-MM-DD date is an error; guessing a date would risk
// re-posting or skipping days.
func (s *Store) Get(ctx context.Context) (time.Time, bool, error) {
	values, err := retry.WithRetry(ctx, s.retryCfg, func(ctx context.Context) ([][]interface{}, error) {
		return s.sheet.ReadRange(ctx, s.spreadsheetID, s.cell)
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read cursor cell: %w", err)
	}

	raw := firstCell(values)
	if raw == "" {
		log.Debug().Str("cell", s.cell).Msg("No cursor persisted yet")
		return time.Time{}, false, nil
	}

	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid persisted cursor %q: %w", raw, err)
	}

	log.Debug().Str("cursor", raw).Msg("Read cursor")
	return date, true, nil
}

// Set writes the cursor after a successful run.
func (s *Store) Set(ctx context.Context, date time.Time) error {
	value := date.Format(dateLayout)
	_, err := retry.WithRetry(ctx, s.retryCfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.sheet.UpdateRange(ctx, s.spreadsheetID, s.cell, [][]interface{}{{value}})
	})
	if err != nil {
		return fmt.Errorf("failed to write cursor cell: %w", err)
	}

	log.Info().Str("cursor", value).Msg("Advanced cursor")
	return nil
}

func firstCell(values [][]interface{}) string {
	if len(values) == 0 || len(values[0]) == 0 || values[0][0] == nil {
		return ""
	}
	return fmt.Sprintf("%v", values[0][0])
}
