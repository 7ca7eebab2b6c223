package sales

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Column names as they appear in the report header. Column order is
// not fixed across report versions, so indices are resolved from the
// header on every parse.
const (
	colAppID       = "Apple Identifier"
	colCountry     = "Country Code"
	colCurrency    = "Currency of Proceeds"
	colTitle       = "Title"
	colUnits       = "Units"
	colProceeds    = "Developer Proceeds"
	colProductType = "Product Type Identifier"
)

var requiredColumns = []string{
	colAppID, colCountry, colCurrency, colTitle, colUnits, colProceeds, colProductType,
}

type columnIndex map[string]int

func resolveColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}

	idx := make(columnIndex, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("report header missing required column %q", name)
		}
		idx[name] = i
	}
	return idx, nil
}

// maxIndex returns the highest resolved column index; rows shorter than
// this cannot be read safely.
func (idx columnIndex) maxIndex() int {
	max := 0
	for _, i := range idx {
		if i > max {
			max = i
		}
	}
	return max
}

// Parse aggregates raw report rows into per-app records with revenue
// normalized to USD. rates maps a currency code to units of that
// currency per 1 USD. Fewer than two rows means the report carried no
// sales and yields an empty map, not an error. A row whose currency is
// missing from rates contributes nothing but does not fail the parse.
func Parse(rows [][]string, rates map[string]float64) (map[string]*Record, error) {
	records := make(map[string]*Record)
	if len(rows) < 2 {
		log.Debug().Int("rows", len(rows)).Msg("Report has no data rows")
		return records, nil
	}

	idx, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}
	minCells := idx.maxIndex() + 1

	for i, row := range rows[1:] {
		if len(row) < minCells {
			log.Warn().
				Int("row", i+2).
				Int("cells", len(row)).
				Msg("Skipping report row with too few cells")
			continue
		}

		appID := row[idx[colAppID]]
		rec, ok := records[appID]
		if !ok {
			rec = &Record{
				AppID:   appID,
				Title:   row[idx[colTitle]],
				Country: row[idx[colCountry]],
			}
			records[appID] = rec
		}

		currency := row[idx[colCurrency]]
		fx, ok := rates[currency]
		if !ok || fx == 0 {
			log.Warn().
				Str("currency", currency).
				Str("app_id", appID).
				Msg("No exchange rate for currency, skipping row contribution")
			continue
		}

		units := parseNumber(row[idx[colUnits]])
		proceeds := parseNumber(row[idx[colProceeds]])

		class := ClassifyProductType(row[idx[colProductType]])
		if class.ContributesRevenue() {
			rec.Revenue += units * proceeds / fx
		}
		if class == ClassInstall {
			rec.Installs += int(units)
		}
	}

	log.Debug().Int("apps", len(records)).Int("rows", len(rows)-1).Msg("Parsed sales report")
	return records, nil
}

// parseNumber reads a report numeric cell; unparseable values count as
// zero rather than failing the row.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
