package summary

import (
	"fmt"
	"sort"
	"time"

	"appstore_sales_bot/internal/sales"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// maxAppSections caps how many per-app attachments one message carries.
// Apps past the cap are dropped silently; the totals still include them.
const maxAppSections = 20

var titleCollator = collate.New(language.English)

type periodTotals struct {
	installs int
	revenue  float64
}

// Build turns a three-date snapshot into the display message: one
// totals attachment followed by up to maxAppSections per-app
// attachments sorted by title. An empty day yields a single-line
// no-sales message with no attachments.
func Build(snap *sales.Snapshot, target time.Time) *Message {
	if len(snap.Day) == 0 {
		return &Message{
			Text: fmt.Sprintf("No sales recorded for %s.", target.Format("2006-01-02")),
		}
	}

	ordered := sortedByTitle(snap.Day)

	var day, prevDay, prevWeek periodTotals
	apps := make([]Attachment, 0, min(len(ordered), maxAppSections))

	for _, rec := range ordered {
		pd := baseline(snap.PrevDay, rec.AppID)
		pw := baseline(snap.PrevWeek, rec.AppID)

		day.installs += rec.Installs
		day.revenue += rec.Revenue
		prevDay.installs += pd.Installs
		prevDay.revenue += pd.Revenue
		prevWeek.installs += pw.Installs
		prevWeek.revenue += pw.Revenue

		if len(apps) < maxAppSections {
			apps = append(apps, Attachment{
				Color:      colorFor(rec.Revenue, pd.Revenue, rec.Installs, pd.Installs),
				AuthorName: rec.Title,
				AuthorIcon: rec.IconURL,
				Fields:     buildFields(rec.Installs, rec.Revenue, pd, pw),
			})
		}
	}

	totals := Attachment{
		Color:      colorFor(day.revenue, prevDay.revenue, day.installs, prevDay.installs),
		AuthorName: fmt.Sprintf("Totals for %s", target.Format("2006-01-02")),
		Fields: buildFields(day.installs, day.revenue,
			&sales.Record{Installs: prevDay.installs, Revenue: prevDay.revenue},
			&sales.Record{Installs: prevWeek.installs, Revenue: prevWeek.revenue}),
	}

	return &Message{Attachments: append([]Attachment{totals}, apps...)}
}

// sortedByTitle orders records with the English collator, falling back
// to the app id so equal titles still sort deterministically.
func sortedByTitle(day map[string]*sales.Record) []*sales.Record {
	ordered := make([]*sales.Record, 0, len(day))
	for _, rec := range day {
		ordered = append(ordered, rec)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if c := titleCollator.CompareString(ordered[i].Title, ordered[j].Title); c != 0 {
			return c < 0
		}
		return ordered[i].AppID < ordered[j].AppID
	})
	return ordered
}

var zeroRecord = sales.Record{}

func baseline(period map[string]*sales.Record, appID string) *sales.Record {
	if rec, ok := period[appID]; ok {
		return rec
	}
	return &zeroRecord
}

// colorFor applies the good/bad rule: revenue comparison when the
// current revenue is nonzero, installs comparison otherwise.
func colorFor(revenue, prevRevenue float64, installs, prevInstalls int) string {
	good := installs > prevInstalls
	if revenue != 0 {
		good = revenue > prevRevenue
	}
	if good {
		return "good"
	}
	return "danger"
}

// buildFields emits the downloads figure with its paired change field,
// plus the revenue pair only when the current revenue is nonzero.
func buildFields(installs int, revenue float64, prevDay, prevWeek *sales.Record) []Field {
	fields := []Field{
		{Title: "Downloads", Value: formatInt(installs), Short: true},
		{
			Title: "Downloads change",
			Value: formatChange(float64(installs), float64(prevDay.Installs), float64(prevWeek.Installs)),
			Short: true,
		},
	}
	if revenue != 0 {
		fields = append(fields,
			Field{Title: "Revenue", Value: formatCurrency(revenue), Short: true},
			Field{
				Title: "Revenue change",
				Value: formatChange(revenue, prevDay.Revenue, prevWeek.Revenue),
				Short: true,
			},
		)
	}
	return fields
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
