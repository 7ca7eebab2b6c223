package summary

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"appstore_sales_bot/internal/sales"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func snapshotWith(day, prevDay, prevWeek map[string]*sales.Record) *sales.Snapshot {
	if day == nil {
		day = map[string]*sales.Record{}
	}
	if prevDay == nil {
		prevDay = map[string]*sales.Record{}
	}
	if prevWeek == nil {
		prevWeek = map[string]*sales.Record{}
	}
	return &sales.Snapshot{Day: day, PrevDay: prevDay, PrevWeek: prevWeek}
}

func TestBuildEmptyDayIsSingleLine(t *testing.T) {
	msg := Build(snapshotWith(nil, nil, nil), testDate)
	assert.Equal(t, "No sales recorded for 2024-01-15.", msg.Text)
	assert.Empty(t, msg.Attachments)
}

func TestBuildInstallsOnlyAppOmitsRevenue(t *testing.T) {
	day := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 100, Revenue: 0},
	}
	prevDay := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 80, Revenue: 0},
	}

	msg := Build(snapshotWith(day, prevDay, nil), testDate)
	require.Len(t, msg.Attachments, 2)

	app := msg.Attachments[1]
	assert.Equal(t, "good", app.Color, "installs rose, so installs-based rule says good")
	require.Len(t, app.Fields, 2)
	assert.Equal(t, "Downloads", app.Fields[0].Title)
	assert.Equal(t, "100", app.Fields[0].Value)
	assert.Equal(t, "Downloads change", app.Fields[1].Title)
	assert.Equal(t, "+25.0% day / +100.0% week", app.Fields[1].Value)
}

func TestBuildRevenueTakesPrecedenceOverInstalls(t *testing.T) {
	day := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 200, Revenue: 50},
	}
	prevDay := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 10, Revenue: 80},
	}

	msg := Build(snapshotWith(day, prevDay, nil), testDate)
	app := msg.Attachments[1]
	assert.Equal(t, "danger", app.Color, "revenue fell, installs do not matter")
	require.Len(t, app.Fields, 4)
	assert.Equal(t, "Revenue", app.Fields[2].Title)
	assert.Equal(t, "$50.00", app.Fields[2].Value)
	assert.Equal(t, "-37.5% day / +100.0% week", app.Fields[3].Value)
}

func TestBuildSortsByTitleAndCapsAtTwenty(t *testing.T) {
	day := make(map[string]*sales.Record)
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("%d", 100+i)
		day[id] = &sales.Record{
			AppID:    id,
			Title:    fmt.Sprintf("App %02d", i),
			Installs: i + 1,
		}
	}

	msg := Build(snapshotWith(day, nil, nil), testDate)
	require.Len(t, msg.Attachments, 21, "totals plus capped app sections")

	assert.Contains(t, msg.Attachments[0].AuthorName, "Totals")
	for i := 0; i < 20; i++ {
		assert.Equal(t, fmt.Sprintf("App %02d", i), msg.Attachments[i+1].AuthorName)
	}

	// Dropped apps still count toward the totals: 1+2+...+25.
	assert.Equal(t, "325", msg.Attachments[0].Fields[0].Value)
}

func TestBuildTotalsUseGoodBadRule(t *testing.T) {
	day := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 10, Revenue: 200},
		"200": {AppID: "200", Title: "Beta", Installs: 5, Revenue: 100},
	}
	prevDay := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 50, Revenue: 100},
	}

	msg := Build(snapshotWith(day, prevDay, nil), testDate)
	totals := msg.Attachments[0]
	assert.Equal(t, "good", totals.Color, "total revenue 300 beats prior 100")
	assert.Equal(t, "$300", totals.Fields[2].Value)
	assert.Equal(t, "+200.0% day / +100.0% week", totals.Fields[3].Value)
}

func TestBuildMissingBaselineDefaultsToZero(t *testing.T) {
	day := map[string]*sales.Record{
		"100": {AppID: "100", Title: "Alpha", Installs: 7, Revenue: 3.5},
	}

	msg := Build(snapshotWith(day, nil, nil), testDate)
	app := msg.Attachments[1]
	assert.Equal(t, "good", app.Color)
	assert.Equal(t, "+100.0% day / +100.0% week", app.Fields[1].Value)
}

func TestBuildIsDeterministic(t *testing.T) {
	day := make(map[string]*sales.Record)
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("%d", 500+i)
		day[id] = &sales.Record{AppID: id, Title: "Same Title", Installs: i, Revenue: float64(i)}
	}
	snap := snapshotWith(day, nil, nil)

	first, err := json.Marshal(Build(snap, testDate))
	require.NoError(t, err)
	second, err := json.Marshal(Build(snap, testDate))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
