package summary

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer applies en-US digit grouping to every number the message
// renders. The sink is a single channel, so the locale is fixed.
var printer = message.NewPrinter(language.English)

// formatInt renders a count with thousands grouping and no decimals.
func formatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// formatCurrency renders a USD amount: leading minus for negatives,
// grouped integer part, and cents only below $100. The integer case
// truncates toward zero rather than rounding.
func formatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	abs := math.Abs(v)
	if abs >= 100 {
		return sign + printer.Sprintf("$%d", int64(abs))
	}
	return sign + printer.Sprintf("$%.2f", abs)
}

// formatPercent renders the relative change from baseline b to current
// v, sign-prefixed with one decimal place. A zero baseline counts as
// maximal positive change so a brand-new app never divides by zero.
func formatPercent(v, b float64) string {
	if b == 0 {
		return "+100.0%"
	}
	pct := (v - b) / math.Abs(b) * 100
	return printer.Sprintf("%+.1f%%", pct)
}

// formatChange pairs the day-over-day and week-over-week percent
// strings for one metric.
func formatChange(current, prevDay, prevWeek float64) string {
	return formatPercent(current, prevDay) + " day / " + formatPercent(current, prevWeek) + " week"
}
