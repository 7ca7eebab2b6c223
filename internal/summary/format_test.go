package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+100.0%", formatPercent(50, 0), "zero baseline is maximal positive change")
	assert.Equal(t, "-50.0%", formatPercent(50, 100))
	assert.Equal(t, "+50.0%", formatPercent(150, 100))
	assert.Equal(t, "+0.0%", formatPercent(100, 100))
	assert.Equal(t, "+1,150.0%", formatPercent(1250, 100))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234", formatCurrency(1234.5), "large amounts truncate to whole dollars")
	assert.Equal(t, "$42.50", formatCurrency(42.5))
	assert.Equal(t, "-$5.20", formatCurrency(-5.2))
	assert.Equal(t, "$100", formatCurrency(100))
	assert.Equal(t, "$99.99", formatCurrency(99.99))
	assert.Equal(t, "$0.00", formatCurrency(0))
	assert.Equal(t, "-$1,234", formatCurrency(-1234.5))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "1,234", formatInt(1234))
	assert.Equal(t, "12", formatInt(12))
	assert.Equal(t, "1,234,567", formatInt(1234567))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "+50.0% day / -50.0% week", formatChange(150, 100, 300))
}
