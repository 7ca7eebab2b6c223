package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRatesInjectsUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("app_id"))
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"JPY":147.1}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	table, err := client.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, table["USD"])
	assert.Equal(t, 0.92, table["EUR"])
}

func TestGetRatesEmptyTableIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").GetRates(context.Background())
	require.Error(t, err)
}

func TestGetRatesMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").GetRates(context.Background())
	require.Error(t, err)
}

func TestEnsureUSDPreservesExistingEntry(t *testing.T) {
	table := map[string]float64{"USD": 1, "EUR": 0.9}
	EnsureUSD(table)
	assert.Equal(t, 1.0, table["USD"])

	table = map[string]float64{"EUR": 0.9}
	EnsureUSD(table)
	assert.Equal(t, 1.0, table["USD"])
}
