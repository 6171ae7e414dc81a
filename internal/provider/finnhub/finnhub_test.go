package finnhub_test

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockPulse/internal/provider"
	"StockPulse/internal/provider/finnhub"
	"StockPulse/internal/synthetic"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
)

func newClient(t *testing.T, handler http.HandlerFunc) *finnhub.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gen := synthetic.New(
		synthetic.WithRand(rand.New(rand.NewSource(1))),
		synthetic.WithClock(func() time.Time {
			return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
		}),
	)
	return finnhub.New(config.ProviderConfig{BaseURL: srv.URL, APIKey: "test-key"}, phttp.NewClient(), gen)
}

func TestFetchNormalizesQuote(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/quote", r.URL.Path)
		require.Equal(t, "2330", r.URL.Query().Get("symbol"))
		require.Equal(t, "test-key", r.URL.Query().Get("token"))
		w.Write([]byte(`{"c": 625.5, "d": 5.5, "dp": 0.89, "o": 620.0, "h": 627.0, "l": 618.0, "t": 1741737600}`))
	})

	data, err := client.Fetch(context.Background(), "2330")
	require.NoError(t, err)

	require.Equal(t, "Finnhub", data.DataSource)
	require.InDelta(t, 625.5, data.Price, 1e-9)
	require.InDelta(t, 5.5, data.Change, 1e-9)
	require.InDelta(t, 0.89, data.ChangePercent, 1e-9)
	require.Equal(t, int64(0), data.Volume)

	// The quote endpoint has no history; a 30-day backfill stands in.
	require.NotEmpty(t, data.History)
	require.NoError(t, data.History.Validate())
	for _, bar := range data.History {
		require.Greater(t, bar.Close, 0.0)
	}
}

func TestFetchZeroQuoteRejected(t *testing.T) {
	// Finnhub answers unknown symbols with an all-zero quote.
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 0, "d": 0, "dp": 0, "o": 0, "h": 0, "l": 0, "t": 0}`))
	})

	_, err := client.Fetch(context.Background(), "9999")
	require.ErrorIs(t, err, provider.ErrValidation)
}

func TestFetchRateLimited(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Fetch(context.Background(), "2330")
	require.ErrorIs(t, err, provider.ErrRateLimited)
}

func TestFetchMalformedBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.Fetch(context.Background(), "2330")
	require.ErrorIs(t, err, provider.ErrMalformedResponse)
}
