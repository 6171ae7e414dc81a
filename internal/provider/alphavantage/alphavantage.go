// Package alphavantage adapts the Alpha Vantage TIME_SERIES_DAILY endpoint.
// Numeric fields arrive as strings, sometimes with thousands separators, and
// the map keys are date strings that need chronological sorting.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/provider"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const (
	defaultBaseURL = "https://www.alphavantage.co"
	sourceLabel    = "Alpha Vantage"

	// TWSE tickers carry the .TPE suffix on Alpha Vantage.
	symbolSuffix = ".TPE"

	historyDays = 30
)

// Client fetches daily series from the Alpha Vantage REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *phttp.Client
}

// New creates an Alpha Vantage adapter.
func New(cfg config.ProviderConfig, httpClient *phttp.Client) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{baseURL: baseURL, apiKey: cfg.APIKey, http: httpClient}
}

// Name implements provider.Source.
func (c *Client) Name() string { return "alphavantage" }

type dailyResponse struct {
	// Note is how Alpha Vantage communicates free-tier throttling, with a
	// 200 status.
	Note         string                       `json:"Note"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// Fetch implements provider.Source.
func (c *Client) Fetch(ctx context.Context, symbol string) (*models.StockData, error) {
	resp, err := c.http.SendRequest(ctx, &phttp.RequestOptions{
		URL: fmt.Sprintf("%s/query", c.baseURL),
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY"},
			"symbol":     {symbol + symbolSuffix},
			"outputsize": {"compact"},
			"apikey":     {c.apiKey},
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

	var payload dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, provider.MalformedError("decode daily payload: %v", err)
	}
	if payload.Note != "" {
		return nil, provider.RateLimitedError("%s", payload.Note)
	}
	if payload.ErrorMessage != "" {
		return nil, provider.MalformedError("%s", payload.ErrorMessage)
	}
	if len(payload.TimeSeries) == 0 {
		return nil, provider.MalformedError("payload has no time series")
	}

	return c.normalize(symbol, payload.TimeSeries)
}

func (c *Client) normalize(symbol string, series map[string]map[string]string) (*models.StockData, error) {
	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > historyDays {
		dates = dates[len(dates)-historyDays:]
	}

	history := make(models.Series, 0, len(dates))
	for _, date := range dates {
		bar, ok := parseBar(date, series[date])
		if !ok {
			continue
		}
		history = append(history, bar)
	}
	if len(history) == 0 {
		return nil, provider.ValidationError("no parseable bars")
	}

	latest := history[len(history)-1]
	var change, changePercent float64
	if len(history) > 1 {
		change, changePercent = provider.ChangeFrom(latest.Close, history[len(history)-2].Close)
	}

	data := &models.StockData{
		Symbol:        symbol,
		Name:          models.StockName(symbol),
		Price:         latest.Close,
		Change:        change,
		ChangePercent: changePercent,
		Open:          latest.Open,
		High:          latest.High,
		Low:           latest.Low,
		Volume:        latest.Volume,
		History:       history,
		DataSource:    sourceLabel,
		Timestamp:     time.Now(),
	}
	if err := provider.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// parseBar parses one dated entry; any missing or unparseable field drops the
// whole bar.
func parseBar(date string, fields map[string]string) (models.OHLCVBar, bool) {
	open, ok1 := util.ParseDecimal(fields["1. open"])
	high, ok2 := util.ParseDecimal(fields["2. high"])
	low, ok3 := util.ParseDecimal(fields["3. low"])
	close, ok4 := util.ParseDecimal(fields["4. close"])
	volume, ok5 := util.ParseDecimal(fields["5. volume"])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return models.OHLCVBar{}, false
	}
	return models.OHLCVBar{
		Date:   date,
		Open:   util.Round2(open),
		High:   util.Round2(high),
		Low:    util.Round2(low),
		Close:  util.Round2(close),
		Volume: int64(volume),
	}, true
}
