// Package twelvedata adapts the Twelve Data time_series endpoint. Values
// arrive newest-first with string-typed numeric fields and must be reversed
// into chronological order.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/provider"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const (
	defaultBaseURL = "https://api.twelvedata.com"
	sourceLabel    = "TwelveData"

	// TWSE tickers carry the .TPE suffix on Twelve Data.
	symbolSuffix = ".TPE"

	historyDays = 30
)

// Client fetches daily series from the Twelve Data REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *phttp.Client
}

// New creates a Twelve Data adapter.
func New(cfg config.ProviderConfig, httpClient *phttp.Client) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{baseURL: baseURL, apiKey: cfg.APIKey, http: httpClient}
}

// Name implements provider.Source.
func (c *Client) Name() string { return "twelvedata" }

type seriesResponse struct {
	Status  string        `json:"status"`
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Values  []seriesValue `json:"values"`
}

type seriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// Fetch implements provider.Source.
func (c *Client) Fetch(ctx context.Context, symbol string) (*models.StockData, error) {
	resp, err := c.http.SendRequest(ctx, &phttp.RequestOptions{
		URL: fmt.Sprintf("%s/time_series", c.baseURL),
		QueryParams: map[string][]string{
			"symbol":     {symbol + symbolSuffix},
			"interval":   {"1day"},
			"outputsize": {strconv.Itoa(historyDays)},
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

	var payload seriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, provider.MalformedError("decode series payload: %v", err)
	}
	if payload.Status == "error" {
		if payload.Code == http.StatusTooManyRequests {
			return nil, provider.RateLimitedError("%s", payload.Message)
		}
		return nil, provider.MalformedError("api error %d: %s", payload.Code, payload.Message)
	}
	if len(payload.Values) == 0 {
		return nil, provider.MalformedError("payload has no values")
	}

	return c.normalize(symbol, payload.Values)
}

func (c *Client) normalize(symbol string, values []seriesValue) (*models.StockData, error) {
	// Newest-first on the wire; build the history back-to-front.
	history := make(models.Series, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		bar, ok := parseBar(values[i])
		if !ok {
			continue
		}
		history = append(history, bar)
	}
	if len(history) == 0 {
		return nil, provider.ValidationError("no parseable values")
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

func parseBar(v seriesValue) (models.OHLCVBar, bool) {
	date, ok := util.ParseBarDate(v.Datetime)
	if !ok {
		return models.OHLCVBar{}, false
	}
	open, ok1 := util.ParseDecimal(v.Open)
	high, ok2 := util.ParseDecimal(v.High)
	low, ok3 := util.ParseDecimal(v.Low)
	close, ok4 := util.ParseDecimal(v.Close)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.OHLCVBar{}, false
	}
	// Volume is sometimes absent for thin sessions; treat it as zero.
	volume, ok := util.ParseDecimal(v.Volume)
	if !ok {
		volume = 0
	}
	return models.OHLCVBar{
		Date:   util.FormatBarDate(date),
		Open:   util.Round2(open),
		High:   util.Round2(high),
		Low:    util.Round2(low),
		Close:  util.Round2(close),
		Volume: int64(volume),
	}, true
}
