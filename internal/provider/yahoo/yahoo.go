// Package yahoo adapts the Yahoo Finance chart endpoint. It is the richest of
// the vendors: a real daily history with parallel OHLCV arrays, so it sits
// first in the default fallback order.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/provider"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	sourceLabel    = "Yahoo Finance"

	// TWSE tickers carry the .TW suffix on Yahoo.
	symbolSuffix = ".TW"
)

// Client fetches quotes and history from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	http    *phttp.Client
}

// New creates a Yahoo adapter.
func New(cfg config.ProviderConfig, httpClient *phttp.Client) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Name implements provider.Source.
func (c *Client) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		PreviousClose      float64 `json:"previousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteBlock `json:"quote"`
	} `json:"indicators"`
}

// Array entries are pointers: Yahoo fills untraded slots with null.
type quoteBlock struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// Fetch implements provider.Source.
func (c *Client) Fetch(ctx context.Context, symbol string) (*models.StockData, error) {
	resp, err := c.http.SendRequest(ctx, &phttp.RequestOptions{
		URL: fmt.Sprintf("%s/v8/finance/chart/%s%s", c.baseURL, symbol, symbolSuffix),
		QueryParams: map[string][]string{
			"range":    {"1mo"},
			"interval": {"1d"},
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

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, provider.MalformedError("decode chart payload: %v", err)
	}
	if payload.Chart.Error != nil {
		return nil, provider.MalformedError("chart error %s: %s",
			payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, provider.MalformedError("chart payload has no result")
	}

	return c.normalize(symbol, &payload.Chart.Result[0])
}

func (c *Client) normalize(symbol string, result *chartResult) (*models.StockData, error) {
	quotes := result.Indicators.Quote[0]
	price := result.Meta.RegularMarketPrice
	change, changePercent := provider.ChangeFrom(price, result.Meta.PreviousClose)

	var (
		open        float64
		high        float64
		low         float64
		totalVolume int64
		haveRange   bool
	)
	for i := range result.Timestamp {
		if v := at(quotes.Open, i); v != nil {
			open = *v
		}
		h, l := at(quotes.High, i), at(quotes.Low, i)
		if h != nil && l != nil {
			if !haveRange {
				high, low = *h, *l
				haveRange = true
			} else {
				if *h > high {
					high = *h
				}
				if *l < low {
					low = *l
				}
			}
		}
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			totalVolume += *quotes.Volume[i]
		}
	}

	history := make(models.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, cl := at(quotes.Open, i), at(quotes.High, i), at(quotes.Low, i), at(quotes.Close, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}
		var volume int64
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			volume = *quotes.Volume[i]
		}
		history = append(history, models.OHLCVBar{
			Date:   util.FormatBarDate(time.Unix(ts, 0).UTC()),
			Open:   util.Round2(*o),
			High:   util.Round2(*h),
			Low:    util.Round2(*l),
			Close:  util.Round2(*cl),
			Volume: volume,
		})
	}

	data := &models.StockData{
		Symbol:        symbol,
		Name:          models.StockName(symbol),
		Price:         util.Round2(price),
		Change:        change,
		ChangePercent: changePercent,
		Open:          util.Round2(open),
		High:          util.Round2(high),
		Low:           util.Round2(low),
		Volume:        totalVolume,
		History:       history,
		DataSource:    sourceLabel,
		Timestamp:     time.Now(),
	}
	if err := provider.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
