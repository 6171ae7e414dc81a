package models

import (
	"fmt"
	"time"
)

// OHLCVBar is one trading day of price history.
type OHLCVBar struct {
	Date   string  `json:"date"` // calendar date, YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Series is an ordered sequence of daily bars, strictly ascending by date
// with no duplicates.
type Series []OHLCVBar

// Closes extracts the closing prices in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Validate checks the series ordering invariant.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if s[i].Date <= s[i-1].Date {
			return fmt.Errorf("series not strictly ascending at index %d: %s after %s", i, s[i].Date, s[i-1].Date)
		}
	}
	return nil
}

// StockData is the canonical quote + history pair resolved for a symbol.
// This is the shape returned to the UI layer.
type StockData struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Volume        int64     `json:"volume"`
	History       Series    `json:"history"`
	DataSource    string    `json:"dataSource"`
	Timestamp     time.Time `json:"timestamp"`
}

// SyntheticSource labels data produced by the fallback generator.
const SyntheticSource = "synthetic"

// stockNames maps TWSE tickers to company names.
var stockNames = map[string]string{
	"2330": "TSMC",
	"2454": "MediaTek",
	"2317": "Hon Hai",
	"2412": "Chunghwa Telecom",
	"0050": "Yuanta Taiwan 50",
	"0056": "Yuanta High Dividend",
	"2303": "UMC",
	"2308": "Delta Electronics",
	"2881": "Fubon Financial",
	"2882": "Cathay Financial",
	"2886": "Mega Financial",
	"6505": "Formosa Petrochemical",
	"2002": "China Steel",
	"1301": "Formosa Plastics",
	"1303": "Nan Ya Plastics",
	"2891": "CTBC Financial",
	"2892": "First Financial",
	"5880": "TCB Financial",
	"2409": "AUO",
	"3008": "Largan Precision",
}

// StockName returns the display name for a symbol, falling back to a generic
// label for unknown tickers.
func StockName(symbol string) string {
	if name, ok := stockNames[symbol]; ok {
		return name
	}
	return fmt.Sprintf("Stock %s", symbol)
}
