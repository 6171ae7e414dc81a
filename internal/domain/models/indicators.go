package models

import (
	"bytes"
	"math"
	"strconv"
)

// FloatSeries is an indicator value sequence aligned index-for-index with its
// source series. Warm-up entries that cannot be computed yet hold NaN and
// marshal to JSON null.
type FloatSeries []float64

// Undefined is the sentinel for an indicator entry with no value.
func Undefined() float64 { return math.NaN() }

// IsDefined reports whether an indicator entry holds a value.
func IsDefined(v float64) bool { return !math.IsNaN(v) }

// MarshalJSON renders NaN entries as null so chart consumers can skip them.
func (s FloatSeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.Write(strconv.AppendFloat(nil, v, 'f', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// BollingerBands holds the three aligned Bollinger series.
type BollingerBands struct {
	Upper  FloatSeries `json:"upper"`
	Middle FloatSeries `json:"middle"`
	Lower  FloatSeries `json:"lower"`
}

// MACDResult holds the MACD line, its signal line, and the histogram.
type MACDResult struct {
	MACD      FloatSeries `json:"macd"`
	Signal    FloatSeries `json:"signal"`
	Histogram FloatSeries `json:"histogram"`
}

// Analysis is the derived view served alongside a quote: chart overlays plus
// rule-based narrative text.
type Analysis struct {
	Symbol     string         `json:"symbol"`
	Name       string         `json:"name"`
	Dates      []string       `json:"dates"`
	SMA5       FloatSeries    `json:"sma5"`
	SMA20      FloatSeries    `json:"sma20"`
	EMA12      FloatSeries    `json:"ema12"`
	EMA26      FloatSeries    `json:"ema26"`
	MACD       MACDResult     `json:"macd"`
	RSI        FloatSeries    `json:"rsi"`
	Bollinger  BollingerBands `json:"bollinger"`
	Volatility float64        `json:"volatility"`
	Trend      string         `json:"trend"`
	Advice     string         `json:"advice"`
	Risk       string         `json:"risk"`
	DataSource string         `json:"dataSource"`
}
