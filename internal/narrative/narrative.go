// Package narrative renders rule-based analysis text from a resolved quote
// and its closing-price history. The output is plain English sentences the UI
// shows verbatim; thresholds are fixed product decisions, not tunables.
package narrative

import (
	"fmt"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/indicator"
	"StockPulse/pkg/util"
)

const (
	trendWindow = 8  // bars needed for a week-over-week trend reading
	riskWindow  = 10 // bars needed for a volatility-based risk reading
)

// Trend classifies the change over the last trendWindow closes.
func Trend(closes []float64) string {
	if len(closes) < trendWindow {
		return "Not enough history to determine a trend."
	}

	last := closes[len(closes)-1]
	prior := closes[len(closes)-trendWindow]
	pct := (last - prior) / prior * 100

	switch {
	case pct > 5:
		return fmt.Sprintf("Strong uptrend: up %.1f%% over the past week.", pct)
	case pct > 2:
		return fmt.Sprintf("Mild uptrend: up %.1f%% over the past week.", pct)
	case pct > -2:
		return fmt.Sprintf("Sideways consolidation: %.1f%% over the past week.", pct)
	case pct > -5:
		return fmt.Sprintf("Mild downtrend: down %.1f%% over the past week.", -pct)
	default:
		return fmt.Sprintf("Strong downtrend: down %.1f%% over the past week.", -pct)
	}
}

// Recommendation suggests an action from today's move and traded volume.
// Price targets are expressed relative to the current price.
func Recommendation(data *models.StockData) string {
	price := data.Price
	cp := data.ChangePercent

	switch {
	case cp > 3 && data.Volume > 20_000_000:
		return fmt.Sprintf(
			"Strong momentum with heavy volume. Consider buying; target %.2f-%.2f, stop-loss %.2f.",
			util.Round2(price*1.10), util.Round2(price*1.15), util.Round2(price*0.95))
	case cp > 1:
		return fmt.Sprintf(
			"Moderate upward momentum. Small positions reasonable; target %.2f, stop-loss %.2f.",
			util.Round2(price*1.08), util.Round2(price*0.95))
	case cp < -3:
		return fmt.Sprintf(
			"Sharp decline today. Hold off on new positions; watch support near %.2f.",
			util.Round2(price*0.95))
	default:
		return fmt.Sprintf(
			"No clear signal. Stay neutral; resistance near %.2f.",
			util.Round2(price*1.05))
	}
}

// Risk grades the annualized-feel volatility of recent closes and flags thin
// liquidity.
func Risk(data *models.StockData) string {
	closes := data.History.Closes()
	if len(closes) < riskWindow {
		return "Not enough history to assess risk."
	}

	vol := indicator.Volatility(closes)

	var level string
	switch {
	case vol > 5:
		level = fmt.Sprintf("High risk: daily volatility %.1f%%. Size positions conservatively.", vol)
	case vol > 3:
		level = fmt.Sprintf("Medium risk: daily volatility %.1f%%.", vol)
	default:
		level = fmt.Sprintf("Low risk: daily volatility %.1f%%.", vol)
	}

	if data.Volume < 1_000_000 {
		level += " Note: light trading volume may widen spreads."
	}
	return level
}
