// Package indicator computes technical-analysis overlays from closing-price
// sequences. Every function is pure: input slices are never mutated and the
// output is aligned index-for-index with the input, using NaN for warm-up
// entries that cannot be computed yet.
package indicator

import (
	"math"

	"StockPulse/internal/domain/models"
)

// Fixed MACD periods; these are the conventional values and not configurable.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// SMA returns the simple moving average over the trailing window. Entries at
// indices < period-1 are undefined.
func SMA(prices []float64, period int) models.FloatSeries {
	out := make(models.FloatSeries, len(prices))
	if period <= 0 {
		for i := range out {
			out[i] = models.Undefined()
		}
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i < period-1 {
			out[i] = models.Undefined()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average seeded with the first price.
// Unlike the windowed indicators it is defined from index 0.
func EMA(prices []float64, period int) models.FloatSeries {
	out := make(models.FloatSeries, len(prices))
	if len(prices) == 0 {
		return out
	}

	k := 2.0 / float64(period+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACD returns the 12/26 EMA difference, its 9-period signal line, and the
// histogram between them.
func MACD(prices []float64) models.MACDResult {
	fast := EMA(prices, macdFastPeriod)
	slow := EMA(prices, macdSlowPeriod)

	macd := make(models.FloatSeries, len(prices))
	for i := range prices {
		macd[i] = fast[i] - slow[i]
	}

	signal := EMA(macd, macdSignalPeriod)

	hist := make(models.FloatSeries, len(prices))
	for i := range prices {
		hist[i] = macd[i] - signal[i]
	}

	return models.MACDResult{MACD: macd, Signal: signal, Histogram: hist}
}

// RSI returns the relative strength index over simple-mean gain/loss windows.
// The first defined entry is at index `period`: index 0 has no preceding
// delta and the window itself needs period deltas.
func RSI(prices []float64, period int) models.FloatSeries {
	out := make(models.FloatSeries, len(prices))
	for i := range out {
		out[i] = models.Undefined()
	}
	if period <= 0 || len(prices) < 2 {
		return out
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	for i := period - 1; i < len(gains); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		// +1 compensates for the missing delta before the first price.
		if avgLoss == 0 {
			out[i+1] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i+1] = 100 - 100/(1+rs)
	}
	return out
}

// Bollinger returns the period-SMA middle band with upper/lower bands k
// population standard deviations away. Undefined wherever the SMA is.
func Bollinger(prices []float64, period int, k float64) models.BollingerBands {
	middle := SMA(prices, period)
	upper := make(models.FloatSeries, len(prices))
	lower := make(models.FloatSeries, len(prices))

	for i := range prices {
		if !models.IsDefined(middle[i]) {
			upper[i] = models.Undefined()
			lower[i] = models.Undefined()
			continue
		}
		mean := middle[i]
		var sumSq float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - mean
			sumSq += d * d
		}
		sd := math.Sqrt(sumSq / float64(period))
		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
	}

	return models.BollingerBands{Upper: upper, Middle: middle, Lower: lower}
}

// Volatility returns the population standard deviation of day-over-day simple
// returns, as a percentage. Zero when fewer than two prices exist.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * 100
}
