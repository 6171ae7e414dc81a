// Package synthetic produces plausible price data when no vendor is
// reachable. The walk is driven by an injectable random source and clock so
// tests can pin exact output; production seeds from wall-clock time.
package synthetic

import (
	"math"
	"math/rand"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// DefaultDays is the history length generated when none is requested.
const DefaultDays = 30

// Anchor is the per-symbol starting point for a generated walk.
type Anchor struct {
	Price      float64
	Volatility float64
}

// defaultAnchors holds reference prices for the symbols the product ships
// with. Unknown symbols fall back to 100 at 3% volatility.
var defaultAnchors = map[string]Anchor{
	"2330": {Price: 625, Volatility: 0.03},
	"2454": {Price: 890, Volatility: 0.04},
	"2317": {Price: 112, Volatility: 0.025},
	"2412": {Price: 123, Volatility: 0.02},
	"0050": {Price: 145, Volatility: 0.015},
	"0056": {Price: 32, Volatility: 0.02},
}

var fallbackAnchor = Anchor{Price: 100, Volatility: 0.03}

// Generator builds synthetic quotes and histories.
type Generator struct {
	rng     *rand.Rand
	now     func() time.Time
	anchors map[string]Anchor
}

// Option configures Generator.
type Option func(*Generator)

// WithRand injects a seeded random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithClock injects a clock.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithAnchors replaces the built-in anchor table.
func WithAnchors(anchors map[string]Anchor) Option {
	return func(g *Generator) {
		g.anchors = anchors
	}
}

// New creates a Generator seeded from the wall clock unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		anchors: defaultAnchors,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Anchor returns the anchor for a symbol, or the fallback for unknown ones.
func (g *Generator) Anchor(symbol string) Anchor {
	if a, ok := g.anchors[symbol]; ok {
		return a
	}
	return fallbackAnchor
}

// Generate produces a full synthetic quote + history for a symbol.
// It cannot fail.
func (g *Generator) Generate(symbol string, days int) *models.StockData {
	if days <= 0 {
		days = DefaultDays
	}
	base := g.Anchor(symbol)
	now := g.now()

	// Market hours nudge the spread of the simulated move.
	marketInfluence := 0.8
	if h := now.Hour(); h >= 9 && h <= 13 {
		marketInfluence = 1.2
	}

	timeVariation := math.Sin(float64(now.UnixMilli())/1e6) * 0.01
	randomVariation := (g.rng.Float64() - 0.5) * base.Volatility
	priceChange := (timeVariation + randomVariation) * base.Price * marketInfluence
	currentPrice := base.Price + priceChange

	return &models.StockData{
		Symbol:        symbol,
		Name:          models.StockName(symbol),
		Price:         util.Round2(currentPrice),
		Change:        util.Round2(priceChange),
		ChangePercent: util.Round2(priceChange / base.Price * 100),
		Open:          util.Round2(base.Price - priceChange*0.3),
		High:          util.Round2(currentPrice + math.Abs(priceChange*0.5)),
		Low:           util.Round2(currentPrice - math.Abs(priceChange*0.7)),
		Volume:        int64((g.rng.Float64()*0.5 + 0.5) * 50_000_000),
		History:       g.Walk(base.Price, base.Volatility, days),
		DataSource:    models.SyntheticSource,
		Timestamp:     now,
	}
}

// History generates a walk for a symbol using its anchor.
func (g *Generator) History(symbol string, days int) models.Series {
	base := g.Anchor(symbol)
	return g.Walk(base.Price, base.Volatility, days)
}

// Walk generates a random walk of daily bars ending today, starting slightly
// below the base price. Weekend dates carry the previous close with zero
// volume; a weekend with no prior bar is skipped entirely.
func (g *Generator) Walk(basePrice, volatility float64, days int) models.Series {
	if days <= 0 {
		days = DefaultDays
	}
	series := make(models.Series, 0, days)
	price := basePrice * 0.95
	today := g.now()

	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)

		if util.IsWeekend(date) {
			if len(series) == 0 {
				continue
			}
			last := series[len(series)-1]
			series = append(series, models.OHLCVBar{
				Date:   util.FormatBarDate(date),
				Open:   last.Close,
				High:   last.Close,
				Low:    last.Close,
				Close:  last.Close,
				Volume: 0,
			})
			continue
		}

		// A slow sinusoid over the window imposes a mild multi-day trend so
		// trend classification sees something other than noise.
		trendFactor := math.Sin(float64(i)/float64(days)*2*math.Pi) * 0.01
		dailyChange := ((g.rng.Float64()-0.5)*volatility + trendFactor) * price

		open := price
		close := open + dailyChange

		intraday := math.Abs(dailyChange) * (0.5 + g.rng.Float64()*1.5)
		high := math.Max(open, close) + intraday
		low := math.Min(open, close) - intraday

		volumeScale := math.Abs(dailyChange/price)*2 + 0.5
		volume := int64(20_000_000 * volumeScale * (0.5 + g.rng.Float64()))

		series = append(series, models.OHLCVBar{
			Date:   util.FormatBarDate(date),
			Open:   util.Round2(open),
			High:   util.Round2(high),
			Low:    util.Round2(low),
			Close:  util.Round2(close),
			Volume: volume,
		})

		price = close
	}

	return series
}
