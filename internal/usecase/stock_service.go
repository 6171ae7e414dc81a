// Package usecase holds the business logic that ties the provider chain,
// cache, and analysis engines together.
package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/indicator"
	"StockPulse/internal/narrative"
	"StockPulse/internal/provider"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/synthetic"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
)

const (
	smaShortPeriod  = 5
	smaLongPeriod   = 20
	emaFastPeriod   = 12
	emaSlowPeriod   = 26
	rsiPeriod       = 14
	bollingerPeriod = 20
	bollingerWidth  = 2
)

// StockUseCase resolves symbols through the vendor fallback chain and derives
// analysis from the resolved data. GetStockData can only fail on context
// cancellation: the synthetic generator is a terminal provider that always
// succeeds.
type StockUseCase struct {
	cfg     *config.Config
	sources []provider.Source
	gen     *synthetic.Generator
	cache   cache.Service
	limiter *ratelimit.Limiter
	rec     *metrics.Recorder
	log     *logger.Logger

	// group coalesces concurrent fetches for the same symbol into one
	// outbound resolution.
	group singleflight.Group
}

// NewStockUseCase creates the use case. sources must already be in fallback
// priority order.
func NewStockUseCase(
	cfg *config.Config,
	sources []provider.Source,
	gen *synthetic.Generator,
	cacheSvc cache.Service,
	limiter *ratelimit.Limiter,
	rec *metrics.Recorder,
	log *logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		cfg:     cfg,
		sources: sources,
		gen:     gen,
		cache:   cacheSvc,
		limiter: limiter,
		rec:     rec,
		log:     log,
	}
}

func cacheKey(symbol string) string {
	return "stock:" + symbol
}

// GetStockData returns the quote + history for a symbol, from cache when
// fresh, otherwise from the first vendor that produces usable data, and from
// the synthetic generator when every vendor fails.
func (uc *StockUseCase) GetStockData(ctx context.Context, symbol string) (*models.StockData, error) {
	start := time.Now()
	key := cacheKey(symbol)

	var cached models.StockData
	err := uc.cache.Get(ctx, key, &cached)
	if err == nil {
		uc.rec.RecordCacheLookup("hit")
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("cache read failed",
			logger.String("symbol", symbol),
			logger.Error(err))
	}
	uc.rec.RecordCacheLookup("miss")

	v, err, _ := uc.group.Do(symbol, func() (interface{}, error) {
		// A previous flight may have landed between our miss and now.
		var again models.StockData
		if err := uc.cache.Get(ctx, key, &again); err == nil {
			return &again, nil
		}
		return uc.resolve(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}

	data := v.(*models.StockData)
	uc.rec.RecordLastPrice(symbol, data.Price)
	uc.rec.RecordFetchDuration(data.DataSource, time.Since(start).Seconds())
	return data, nil
}

// resolve walks the vendor chain sequentially. Every vendor failure is logged
// and swallowed; only caller cancellation aborts the chain.
func (uc *StockUseCase) resolve(ctx context.Context, symbol string) (*models.StockData, error) {
	for _, src := range uc.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := src.Name()
		pc := uc.cfg.Provider(name)
		if !pc.Enabled {
			continue
		}

		if pc.RatePerMinute > 0 {
			capacity := pc.Burst
			if capacity < 1 {
				capacity = 1
			}
			if !uc.limiter.Allow(name, capacity, pc.RatePerMinute/60) {
				uc.rec.RecordFetchAttempt(name, "rate_limited")
				uc.log.Warn("vendor skipped, local rate limit empty",
					logger.String("symbol", symbol),
					logger.String("provider", name))
				continue
			}
		}

		fctx, cancel := context.WithTimeout(ctx, uc.cfg.Providers.FetchTimeout)
		data, err := src.Fetch(fctx, symbol)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			uc.rec.RecordFetchAttempt(name, provider.Classify(err))
			uc.log.Warn("vendor fetch failed",
				logger.String("symbol", symbol),
				logger.String("provider", name),
				logger.String("class", provider.Classify(err)),
				logger.Error(err))
			continue
		}

		uc.rec.RecordFetchAttempt(name, "success")
		uc.log.Info("vendor fetch succeeded",
			logger.String("symbol", symbol),
			logger.String("provider", name),
			logger.Int("bars", len(data.History)))
		uc.store(ctx, symbol, data)
		return data, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := uc.gen.Generate(symbol, synthetic.DefaultDays)
	uc.rec.RecordFallback(symbol)
	uc.log.Info("all vendors failed, serving synthetic data",
		logger.String("symbol", symbol))
	uc.store(ctx, symbol, data)
	return data, nil
}

func (uc *StockUseCase) store(ctx context.Context, symbol string, data *models.StockData) {
	if err := uc.cache.Set(ctx, cacheKey(symbol), data, uc.cfg.Cache.TTL); err != nil {
		uc.log.Warn("cache write failed",
			logger.String("symbol", symbol),
			logger.Error(err))
	}
}

// GetAnalysis resolves the symbol and computes the full indicator + narrative
// view over its history.
func (uc *StockUseCase) GetAnalysis(ctx context.Context, symbol string) (*models.Analysis, error) {
	data, err := uc.GetStockData(ctx, symbol)
	if err != nil {
		return nil, err
	}

	closes := data.History.Closes()
	dates := make([]string, len(data.History))
	for i, bar := range data.History {
		dates[i] = bar.Date
	}

	return &models.Analysis{
		Symbol:     data.Symbol,
		Name:       data.Name,
		Dates:      dates,
		SMA5:       indicator.SMA(closes, smaShortPeriod),
		SMA20:      indicator.SMA(closes, smaLongPeriod),
		EMA12:      indicator.EMA(closes, emaFastPeriod),
		EMA26:      indicator.EMA(closes, emaSlowPeriod),
		MACD:       indicator.MACD(closes),
		RSI:        indicator.RSI(closes, rsiPeriod),
		Bollinger:  indicator.Bollinger(closes, bollingerPeriod, bollingerWidth),
		Volatility: indicator.Volatility(closes),
		Trend:      narrative.Trend(closes),
		Advice:     narrative.Recommendation(data),
		Risk:       narrative.Risk(data),
		DataSource: data.DataSource,
	}, nil
}

// InvalidateSymbol drops a symbol's cached entry so the next request refetches.
func (uc *StockUseCase) InvalidateSymbol(ctx context.Context, symbol string) error {
	return uc.cache.Delete(ctx, cacheKey(symbol))
}

// Warm resolves the configured symbols up front so first page loads hit the
// cache. Failures are logged and skipped.
func (uc *StockUseCase) Warm(ctx context.Context, symbols []string) {
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}
		if _, err := uc.GetStockData(ctx, symbol); err != nil {
			uc.log.Warn("warm-up fetch failed",
				logger.String("symbol", symbol),
				logger.Error(err))
		}
	}
}
