package di

import (
	"fmt"

	"StockPulse/internal/handler/api"
	"StockPulse/internal/provider"
	"StockPulse/internal/provider/alphavantage"
	"StockPulse/internal/provider/finnhub"
	"StockPulse/internal/provider/twelvedata"
	"StockPulse/internal/provider/yahoo"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/synthetic"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCache creates the cache backend: in-memory by default, layered over
// Redis when configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
}

// ProvideSyntheticGenerator creates the terminal fallback generator.
func ProvideSyntheticGenerator() *synthetic.Generator {
	return synthetic.New()
}

// ProvideHTTPClient creates the outbound HTTP client shared by the vendor
// adapters.
func ProvideHTTPClient(cfg *config.Config) *phttp.Client {
	return phttp.NewClient(phttp.WithTimeout(cfg.Providers.FetchTimeout))
}

// ProvideSources builds the vendor adapters in the configured fallback order.
// Unknown names in the order list were already rejected by config validation.
func ProvideSources(cfg *config.Config, client *phttp.Client, gen *synthetic.Generator) []provider.Source {
	sources := make([]provider.Source, 0, len(cfg.Providers.Order))
	for _, name := range cfg.Providers.Order {
		switch name {
		case "yahoo":
			sources = append(sources, yahoo.New(cfg.Providers.Yahoo, client))
		case "finnhub":
			sources = append(sources, finnhub.New(cfg.Providers.Finnhub, client, gen))
		case "alphavantage":
			sources = append(sources, alphavantage.New(cfg.Providers.AlphaVantage, client))
		case "twelvedata":
			sources = append(sources, twelvedata.New(cfg.Providers.TwelveData, client))
		}
	}
	return sources
}

// ProvideRateLimiter creates the per-vendor rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideStockUseCase creates the stock resolution use case.
func ProvideStockUseCase(
	cfg *config.Config,
	sources []provider.Source,
	gen *synthetic.Generator,
	cacheSvc cache.Service,
	limiter *ratelimit.Limiter,
	rec *metrics.Recorder,
	log *logger.Logger,
) *usecase.StockUseCase {
	return usecase.NewStockUseCase(cfg, sources, gen, cacheSvc, limiter, rec, log)
}

// ProvideStocksHandler creates the HTTP handler.
func ProvideStocksHandler(cfg *config.Config, log *logger.Logger, stocks *usecase.StockUseCase) phttp.Handler {
	return api.NewStocksHandler(log, stocks, cfg.Providers.Order)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	stocks *usecase.StockUseCase,
	cacheSvc cache.Service,
	handler phttp.Handler,
) *server.App {
	return server.New(cfg, log, stocks, cacheSvc, handler)
}
