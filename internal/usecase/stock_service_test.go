package usecase

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/provider"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/synthetic"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
)

// promauto registers on the default registry, so the whole test binary shares
// one recorder.
var testRecorder = metrics.New()

type fakeSource struct {
	name  string
	calls int32
	fetch func(ctx context.Context, symbol string) (*models.StockData, error)
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, symbol string) (*models.StockData, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fetch(ctx, symbol)
}

func (f *fakeSource) Calls() int32 { return atomic.LoadInt32(&f.calls) }

func fiveBarData(symbol, label string) *models.StockData {
	return &models.StockData{
		Symbol: symbol,
		Name:   models.StockName(symbol),
		Price:  103,
		Volume: 1_000_000,
		History: models.Series{
			{Date: "2025-03-03", Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000},
			{Date: "2025-03-04", Open: 100, High: 102, Low: 100, Close: 101, Volume: 1100},
			{Date: "2025-03-05", Open: 101, High: 101, Low: 98, Close: 99, Volume: 1200},
			{Date: "2025-03-06", Open: 99, High: 103, Low: 99, Close: 102, Volume: 1300},
			{Date: "2025-03-07", Open: 102, High: 104, Low: 101, Close: 103, Volume: 1400},
		},
		DataSource: label,
		Timestamp:  time.Date(2025, time.March, 7, 14, 0, 0, 0, time.UTC),
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Cache.TTL = 5 * time.Minute
	cfg.Providers.FetchTimeout = 500 * time.Millisecond
	cfg.Providers.Yahoo.Enabled = true
	cfg.Providers.Finnhub.Enabled = true
	cfg.Providers.AlphaVantage.Enabled = true
	cfg.Providers.TwelveData.Enabled = true
	return cfg
}

func testClock(at *time.Time, mu *sync.Mutex) func() time.Time {
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return *at
	}
}

func newTestUseCase(cfg *config.Config, cacheSvc cache.Service, sources ...provider.Source) *StockUseCase {
	gen := synthetic.New(
		synthetic.WithRand(rand.New(rand.NewSource(7))),
		synthetic.WithClock(func() time.Time {
			return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
		}),
	)
	return NewStockUseCase(cfg, sources, gen, cacheSvc, ratelimit.New(), testRecorder, logger.Nop())
}

// Scenario: the first vendor fails, the second returns a valid series. The
// result must carry the second vendor's label and its bars untouched.
func TestGetStockDataFallsThroughToSecondVendor(t *testing.T) {
	failing := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return nil, provider.NetworkError(context.DeadlineExceeded)
	}}
	working := &fakeSource{name: "finnhub", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Finnhub"), nil
	}}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), failing, working)

	data, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, "Finnhub", data.DataSource)
	require.Equal(t, int32(1), failing.Calls())
	require.Equal(t, int32(1), working.Calls())

	wantCloses := []float64{100, 101, 99, 102, 103}
	require.Len(t, data.History, len(wantCloses))
	for i, want := range wantCloses {
		require.Equal(t, want, data.History[i].Close)
	}
}

// Scenario: every vendor fails. The synthetic generator answers with a price
// anchored near the symbol's reference price.
func TestGetStockDataSyntheticFallback(t *testing.T) {
	down := func(ctx context.Context, symbol string) (*models.StockData, error) {
		return nil, provider.NetworkError(context.DeadlineExceeded)
	}
	v1 := &fakeSource{name: "yahoo", fetch: down}
	v2 := &fakeSource{name: "finnhub", fetch: down}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), v1, v2)

	data, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, models.SyntheticSource, data.DataSource)

	// anchor 625, volatility 0.03 -> price within anchor * (1 +/- 3*vol)
	require.GreaterOrEqual(t, data.Price, 625*(1-3*0.03))
	require.LessOrEqual(t, data.Price, 625*(1+3*0.03))
	require.NotEmpty(t, data.History)
}

// Scenario: two concurrent calls for the same uncached symbol trigger exactly
// one vendor fetch.
func TestGetStockDataDeduplicatesConcurrentFetches(t *testing.T) {
	src := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		time.Sleep(50 * time.Millisecond) // hold the flight open
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), src)

	var wg sync.WaitGroup
	results := make([]*models.StockData, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.GetStockData(context.Background(), "2330")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	require.Equal(t, int32(1), src.Calls())
	require.Equal(t, results[0].Price, results[1].Price)
	require.Equal(t, results[0].DataSource, results[1].DataSource)
}

// Within the TTL a second call is served from cache; after expiry the vendor
// is consulted again.
func TestGetStockDataCacheTTL(t *testing.T) {
	src := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}

	var mu sync.Mutex
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	cacheSvc := cache.NewMemoryCache(cache.WithMemoryClock(testClock(&now, &mu)))

	uc := newTestUseCase(testConfig(), cacheSvc, src)

	first, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, int32(1), src.Calls())

	second, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, int32(1), src.Calls(), "fresh entry must not trigger a vendor call")
	require.Equal(t, first.Price, second.Price)
	require.Equal(t, first.DataSource, second.DataSource)
	require.Equal(t, first.History, second.History)

	mu.Lock()
	now = now.Add(5*time.Minute + time.Second)
	mu.Unlock()

	_, err = uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, int32(2), src.Calls(), "expired entry must refetch")
}

func TestGetStockDataCanceledContext(t *testing.T) {
	src := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.GetStockData(ctx, "2330")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int32(0), src.Calls())
}

func TestGetStockDataSkipsDisabledVendor(t *testing.T) {
	disabled := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}
	enabled := &fakeSource{name: "finnhub", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Finnhub"), nil
	}}

	cfg := testConfig()
	cfg.Providers.Yahoo.Enabled = false

	uc := newTestUseCase(cfg, cache.NewMemoryCache(), disabled, enabled)

	data, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, "Finnhub", data.DataSource)
	require.Equal(t, int32(0), disabled.Calls())
}

func TestGetStockDataRateLimitGate(t *testing.T) {
	limited := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}
	backup := &fakeSource{name: "finnhub", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Finnhub"), nil
	}}

	cfg := testConfig()
	cfg.Providers.Yahoo.RatePerMinute = 60
	cfg.Providers.Yahoo.Burst = 1

	uc := newTestUseCase(cfg, cache.NewMemoryCache(), limited, backup)

	// First resolution consumes yahoo's only token.
	data, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, "Yahoo Finance", data.DataSource)

	// A different symbol resolves immediately after; yahoo's bucket is empty
	// so the chain advances to finnhub without calling yahoo.
	data, err = uc.GetStockData(context.Background(), "2454")
	require.NoError(t, err)
	require.Equal(t, "Finnhub", data.DataSource)
	require.Equal(t, int32(1), limited.Calls())
}

func TestInvalidateSymbolForcesRefetch(t *testing.T) {
	src := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), src)

	_, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.NoError(t, uc.InvalidateSymbol(context.Background(), "2330"))

	_, err = uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, int32(2), src.Calls())
}

func TestGetAnalysisAlignsWithHistory(t *testing.T) {
	src := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), src)

	analysis, err := uc.GetAnalysis(context.Background(), "2330")
	require.NoError(t, err)

	require.Equal(t, "2330", analysis.Symbol)
	require.Equal(t, "Yahoo Finance", analysis.DataSource)
	require.Len(t, analysis.Dates, 5)
	require.Len(t, analysis.SMA5, 5)
	require.Len(t, analysis.SMA20, 5)
	require.Len(t, analysis.RSI, 5)
	require.Len(t, analysis.MACD.MACD, 5)
	require.Len(t, analysis.Bollinger.Middle, 5)

	// 5 bars: not enough for a trend (8) or risk (10) reading.
	require.Contains(t, analysis.Trend, "Not enough history")
	require.Contains(t, analysis.Risk, "Not enough history")
	require.NotEmpty(t, analysis.Advice)
}

func TestWarmPrimesCache(t *testing.T) {
	src := &fakeSource{name: "yahoo", fetch: func(ctx context.Context, symbol string) (*models.StockData, error) {
		return fiveBarData(symbol, "Yahoo Finance"), nil
	}}

	uc := newTestUseCase(testConfig(), cache.NewMemoryCache(), src)
	uc.Warm(context.Background(), []string{"2330", "2454"})
	require.Equal(t, int32(2), src.Calls())

	// Warmed symbols are now cache hits.
	_, err := uc.GetStockData(context.Background(), "2330")
	require.NoError(t, err)
	require.Equal(t, int32(2), src.Calls())
}
