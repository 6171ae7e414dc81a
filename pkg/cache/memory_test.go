package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	want := payload{Symbol: "2330", Price: 625.5}
	if err := mc.Set(ctx, "q:2330", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := mc.Get(ctx, "q:2330", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	var got payload
	if err := mc.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("want ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(WithMemoryClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := mc.Set(ctx, "k", payload{Symbol: "x"}, 5*time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	now = now.Add(4 * time.Minute)
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("want ErrCacheMiss after ttl, got %v", err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(
		WithMemoryMaxSize(2),
		WithMemoryClock(func() time.Time { now = now.Add(time.Second); return now }),
	)
	ctx := context.Background()

	_ = mc.Set(ctx, "a", payload{Symbol: "a"}, time.Hour)
	_ = mc.Set(ctx, "b", payload{Symbol: "b"}, time.Hour)

	// Touch "a" so "b" becomes the LRU entry.
	var got payload
	_ = mc.Get(ctx, "a", &got)

	_ = mc.Set(ctx, "c", payload{Symbol: "c"}, time.Hour)

	if err := mc.Get(ctx, "b", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected b evicted, got %v", err)
	}
	if err := mc.Get(ctx, "a", &got); err != nil {
		t.Fatalf("expected a kept: %v", err)
	}
}
