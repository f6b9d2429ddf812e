package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

func TestFileCacheSetGet(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}

	ctx := context.Background()
	in := payload{Ticker: "AAPL", Price: 187.5}
	if err := fc.Set(ctx, "forecast:AAPL:regression:30", in, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := fc.Get(ctx, "forecast:AAPL:regression:30", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestFileCacheMiss(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}

	var out payload
	if err := fc.Get(context.Background(), "absent", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestFileCacheTTLExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	fc, err := NewFileCache(t.TempDir(), WithFileClock(clock))
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}

	ctx := context.Background()
	if err := fc.Set(ctx, "k", payload{Ticker: "MSFT"}, 24*time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	now = now.Add(23 * time.Hour)
	if err := fc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if err := fc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestFileCacheGetWithTTLRemaining(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	fc, err := NewFileCache(t.TempDir(), WithFileClock(clock))
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}

	ctx := context.Background()
	if err := fc.Set(ctx, "k", payload{Ticker: "AAPL"}, 24*time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(23 * time.Hour)
	var out payload
	remaining, err := fc.GetWithTTL(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get with ttl: %v", err)
	}
	if remaining != time.Hour {
		t.Fatalf("remaining = %v, want 1h", remaining)
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	fc, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}

	ctx := context.Background()
	if err := fc.Set(ctx, "k", payload{Ticker: "TSLA"}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %d (%v)", len(entries), err)
	}
	path := filepath.Join(dir, entries[0].Name())
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	var out payload
	if err := fc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for corrupt entry, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("corrupt entry should be removed, stat err: %v", err)
	}
}

func TestFileCacheDelete(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}

	ctx := context.Background()
	if err := fc.Set(ctx, "k", payload{}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := fc.Delete(ctx, "k", "never-existed"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var out payload
	if err := fc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestGenerateKeyWithParams(t *testing.T) {
	got := GenerateKeyWithParams("forecast", "AAPL", "regression", 30)
	if got != "forecast:AAPL:regression:30" {
		t.Fatalf("unexpected key %q", got)
	}
}
