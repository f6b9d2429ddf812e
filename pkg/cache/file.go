package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// envelope wraps a cached value with its write timestamp. Expiry is checked
// on read so stale entries survive restarts but never get served.
type envelope struct {
	WrittenAt time.Time       `json:"written_at"`
	TTL       time.Duration   `json:"ttl"`
	Value     json.RawMessage `json:"value"`
}

// FileCache implements Store using one JSON file per key under a directory.
type FileCache struct {
	dir   string
	now   func() time.Time
	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

// FileOption configures FileCache.
type FileOption func(*FileCache)

// WithFileClock overrides the time source. Used in tests.
func WithFileClock(now func() time.Time) FileOption {
	return func(fc *FileCache) {
		fc.now = now
	}
}

// NewFileCache creates a file-backed cache rooted at dir.
func NewFileCache(dir string, opts ...FileOption) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	fc := &FileCache{
		dir:   dir,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(fc)
	}

	return fc, nil
}

func (fc *FileCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	data, err := json.Marshal(envelope{
		WrittenAt: fc.now(),
		TTL:       ttl,
		Value:     raw,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	lock := fc.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Write to a temp file and rename so readers never see partial writes.
	path := fc.path(key)
	tmp, err := os.CreateTemp(fc.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename cache file: %w", err)
	}

	return nil
}

func (fc *FileCache) Get(ctx context.Context, key string, dest interface{}) error {
	_, err := fc.GetWithTTL(ctx, key, dest)
	return err
}

// GetWithTTL reads an entry and reports the time left until it expires.
// Zero means the entry has no expiry.
func (fc *FileCache) GetWithTTL(_ context.Context, key string, dest interface{}) (time.Duration, error) {
	lock := fc.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	path := fc.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("read cache file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Corrupt entry, drop it and report a miss.
		os.Remove(path)
		return 0, ErrCacheMiss
	}

	var remaining time.Duration
	if env.TTL > 0 {
		remaining = env.WrittenAt.Add(env.TTL).Sub(fc.now())
		if remaining <= 0 {
			os.Remove(path)
			return 0, ErrCacheMiss
		}
	}

	if err := json.Unmarshal(env.Value, dest); err != nil {
		os.Remove(path)
		return 0, ErrCacheMiss
	}

	return remaining, nil
}

func (fc *FileCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		lock := fc.keyLock(key)
		lock.Lock()
		err := os.Remove(fc.path(key))
		lock.Unlock()
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete cache file: %w", err)
		}
	}
	return nil
}

func (fc *FileCache) Close() error {
	return nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, sanitizeKey(key)+".json")
}

func (fc *FileCache) keyLock(key string) *sync.Mutex {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if l, ok := fc.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	fc.locks[key] = l
	return l
}

// sanitizeKey keeps filenames readable while guaranteeing uniqueness via an
// MD5 suffix of the original key.
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if len(name) > 80 {
		name = name[:80]
	}
	return name + "-" + HashKey(key)
}
