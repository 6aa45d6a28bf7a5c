package marketdata

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PriceCache stores recent quotes keyed by symbol.
type PriceCache interface {
	// Get returns false when there is no live entry for symbol.
	Get(ctx context.Context, symbol string) (Quote, bool, error)
	Set(ctx context.Context, quote Quote, ttl time.Duration) error
}

// RedisConfig selects the redis instance used as a shared quote cache.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db" validate:"gte=0"`
	KeyPrefix string        `yaml:"key_prefix" default:"dekea:price:"`
	TTL       time.Duration `yaml:"ttl" default:"30s"`
}

// Enabled reports whether a redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RedisPriceCache keeps quotes in redis so several bot processes share one lookup.
type RedisPriceCache struct {
	client *redis.Client
	prefix string
}

func NewRedisPriceCache(cfg RedisConfig) *RedisPriceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return NewRedisPriceCacheWithClient(client, cfg.KeyPrefix)
}

func NewRedisPriceCacheWithClient(client *redis.Client, prefix string) *RedisPriceCache {
	return &RedisPriceCache{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisPriceCache) key(symbol string) string {
	return c.prefix + strings.ToUpper(symbol)
}

// Ping checks the connection.
func (c *RedisPriceCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "redis ping failed", err)
	}

	return nil
}

func (c *RedisPriceCache) Get(ctx context.Context, symbol string) (Quote, bool, error) {
	data, err := c.client.Get(ctx, c.key(symbol)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return Quote{}, false, nil
	}

	if err != nil {
		return Quote{}, false, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "redis get failed", err)
	}

	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, false, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "invalid cached quote", err)
	}

	return q, true, nil
}

func (c *RedisPriceCache) Set(ctx context.Context, quote Quote, ttl time.Duration) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to encode quote", err)
	}

	if err := c.client.Set(ctx, c.key(quote.Symbol), data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "redis set failed", err)
	}

	return nil
}

func (c *RedisPriceCache) Close() error {
	return c.client.Close()
}

type memoryEntry struct {
	quote   Quote
	expires time.Time
}

// MemoryPriceCache is a process local PriceCache.
type MemoryPriceCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryPriceCache() *MemoryPriceCache {
	return &MemoryPriceCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryPriceCache) Get(_ context.Context, symbol string) (Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[strings.ToUpper(symbol)]
	if !ok || !c.now().Before(entry.expires) {
		return Quote{}, false, nil
	}

	return entry.quote, true, nil
}

func (c *MemoryPriceCache) Set(_ context.Context, quote Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[strings.ToUpper(quote.Symbol)] = memoryEntry{
		quote:   quote,
		expires: c.now().Add(ttl),
	}

	return nil
}

// CachedPriceSource serves quotes from a cache and refreshes it from source on a miss.
// Cache failures are logged and never fail a lookup.
type CachedPriceSource struct {
	source PriceSource
	cache  PriceCache
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedPriceSource(source PriceSource, cache PriceCache, ttl time.Duration, log *logger.Logger) *CachedPriceSource {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &CachedPriceSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedPriceSource) Quote(ctx context.Context, symbol string) (Quote, error) {
	cached, ok, err := c.cache.Get(ctx, symbol)
	if err != nil {
		c.logger.Warn("Price cache read failed", zap.String("symbol", symbol), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	quote, err := c.source.Quote(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}

	if err := c.cache.Set(ctx, quote, c.ttl); err != nil {
		c.logger.Warn("Price cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}

	return quote, nil
}

var (
	_ PriceCache  = (*RedisPriceCache)(nil)
	_ PriceCache  = (*MemoryPriceCache)(nil)
	_ PriceSource = (*CachedPriceSource)(nil)
)
