package marketdata

import (
	"context"
	"math"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// DefaultAttemptTimeout bounds a single provider attempt inside a fallback chain.
const DefaultAttemptTimeout = 10 * time.Second

// Quote is a spot price together with the source that produced it.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
}

// PriceSource resolves the current price of a symbol.
type PriceSource interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// AttemptObserver is told about every provider attempt made by a chain.
type AttemptObserver func(source string, err error, elapsed time.Duration)

type chainConfig struct {
	timeout  time.Duration
	now      func() time.Time
	observer AttemptObserver
}

// ChainOption configures a PriceChain or a BarChain.
type ChainOption func(*chainConfig)

// WithAttemptTimeout overrides DefaultAttemptTimeout.
func WithAttemptTimeout(timeout time.Duration) ChainOption {
	return func(c *chainConfig) {
		c.timeout = timeout
	}
}

// WithChainClock overrides time.Now for quote timestamps.
func WithChainClock(now func() time.Time) ChainOption {
	return func(c *chainConfig) {
		c.now = now
	}
}

// WithAttemptObserver registers fn to be called after every attempt.
func WithAttemptObserver(fn AttemptObserver) ChainOption {
	return func(c *chainConfig) {
		c.observer = fn
	}
}

func newChainConfig(opts []ChainOption) chainConfig {
	cfg := chainConfig{
		timeout:  DefaultAttemptTimeout,
		now:      time.Now,
		observer: nil,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func (c chainConfig) observe(source string, err error, start time.Time) {
	if c.observer != nil {
		c.observer(source, err, time.Since(start))
	}
}

// PriceChain asks each provider in order and returns the first positive price.
type PriceChain struct {
	providers []provider.PriceProvider
	cfg       chainConfig
	logger    *logger.Logger
}

func NewPriceChain(providers []provider.PriceProvider, log *logger.Logger, opts ...ChainOption) *PriceChain {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PriceChain{
		providers: providers,
		cfg:       newChainConfig(opts),
		logger:    log,
	}
}

// Sources returns the provider names in the order they are tried.
func (c *PriceChain) Sources() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}

	return names
}

func (c *PriceChain) Quote(ctx context.Context, symbol string) (Quote, error) {
	var lastErr error

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return Quote{}, errors.Wrap(errors.ErrCodePriceUnavailable, "price lookup cancelled", err)
		}

		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
		price, err := p.CurrentPrice(attemptCtx, symbol)
		cancel()

		if err == nil && (price <= 0 || math.IsNaN(price) || math.IsInf(price, 0)) {
			err = errors.Newf(errors.ErrCodeMarketDataParseFailed, "%s returned unusable price %v", p.Name(), price)
		}

		c.cfg.observe(p.Name(), err, start)

		if err != nil {
			c.logger.Warn("Price source failed", zap.String("source", p.Name()), zap.String("symbol", symbol), zap.Error(err))
			lastErr = err

			continue
		}

		return Quote{
			Symbol: symbol,
			Price:  price,
			Source: p.Name(),
			Time:   c.cfg.now(),
		}, nil
	}

	if lastErr == nil {
		return Quote{}, errors.Newf(errors.ErrCodePriceUnavailable, "no price source configured for %s", symbol)
	}

	return Quote{}, errors.Wrapf(errors.ErrCodePriceUnavailable, lastErr, "no price source answered for %s", symbol)
}

// BarChain asks each provider in order and returns the first non-empty series.
type BarChain struct {
	providers []provider.OHLCProvider
	cfg       chainConfig
	logger    *logger.Logger
}

func NewBarChain(providers []provider.OHLCProvider, log *logger.Logger, opts ...ChainOption) *BarChain {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BarChain{
		providers: providers,
		cfg:       newChainConfig(opts),
		logger:    log,
	}
}

// Bars returns at most limit bars, oldest first, and the name of the provider that served them.
func (c *BarChain) Bars(ctx context.Context, symbol string, interval Timespan, limit int) ([]types.MarketData, string, error) {
	var lastErr error

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "bar lookup cancelled", err)
		}

		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
		bars, err := p.FetchOHLC(attemptCtx, symbol, interval.Multiplier(), interval.Timespan(), limit)
		cancel()

		if err == nil && len(bars) == 0 {
			err = errors.Newf(errors.ErrCodeDataNotFound, "%s returned no bars", p.Name())
		}

		c.cfg.observe(p.Name(), err, start)

		if err != nil {
			c.logger.Warn("Bar source failed", zap.String("source", p.Name()), zap.String("symbol", symbol), zap.Error(err))
			lastErr = err

			continue
		}

		return bars, p.Name(), nil
	}

	if lastErr == nil {
		return nil, "", errors.Newf(errors.ErrCodeInvalidConfiguration, "no bar source configured for %s", symbol)
	}

	return nil, "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, lastErr, "no bar source answered for %s", symbol)
}

var _ PriceSource = (*PriceChain)(nil)
