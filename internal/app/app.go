// Package app assembles a TradingSystem and its collaborators from a Config.
package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/metrics"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/reporter"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy/ml"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/writer"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/notify"
	"go.uber.org/zap"
)

// ReportsDir is the directory under the data dir where JSON reports are written.
const ReportsDir = "reports"

// App holds everything a command needs to run the bot.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	System   *trading.TradingSystem
	Tracker  *tracker.Tracker
	Reporter *reporter.Reporter
	Recorder *metrics.Recorder
	// Metrics is nil unless the metrics endpoint is enabled.
	Metrics *metrics.Server

	closers []func() error
}

type options struct {
	notifier    notify.Notifier
	bars        trading.BarSource
	prices      marketdata.PriceSource
	httpOptions []provider.HTTPOption
}

type Option func(*options)

// WithNotifier replaces the notifier chosen from the Telegram config.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithBarSource replaces the configured bar provider chain.
func WithBarSource(bars trading.BarSource) Option {
	return func(o *options) {
		o.bars = bars
	}
}

// WithPriceSource replaces the configured spot price chain. The quote cache still applies.
func WithPriceSource(prices marketdata.PriceSource) Option {
	return func(o *options) {
		o.prices = prices
	}
}

// WithHTTPOptions is passed to every REST provider.
func WithHTTPOptions(opts ...provider.HTTPOption) Option {
	return func(o *options) {
		o.httpOptions = append(o.httpOptions, opts...)
	}
}

// NewManager builds the strategy manager for cfg. With no algorithms configured
// the default basket is used.
func NewManager(cfg *config.Config, log *logger.Logger) (*manager.Manager, error) {
	if len(cfg.Algorithms) == 0 {
		return manager.NewDefaultManager(log)
	}

	registry := strategy.NewDefaultRegistry()
	if err := ml.Register(registry); err != nil {
		return nil, err
	}

	return manager.NewFromConfig(registry, cfg.Algorithms, log)
}

// NewTracker opens the JSON ledger in the data dir.
func NewTracker(cfg *config.Config, log *logger.Logger) (*tracker.Tracker, error) {
	store, err := tracker.NewJSONFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return tracker.New(store,
		tracker.WithLogger(log),
		tracker.WithReportsDir(filepath.Join(cfg.DataDir, ReportsDir)),
	)
}

// NewNotifier returns a Telegram notifier when it is configured, a LogNotifier otherwise.
func NewNotifier(cfg *config.Config, log *logger.Logger) notify.Notifier {
	if !cfg.Telegram.Configured() {
		log.Info("Telegram is not configured, notifications go to the log")

		return notify.NewLogNotifier(log)
	}

	telegram, err := notify.NewTelegramNotifier(cfg.Telegram)
	if err != nil {
		log.Warn("Failed to create Telegram notifier, notifications go to the log", zap.Error(err))

		return notify.NewLogNotifier(log)
	}

	return telegram
}

// New wires the full bot. Call Close when done.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "config is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		Recorder: metrics.New(),
	}

	interval := cfg.Timespan()

	bars := o.bars
	if bars == nil {
		providers, err := trading.BuildBarProviders(cfg.Providers, log, o.httpOptions...)
		if err != nil {
			return nil, err
		}

		bars = marketdata.NewBarChain(providers, log, marketdata.WithAttemptObserver(a.Recorder.ObserveAttempt))
	}

	prices := o.prices
	if prices == nil {
		providers, err := trading.BuildPriceProviders(cfg.Providers, log, o.httpOptions...)
		if err != nil {
			return nil, err
		}

		prices = marketdata.NewPriceChain(providers, log, marketdata.WithAttemptObserver(a.Recorder.ObserveAttempt))
	}

	m, err := NewManager(cfg, log)
	if err != nil {
		return nil, err
	}

	a.Tracker, err = NewTracker(cfg, log)
	if err != nil {
		return nil, err
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = NewNotifier(cfg, log)
	}

	a.Reporter = reporter.New(a.Tracker, notifier, log)

	mon := monitor.New(a.Tracker,
		monitor.WithLogger(log),
		monitor.WithListener(a.Reporter),
		monitor.WithListener(a.Recorder),
	)

	systemOpts := []trading.Option{
		trading.WithLogger(log),
		trading.WithPriceSource(marketdata.NewCachedPriceSource(prices, a.priceCache(), cfg.Redis.TTL, log)),
		trading.WithPeriodReporter(a.Reporter),
		trading.WithRecorder(a.Recorder),
	}

	if cfg.Trading.ArchiveBars {
		archive := writer.NewArchiveWriter(cfg.DataDir, cfg.Symbol, string(interval), log)
		if err := archive.Initialize(); err != nil {
			_ = a.Close()

			return nil, err
		}

		a.closers = append(a.closers, archive.Close)
		systemOpts = append(systemOpts, trading.WithArchive(archive))
	}

	a.System, err = trading.NewTradingSystem(trading.Config{
		Symbol:        cfg.Symbol,
		Interval:      interval,
		Bars:          cfg.Bars,
		VotingMethod:  manager.VotingMethod(cfg.VotingMethod),
		AutoTrade:     cfg.Trading.AutoTrade,
		EntryFilter:   cfg.Trading.EntryFilter,
		MaxOpenTrades: cfg.Trading.MaxOpenTrades,
		PositionSize:  cfg.Trading.PositionSize,
	}, bars, m, risk.NewCalculator(cfg.Risk, log), mon, systemOpts...)
	if err != nil {
		_ = a.Close()

		return nil, err
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, a.Recorder, log)
	}

	return a, nil
}

func (a *App) priceCache() marketdata.PriceCache {
	if !a.Config.Redis.Enabled() {
		return marketdata.NewMemoryPriceCache()
	}

	cache := marketdata.NewRedisPriceCache(a.Config.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		a.Logger.Warn("Redis is unreachable, quotes will not be shared", zap.String("addr", a.Config.Redis.Addr), zap.Error(err))
	}

	a.closers = append(a.closers, cache.Close)

	return cache
}

// Start serves the metrics endpoint when it is enabled.
func (a *App) Start() error {
	if a.Metrics == nil {
		return nil
	}

	if err := a.Metrics.Start(); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to serve metrics on %s", a.Config.Metrics.Addr)
	}

	return nil
}

// Close stops the metrics endpoint and releases the archive and the redis client.
// It returns the first error.
func (a *App) Close() error {
	var first error

	if a.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.Metrics.Stop(ctx); err != nil {
			first = err
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}

	a.closers = nil

	return first
}
