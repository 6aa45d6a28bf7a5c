// Package config loads the bot configuration from YAML, .env and the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/version"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/notify"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/schema"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the range of config file versions this build reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Config is the root configuration. It is passed to constructors, never stored globally.
type Config struct {
	// Version is the config file format version, e.g. 1.0.0.
	Version string `yaml:"version" default:"1.0.0"`
	Symbol  string `yaml:"symbol" default:"XAUUSD" validate:"required"`
	// Interval is the bar interval used for analysis, e.g. 1h.
	Interval string `yaml:"interval" default:"1h" validate:"required"`
	// Bars is the number of bars fetched for each analysis.
	Bars         int                    `yaml:"bars" default:"100" validate:"gte=2"`
	DataDir      string                 `yaml:"data_dir" default:"data" validate:"required"`
	VotingMethod string                 `yaml:"voting_method" default:"weighted_vote" validate:"oneof=majority_vote weighted_vote strongest_signal"`
	Algorithms   []types.StrategyConfig `yaml:"algorithms" validate:"dive"`

	Risk      risk.Config            `yaml:"risk"`
	Trading   TradingConfig          `yaml:"trading"`
	Providers ProvidersConfig        `yaml:"providers"`
	Redis     marketdata.RedisConfig `yaml:"redis"`
	Telegram  notify.TelegramConfig  `yaml:"telegram"`
	Metrics   MetricsConfig          `yaml:"metrics"`
	Log       logger.Config          `yaml:"log"`
	Backtest  BacktestConfig         `yaml:"backtest"`
}

// TradingConfig controls the automated session.
type TradingConfig struct {
	// CheckInterval is the time between two analysis rounds.
	CheckInterval time.Duration `yaml:"check_interval" default:"5m" validate:"gt=0"`
	// SessionDuration bounds a run. Zero runs until interrupted.
	SessionDuration time.Duration `yaml:"session_duration" default:"8h" validate:"gte=0"`
	// AutoTrade opens trades on actionable signals. Otherwise signals are only reported.
	AutoTrade bool `yaml:"auto_trade"`
	// EntryFilter requires a pullback entry before opening a LONG.
	EntryFilter bool `yaml:"entry_filter"`
	// MaxOpenTrades caps concurrently open trades. Zero means no cap.
	MaxOpenTrades int `yaml:"max_open_trades" default:"1" validate:"gte=0"`
	// PositionSize overrides the risk-derived size when positive.
	PositionSize float64 `yaml:"position_size" validate:"gte=0"`
	// ArchiveBars keeps a Parquet archive of every fetched bar in the data dir.
	ArchiveBars bool `yaml:"archive_bars"`
}

// ProvidersConfig names the market data sources in fallback order and holds their keys.
type ProvidersConfig struct {
	Bars            []string      `yaml:"bars" default:"[\"twelvedata\",\"alphavantage\"]" validate:"min=1,dive,oneof=twelvedata alphavantage binance polygon"`
	Prices          []string      `yaml:"prices" default:"[\"freeforex\",\"goldapi\",\"alphavantage\"]" validate:"min=1,dive,oneof=freeforex goldapi alphavantage twelvedata binance"`
	Timeout         time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
	TwelveDataKey   string        `yaml:"twelve_data_key"`
	AlphaVantageKey string        `yaml:"alpha_vantage_key"`
	GoldAPIKey      string        `yaml:"gold_api_key"`
	PolygonKey      string        `yaml:"polygon_key"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" default:":9090"`
	Path    string `yaml:"path" default:"/metrics"`
}

// BacktestConfig controls the bar replay.
type BacktestConfig struct {
	InitialBalance float64 `yaml:"initial_balance" default:"10000" validate:"gt=0"`
	PositionSize   float64 `yaml:"position_size" default:"0.1" validate:"gt=0"`
	// AllowShort opens SHORT trades on SELL when flat.
	AllowShort bool `yaml:"allow_short"`
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads path (optional), then envFile (optional, ignored when missing), then the
// process environment, and validates the result.
func Load(path string, envFile string) (*Config, error) {
	var data []byte

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		data = raw
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to load %s", envFile)
		}
	}

	return Parse(data, os.LookupEnv)
}

// Parse decodes YAML data, fills defaults, applies environment overrides and validates.
// Empty data yields the default configuration.
func Parse(data []byte, lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to set defaults", err)
	}

	if lookup != nil {
		if err := applyEnv(cfg, lookup); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Parse(nil, nil)
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}

	return cfg
}

// Validate checks struct tags, the config version and the interval.
func (c *Config) Validate() error {
	ok, err := version.Satisfies(c.Version, SupportedVersions)
	if err != nil {
		return err
	}

	if !ok {
		return errors.Newf(errors.ErrCodeInvalidVersion, "config version %s is outside %s", c.Version, SupportedVersions)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return err
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := marketdata.ParseTimespan(c.Interval); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid interval", err)
	}

	return nil
}

// Timespan returns the parsed analysis interval.
func (c *Config) Timespan() marketdata.Timespan {
	return marketdata.Timespan(c.Interval)
}

// Schema returns the JSON schema of the config file.
func Schema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return schema.ToJSONSchema(Config{}, schema.WithFieldNameTag("yaml"))
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	strs := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &cfg.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &cfg.Telegram.ChatID,
		"GOLDAPI_KEY":        &cfg.Providers.GoldAPIKey,
		"ALPHA_VANTAGE_KEY":  &cfg.Providers.AlphaVantageKey,
		"TWELVE_DATA_KEY":    &cfg.Providers.TwelveDataKey,
		"POLYGON_API_KEY":    &cfg.Providers.PolygonKey,
		"REDIS_ADDR":         &cfg.Redis.Addr,
		"REDIS_PASSWORD":     &cfg.Redis.Password,
	}

	for key, target := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}

	floats := map[string]*float64{
		"DEFAULT_RISK_PERCENT":      &cfg.Risk.RiskPercent,
		"DEFAULT_RISK_REWARD_RATIO": &cfg.Risk.RiskRewardRatio,
		"MAX_RISK_PERCENT":          &cfg.Risk.MaxRiskPercent,
		"ACCOUNT_BALANCE":           &cfg.Risk.AccountBalance,
	}

	for key, target := range floats {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}

		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", key)
		}

		*target = f
	}

	return nil
}
