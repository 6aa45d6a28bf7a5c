package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func envOf(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]

		return v, ok
	}
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg, err := Parse(nil, envOf(nil))
	suite.Require().NoError(err)

	suite.Equal("1.0.0", cfg.Version)
	suite.Equal("XAUUSD", cfg.Symbol)
	suite.Equal("1h", cfg.Interval)
	suite.Equal(100, cfg.Bars)
	suite.Equal("weighted_vote", cfg.VotingMethod)
	suite.Empty(cfg.Algorithms)
	suite.Equal(5*time.Minute, cfg.Trading.CheckInterval)
	suite.Equal([]string{"twelvedata", "alphavantage"}, cfg.Providers.Bars)
	suite.Equal([]string{"freeforex", "goldapi", "alphavantage"}, cfg.Providers.Prices)
	suite.Equal(10*time.Second, cfg.Providers.Timeout)
	suite.InDelta(1.0, cfg.Risk.RiskPercent, 1e-9)
	suite.InDelta(2.0, cfg.Risk.RiskRewardRatio, 1e-9)
	suite.InDelta(10000.0, cfg.Backtest.InitialBalance, 1e-9)
	suite.InDelta(0.1, cfg.Backtest.PositionSize, 1e-9)
	suite.Equal(":9090", cfg.Metrics.Addr)
	suite.Equal("info", cfg.Log.Level)
	suite.Equal("dekea:price:", cfg.Redis.KeyPrefix)
	suite.False(cfg.Redis.Enabled())
	suite.Equal("https://api.telegram.org", cfg.Telegram.BaseURL)
}

func (suite *ConfigTestSuite) TestDefaultMatchesParse() {
	cfg, err := Parse(nil, nil)
	suite.Require().NoError(err)
	suite.Equal(cfg, Default())
}

func (suite *ConfigTestSuite) TestYAMLOverridesDefaults() {
	data := []byte(`
version: 1.0.0
interval: 15m
voting_method: majority_vote
algorithms:
  - type: rsi
    weight: 1.5
    params:
      period: 10
  - type: macd
trading:
  check_interval: 1m
  auto_trade: true
providers:
  prices: [goldapi]
risk:
  risk_percent: 0.5
`)

	cfg, err := Parse(data, envOf(nil))
	suite.Require().NoError(err)

	suite.Equal("15m", cfg.Interval)
	suite.Equal("majority_vote", cfg.VotingMethod)
	suite.Require().Len(cfg.Algorithms, 2)
	suite.Equal(types.StrategyType("rsi"), cfg.Algorithms[0].Type)
	suite.InDelta(1.5, cfg.Algorithms[0].Weight, 1e-9)
	suite.InDelta(10.0, cfg.Algorithms[0].Params["period"], 1e-9)
	suite.InDelta(1.0, cfg.Algorithms[1].Weight, 1e-9)
	suite.Equal(time.Minute, cfg.Trading.CheckInterval)
	suite.True(cfg.Trading.AutoTrade)
	suite.Equal([]string{"goldapi"}, cfg.Providers.Prices)
	suite.InDelta(0.5, cfg.Risk.RiskPercent, 1e-9)
	suite.InDelta(2.0, cfg.Risk.MaxRiskPercent, 1e-9)
}

func (suite *ConfigTestSuite) TestEnvOverrides() {
	cfg, err := Parse(nil, envOf(map[string]string{
		"TELEGRAM_BOT_TOKEN":        "token",
		"TELEGRAM_CHAT_ID":          "42",
		"GOLDAPI_KEY":               "gold",
		"ALPHA_VANTAGE_KEY":         "alpha",
		"TWELVE_DATA_KEY":           "twelve",
		"DEFAULT_RISK_PERCENT":      "1.5",
		"DEFAULT_RISK_REWARD_RATIO": "3",
		"REDIS_ADDR":                "localhost:6379",
		"MAX_RISK_PERCENT":          "",
	}))
	suite.Require().NoError(err)

	suite.True(cfg.Telegram.Configured())
	suite.Equal("gold", cfg.Providers.GoldAPIKey)
	suite.Equal("alpha", cfg.Providers.AlphaVantageKey)
	suite.Equal("twelve", cfg.Providers.TwelveDataKey)
	suite.InDelta(1.5, cfg.Risk.RiskPercent, 1e-9)
	suite.InDelta(3.0, cfg.Risk.RiskRewardRatio, 1e-9)
	suite.InDelta(2.0, cfg.Risk.MaxRiskPercent, 1e-9)
	suite.True(cfg.Redis.Enabled())
}

func (suite *ConfigTestSuite) TestInvalid() {
	tests := []struct {
		name string
		data string
		env  map[string]string
		code errors.ErrorCode
	}{
		{name: "bad yaml", data: "symbol: [", code: errors.ErrCodeInvalidConfiguration},
		{name: "voting method", data: "voting_method: unanimous", code: errors.ErrCodeInvalidConfiguration},
		{name: "interval", data: "interval: 7m", code: errors.ErrCodeInvalidConfiguration},
		{name: "price provider", data: "providers:\n  prices: [yahoo]", code: errors.ErrCodeInvalidConfiguration},
		{name: "algorithm without type", data: "algorithms:\n  - weight: 2", code: errors.ErrCodeInvalidConfiguration},
		{name: "major version", data: "version: 2.0.0", code: errors.ErrCodeInvalidVersion},
		{name: "newer minor", data: "version: 1.9.0", code: errors.ErrCodeInvalidVersion},
		{name: "garbage version", data: "version: abc", code: errors.ErrCodeInvalidVersion},
		{name: "env float", env: map[string]string{"DEFAULT_RISK_PERCENT": "lots"}, code: errors.ErrCodeInvalidConfiguration},
		{name: "env out of range", env: map[string]string{"MAX_RISK_PERCENT": "150"}, code: errors.ErrCodeInvalidConfiguration},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := Parse([]byte(tt.data), envOf(tt.env))
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func (suite *ConfigTestSuite) TestLoadFiles() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("symbol: XAUUSD\nbars: 50\n"), 0644))

	envFile := filepath.Join(dir, ".env")
	suite.Require().NoError(os.WriteFile(envFile, []byte("POLYGON_API_KEY=from-dotenv\n"), 0644))
	suite.T().Setenv("POLYGON_API_KEY", "")
	suite.Require().NoError(os.Unsetenv("POLYGON_API_KEY"))

	cfg, err := Load(path, envFile)
	suite.Require().NoError(err)
	suite.Equal(50, cfg.Bars)
	suite.Equal("from-dotenv", cfg.Providers.PolygonKey)
}

func (suite *ConfigTestSuite) TestLoadMissingEnvFileIsIgnored() {
	_, err := Load("", filepath.Join(suite.T().TempDir(), "missing.env"))
	suite.NoError(err)
}

func (suite *ConfigTestSuite) TestLoadMissingConfigFails() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "missing.yaml"), "")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestSchemaUsesYAMLNames() {
	s, err := Schema()
	suite.Require().NoError(err)
	suite.Contains(s, "voting_method")
	suite.Contains(s, "check_interval")
	suite.NotContains(s, "VotingMethod")
}
