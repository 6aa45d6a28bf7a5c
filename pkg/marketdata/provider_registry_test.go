package marketdata

import (
	"encoding/json"
	"testing"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ProviderRegistryTestSuite struct {
	suite.Suite
}

func TestProviderRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderRegistryTestSuite))
}

func (suite *ProviderRegistryTestSuite) TestGetSupportedProviders() {
	suite.Equal([]string{"alphavantage", "binance", "freeforex", "goldapi", "polygon", "twelvedata"}, GetSupportedProviders())
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo() {
	info, err := GetProviderInfo("binance")
	suite.Require().NoError(err)
	suite.Equal("Binance", info.DisplayName)
	suite.False(info.RequiresAuth)
	suite.True(info.SupportsDownload)
	suite.True(info.SupportsPrice)

	info, err = GetProviderInfo("freeforex")
	suite.Require().NoError(err)
	suite.False(info.SupportsBars)
	suite.True(info.SupportsPrice)

	_, err = GetProviderInfo("invalid")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *ProviderRegistryTestSuite) TestGetDownloadConfigSchema() {
	raw, err := GetDownloadConfigSchema("polygon")
	suite.Require().NoError(err)

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(raw), &schema))

	props, ok := schema["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(props, "ticker")
	suite.Contains(props, "apiKey")

	raw, err = GetDownloadConfigSchema("binance")
	suite.Require().NoError(err)
	suite.NotContains(raw, "apiKey")

	_, err = GetDownloadConfigSchema("goldapi")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *ProviderRegistryTestSuite) TestParseDownloadConfig() {
	params, cfg, err := ParseDownloadConfig("binance", `{"ticker":"XAUUSD","startDate":"2024-01-01","endDate":"2024-03-01","interval":"1h"}`, "/tmp/data")
	suite.Require().NoError(err)
	suite.Equal("XAUUSD", params.Ticker)
	suite.Equal("/tmp/data", cfg.DataPath)
	suite.Equal(WriterDuckDB, cfg.WriterType)

	_, _, err = ParseDownloadConfig("twelvedata", `{}`, "/tmp/data")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}
