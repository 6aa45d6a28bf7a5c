package marketdata

import (
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type DownloadConfigTestSuite struct {
	suite.Suite
}

func TestDownloadConfigTestSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func validBase() BaseDownloadConfig {
	return BaseDownloadConfig{
		Ticker:    "XAUUSD",
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30T23:59:59Z",
		Interval:  "1h",
	}
}

func (suite *DownloadConfigTestSuite) TestPolygonConfigValidation() {
	testCases := []struct {
		name    string
		mutate  func(c *PolygonDownloadConfig)
		errPart string
	}{
		{name: "valid", mutate: func(*PolygonDownloadConfig) {}},
		{name: "missing ticker", mutate: func(c *PolygonDownloadConfig) { c.Ticker = "" }, errPart: "Ticker"},
		{name: "missing api key", mutate: func(c *PolygonDownloadConfig) { c.ApiKey = "" }, errPart: "ApiKey"},
		{name: "invalid interval", mutate: func(c *PolygonDownloadConfig) { c.Interval = "7m" }, errPart: "Interval"},
		{name: "invalid date", mutate: func(c *PolygonDownloadConfig) { c.StartDate = "01/02/2024" }, errPart: "startDate"},
		{name: "end before start", mutate: func(c *PolygonDownloadConfig) { c.EndDate = "2023-12-31" }, errPart: "endDate must be after"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			config := &PolygonDownloadConfig{BaseDownloadConfig: validBase(), ApiKey: "key"}
			tc.mutate(config)

			err := config.Validate()
			if tc.errPart == "" {
				suite.NoError(err)

				return
			}

			suite.Error(err)
			suite.Contains(err.Error(), tc.errPart)
		})
	}
}

func (suite *DownloadConfigTestSuite) TestToDownloadParams() {
	base := validBase()
	base.Interval = "4h"

	params, err := base.ToDownloadParams()
	suite.Require().NoError(err)
	suite.Equal("XAUUSD", params.Ticker)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), params.StartDate)
	suite.Equal(4, params.Multiplier)
	suite.Equal(models.Hour, params.Timespan)
	suite.Equal("XAUUSD_2024-01-01_2024-06-30_4_hour.parquet", params.OutputFileName())
}

func (suite *DownloadConfigTestSuite) TestParseConfigs() {
	polygonCfg, err := ParsePolygonConfig(`{"ticker":"XAUUSD","startDate":"2024-01-01","endDate":"2024-02-01","interval":"1d","apiKey":"k"}`)
	suite.Require().NoError(err)
	suite.Equal("k", polygonCfg.ApiKey)
	suite.Equal(ProviderPolygon, polygonCfg.ToClientConfig("/data").ProviderType)

	binanceCfg, err := ParseBinanceConfig(`{"ticker":"XAUUSD","startDate":"2024-01-01","endDate":"2024-02-01","interval":"1h"}`)
	suite.Require().NoError(err)
	suite.Equal(ProviderBinance, binanceCfg.ToClientConfig("/data").ProviderType)
	suite.Empty(binanceCfg.ToClientConfig("/data").PolygonApiKey)

	_, err = ParseBinanceConfig(`{not json`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = ParsePolygonConfig(`{"ticker":"XAUUSD","startDate":"2024-01-01","endDate":"2024-02-01","interval":"1d"}`)
	suite.Error(err)
}
