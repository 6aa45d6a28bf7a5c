package main

import (
	"testing"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite
}

func (suite *ProviderTestSuite) TestMarketProviderConstants() {
	suite.Equal(MarketProvider("polygon"), MarketProviderPolygon)
	suite.Equal(MarketProvider("binance"), MarketProviderBinance)
}

func (suite *ProviderTestSuite) TestDownloadProviders() {
	for _, name := range []string{MarketProviderPolygon, MarketProviderBinance} {
		providerType, err := downloadProvider(name)
		suite.Require().NoError(err)
		suite.Equal(marketdata.ProviderType(name), providerType)
	}
}

func (suite *ProviderTestSuite) TestPriceOnlyProviderCannotDownload() {
	_, err := downloadProvider("freeforex")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *ProviderTestSuite) TestUnknownProvider() {
	_, err := downloadProvider("bloomberg")
	suite.Error(err)
}

func (suite *ProviderTestSuite) TestRenderProviders() {
	out := renderProviders()

	suite.Contains(out, "polygon")
	suite.Contains(out, "Polygon.io")
	suite.Contains(out, "twelvedata")
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}
