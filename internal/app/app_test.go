package app_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/app"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/mocks"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/notify"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type staticBars struct {
	bars []types.MarketData
}

func (s staticBars) Bars(_ context.Context, _ string, _ marketdata.Timespan, _ int) ([]types.MarketData, string, error) {
	return s.bars, "static", nil
}

type AppTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	prices *mocks.MockPriceSource
	cfg    *config.Config
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (suite *AppTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.prices = mocks.NewMockPriceSource(suite.ctrl)
	suite.prices.EXPECT().Quote(gomock.Any(), "XAUUSD").Return(marketdata.Quote{
		Symbol: "XAUUSD",
		Price:  2025,
		Source: "MockPrice",
		Time:   time.Now(),
	}, nil).AnyTimes()

	suite.cfg = config.Default()
	suite.cfg.DataDir = suite.T().TempDir()
}

func (suite *AppTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *AppTestSuite) newApp() *app.App {
	bars := staticBars{bars: mocks.FromCloses("XAUUSD", mocks.Ramp(60, 1990, 0.5), 0.5)}

	a, err := app.New(suite.cfg, nil,
		app.WithBarSource(bars),
		app.WithPriceSource(suite.prices),
		app.WithNotifier(notify.NewLogNotifier(nil)),
	)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = a.Close() })

	return a
}

func (suite *AppTestSuite) TestNilConfig() {
	_, err := app.New(nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func (suite *AppTestSuite) TestAnalyzeThroughWiredSystem() {
	a := suite.newApp()

	analysis, err := a.System.Analyze(context.Background())
	suite.Require().NoError(err)
	suite.Equal("XAUUSD", analysis.Symbol)
	suite.Equal(2025.0, analysis.CurrentPrice)
	suite.Equal("MockPrice", analysis.PriceSource)
	suite.Equal("static", analysis.BarSource)
	suite.Equal(4, analysis.Result.TotalAlgorithms)
}

func (suite *AppTestSuite) TestLedgerLivesInDataDir() {
	a := suite.newApp()

	rec := monitor.Recommendation{
		Signal:       types.SignalTypeBuy,
		CurrentPrice: 2000,
		Algorithms:   []string{"RSI"},
	}

	_, err := a.System.Monitor().OpenFromRecommendation(context.Background(), rec, "XAUUSD", 0.1)
	suite.Require().NoError(err)

	_, err = os.Stat(filepath.Join(suite.cfg.DataDir, tracker.TradesFileName))
	suite.NoError(err)
	suite.Len(a.Tracker.OpenTrades(), 1)
}

func (suite *AppTestSuite) TestMissingKeysFail() {
	suite.cfg.Providers.TwelveDataKey = ""
	suite.cfg.Providers.AlphaVantageKey = ""

	_, err := app.New(suite.cfg, nil, app.WithPriceSource(suite.prices))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *AppTestSuite) TestKeylessProviders() {
	suite.cfg.Providers.Bars = []string{"binance"}
	suite.cfg.Providers.Prices = []string{"freeforex", "binance"}

	a, err := app.New(suite.cfg, nil, app.WithNotifier(notify.NewLogNotifier(nil)))
	suite.Require().NoError(err)
	suite.NoError(a.Close())
}

func (suite *AppTestSuite) TestConfiguredAlgorithms() {
	suite.cfg.Algorithms = []types.StrategyConfig{
		{Type: types.StrategyTypeRSI, Weight: 1},
		{Type: types.StrategyTypeMLClassifier, Weight: 2, Model: "knn"},
	}

	m, err := app.NewManager(suite.cfg, nil)
	suite.Require().NoError(err)
	suite.Equal(2, m.Len())
}

func (suite *AppTestSuite) TestUnknownAlgorithm() {
	suite.cfg.Algorithms = []types.StrategyConfig{{Type: "astrology", Weight: 1}}

	_, err := app.NewManager(suite.cfg, nil)
	suite.Error(err)
}

func (suite *AppTestSuite) TestArchiveBars() {
	suite.cfg.Trading.ArchiveBars = true
	a := suite.newApp()

	_, err := a.System.Analyze(context.Background())
	suite.Require().NoError(err)
	suite.NoError(a.Close())
}

func (suite *AppTestSuite) TestMetricsEndpoint() {
	suite.cfg.Metrics.Enabled = true
	suite.cfg.Metrics.Addr = "127.0.0.1:0"
	a := suite.newApp()

	suite.Require().NotNil(a.Metrics)
	suite.Require().NoError(a.Start())

	_, err := a.System.Analyze(context.Background())
	suite.Require().NoError(err)

	resp, err := http.Get("http://" + a.Metrics.Addr() + "/metrics")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.Contains(string(body), "dekea_combined_signals_total")
	suite.Contains(string(body), `dekea_last_price{symbol="XAUUSD"} 2025`)
}

func (suite *AppTestSuite) TestMetricsDisabled() {
	a := suite.newApp()

	suite.Nil(a.Metrics)
	suite.NoError(a.Start())
}
