package marketdata_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/mocks"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PriceChainTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	clock time.Time
}

func TestPriceChainSuite(t *testing.T) {
	suite.Run(t, new(PriceChainTestSuite))
}

func (suite *PriceChainTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.clock = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
}

func (suite *PriceChainTestSuite) priceProvider(name string, price float64, err error) *mocks.MockPriceProvider {
	p := mocks.NewMockPriceProvider(suite.ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	p.EXPECT().CurrentPrice(gomock.Any(), "XAUUSD").Return(price, err).MaxTimes(1)

	return p
}

func (suite *PriceChainTestSuite) chain(providers ...provider.PriceProvider) *marketdata.PriceChain {
	return marketdata.NewPriceChain(providers, nil, marketdata.WithChainClock(func() time.Time { return suite.clock }))
}

func (suite *PriceChainTestSuite) TestFirstSourceWins() {
	chain := suite.chain(
		suite.priceProvider("FreeForexAPI", 2350.5, nil),
		suite.priceProvider("GoldAPI", 2351, nil),
	)

	quote, err := chain.Quote(context.Background(), "XAUUSD")
	suite.Require().NoError(err)
	suite.Equal(marketdata.Quote{Symbol: "XAUUSD", Price: 2350.5, Source: "FreeForexAPI", Time: suite.clock}, quote)
}

func (suite *PriceChainTestSuite) TestFallsThroughFailuresAndBadPrices() {
	var attempts []string

	chain := marketdata.NewPriceChain([]provider.PriceProvider{
		suite.priceProvider("FreeForexAPI", 0, errors.New(errors.ErrCodeMarketDataFetchFailed, "timeout")),
		suite.priceProvider("GoldAPI", 0, nil),
		suite.priceProvider("TwelveData", math.NaN(), nil),
		suite.priceProvider("AlphaVantage", 2349.75, nil),
	}, nil, marketdata.WithAttemptObserver(func(source string, err error, _ time.Duration) {
		if err != nil {
			attempts = append(attempts, source+":fail")
		} else {
			attempts = append(attempts, source+":ok")
		}
	}))

	quote, err := chain.Quote(context.Background(), "XAUUSD")
	suite.Require().NoError(err)
	suite.Equal("AlphaVantage", quote.Source)
	suite.InDelta(2349.75, quote.Price, 1e-9)
	suite.Equal([]string{"FreeForexAPI:fail", "GoldAPI:fail", "TwelveData:fail", "AlphaVantage:ok"}, attempts)
}

func (suite *PriceChainTestSuite) TestAllSourcesFail() {
	chain := suite.chain(
		suite.priceProvider("FreeForexAPI", 0, errors.New(errors.ErrCodeMarketDataFetchFailed, "down")),
		suite.priceProvider("GoldAPI", 0, errors.New(errors.ErrCodeMarketDataFetchFailed, "quota")),
	)

	_, err := chain.Quote(context.Background(), "XAUUSD")
	suite.True(errors.HasCode(err, errors.ErrCodePriceUnavailable))
	suite.Contains(err.Error(), "quota")
	suite.Equal([]string{"FreeForexAPI", "GoldAPI"}, chain.Sources())
}

func (suite *PriceChainTestSuite) TestEmptyChain() {
	_, err := suite.chain().Quote(context.Background(), "XAUUSD")
	suite.True(errors.HasCode(err, errors.ErrCodePriceUnavailable))
}

func (suite *PriceChainTestSuite) TestAttemptTimeout() {
	slow := mocks.NewMockPriceProvider(suite.ctrl)
	slow.EXPECT().Name().Return("Slow").AnyTimes()
	slow.EXPECT().CurrentPrice(gomock.Any(), "XAUUSD").DoAndReturn(func(ctx context.Context, _ string) (float64, error) {
		<-ctx.Done()

		return 0, ctx.Err()
	})

	chain := marketdata.NewPriceChain([]provider.PriceProvider{slow, suite.priceProvider("GoldAPI", 2300, nil)}, nil,
		marketdata.WithAttemptTimeout(10*time.Millisecond))

	quote, err := chain.Quote(context.Background(), "XAUUSD")
	suite.Require().NoError(err)
	suite.Equal("GoldAPI", quote.Source)
}

func (suite *PriceChainTestSuite) TestCancelledContextStops() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := mocks.NewMockPriceProvider(suite.ctrl)
	p.EXPECT().Name().Return("FreeForexAPI").AnyTimes()

	_, err := suite.chain(p).Quote(ctx, "XAUUSD")
	suite.True(errors.HasCode(err, errors.ErrCodePriceUnavailable))
}

func bars(n int) []types.MarketData {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.MarketData, n)

	for i := range out {
		out[i] = types.MarketData{Symbol: "XAUUSD", Time: start.Add(time.Duration(i) * time.Hour), Close: 2300 + float64(i)}
	}

	return out
}

func (suite *PriceChainTestSuite) TestBarChainSkipsEmpty() {
	empty := mocks.NewMockOHLCProvider(suite.ctrl)
	empty.EXPECT().Name().Return("TwelveData").AnyTimes()
	empty.EXPECT().FetchOHLC(gomock.Any(), "XAUUSD", 1, models.Hour, 30).Return(nil, nil)

	full := mocks.NewMockOHLCProvider(suite.ctrl)
	full.EXPECT().Name().Return("AlphaVantage").AnyTimes()
	full.EXPECT().FetchOHLC(gomock.Any(), "XAUUSD", 1, models.Hour, 30).Return(bars(30), nil)

	chain := marketdata.NewBarChain([]provider.OHLCProvider{empty, full}, nil)

	got, source, err := chain.Bars(context.Background(), "XAUUSD", marketdata.TimespanOneHour, 30)
	suite.Require().NoError(err)
	suite.Equal("AlphaVantage", source)
	suite.Len(got, 30)
}

func (suite *PriceChainTestSuite) TestBarChainAllFail() {
	failing := mocks.NewMockOHLCProvider(suite.ctrl)
	failing.EXPECT().Name().Return("TwelveData").AnyTimes()
	failing.EXPECT().FetchOHLC(gomock.Any(), "XAUUSD", 4, models.Hour, 50).
		Return(nil, errors.New(errors.ErrCodeMarketDataFetchFailed, "401"))

	_, _, err := marketdata.NewBarChain([]provider.OHLCProvider{failing}, nil).
		Bars(context.Background(), "XAUUSD", marketdata.TimespanFourHours, 50)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}
