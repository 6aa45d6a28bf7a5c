package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
	recorder *Recorder
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.recorder = New()
}

func (suite *MetricsTestSuite) TestSignals() {
	suite.recorder.RecordStrategySignal("RSI", types.SignalTypeBuy)
	suite.recorder.RecordStrategySignal("RSI", types.SignalTypeBuy)
	suite.recorder.RecordCombinedSignal("weighted_vote", types.SignalTypeHold, 0.4)

	suite.InDelta(2.0, testutil.ToFloat64(suite.recorder.strategySignals.WithLabelValues("RSI", "BUY")), 1e-9)
	suite.InDelta(1.0, testutil.ToFloat64(suite.recorder.combinedSignals.WithLabelValues("weighted_vote", "HOLD")), 1e-9)
	suite.Equal(1, testutil.CollectAndCount(suite.recorder.confidence))
}

func (suite *MetricsTestSuite) TestTrades() {
	trade := types.TradeRecord{PositionType: types.PositionTypeLong}
	suite.recorder.RecordTradeOpened(trade)
	suite.recorder.RecordTradeOpened(trade)

	trade.PnL = optional.Some(25.0)
	suite.recorder.RecordTradeClosed(trade)

	suite.InDelta(2.0, testutil.ToFloat64(suite.recorder.tradesOpened.WithLabelValues("LONG")), 1e-9)
	suite.InDelta(1.0, testutil.ToFloat64(suite.recorder.tradesClosed.WithLabelValues("LONG", "win")), 1e-9)
	suite.InDelta(1.0, testutil.ToFloat64(suite.recorder.openTrades), 1e-9)
	suite.InDelta(25.0, testutil.ToFloat64(suite.recorder.realizedPnL), 1e-9)

	trade.PnL = optional.Some(-5.0)
	suite.recorder.RecordTradeClosed(trade)
	suite.InDelta(1.0, testutil.ToFloat64(suite.recorder.tradesClosed.WithLabelValues("LONG", "loss")), 1e-9)
	suite.InDelta(25.0, testutil.ToFloat64(suite.recorder.realizedPnL), 1e-9)
}

func (suite *MetricsTestSuite) TestObserveAttempt() {
	suite.recorder.ObserveAttempt("GoldAPI", nil, 20*time.Millisecond)
	suite.recorder.ObserveAttempt("GoldAPI", errors.New("boom"), time.Second)

	suite.InDelta(1.0, testutil.ToFloat64(suite.recorder.priceAttempts.WithLabelValues("GoldAPI", "ok")), 1e-9)
	suite.InDelta(1.0, testutil.ToFloat64(suite.recorder.priceAttempts.WithLabelValues("GoldAPI", "error")), 1e-9)
}

func (suite *MetricsTestSuite) TestHandler() {
	suite.recorder.RecordPrice("XAUUSD", 2345.5)
	server := NewServer(":0", "", suite.recorder, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `dekea_last_price{symbol="XAUUSD"} 2345.5`)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("ok", rec.Body.String())
}

func (suite *MetricsTestSuite) TestStartStop() {
	server := NewServer("127.0.0.1:0", "/custom", suite.recorder, nil)
	suite.Require().NoError(server.Start())

	defer func() {
		suite.NoError(server.Stop(context.Background()))
	}()

	resp, err := http.Get("http://" + server.Addr() + "/custom")
	suite.Require().NoError(err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.True(strings.Contains(string(body), "dekea_open_trades"))
}
