package main

import (
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type RenderTestSuite struct {
	suite.Suite
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

func (suite *RenderTestSuite) analysis() trading.Analysis {
	return trading.Analysis{
		Symbol:       "XAUUSD",
		Signal:       types.SignalTypeSell,
		CurrentPrice: 2012.5,
		PriceSource:  "GoldAPI",
		BarSource:    "TwelveData",
		Bars:         100,
		Result: manager.AggregationResult{
			Method: manager.MajorityVote,
			IndividualSignals: map[string]types.Signal{
				"MACD": {Type: types.SignalTypeSell, Reason: "MACD crossed below signal"},
			},
			Order:       []string{"MACD"},
			Weights:     map[types.SignalType]float64{types.SignalTypeSell: 1.5},
			TotalWeight: 1.5,
		},
	}
}

func (suite *RenderTestSuite) TestAnalysis() {
	out := renderAnalysis(suite.analysis())

	suite.Contains(out, "XAUUSD @ 2012.50")
	suite.Contains(out, "TwelveData (100)")
	suite.Contains(out, "Confidence: 100%")
	suite.Contains(out, "MACD crossed below signal")
	suite.NotContains(out, "SL:")
}

func (suite *RenderTestSuite) TestAnalysisWithRisk() {
	analysis := suite.analysis()
	analysis.Risk = optional.Some(risk.Metrics{StopLoss: 2022.5, TakeProfit: 1992.5, PositionSize: 0.2, RiskAmount: 200})
	analysis.EntryBlocked = true
	analysis.EntryReason = "waiting for pullback"

	out := renderAnalysis(analysis)

	suite.Contains(out, "SL: 2022.50")
	suite.Contains(out, "TP: 1992.50")
	suite.Contains(out, "Risk: $200.00")
	suite.Contains(out, "Entry blocked: waiting for pullback")
}

func (suite *RenderTestSuite) TestSession() {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	out := renderSession(trading.SessionResult{
		StartedAt:    start,
		EndedAt:      start.Add(2 * time.Hour),
		Rounds:       24,
		Errors:       1,
		Signals:      map[types.SignalType]int{types.SignalTypeBuy: 3, types.SignalTypeHold: 21},
		TradesOpened: []string{"a", "b"},
		TradesClosed: []string{"a"},
	})

	suite.Contains(out, "Duration: 2h0m0s")
	suite.Contains(out, "Rounds: 24  Errors: 1")
	suite.Contains(out, "BUY 3  SELL 0  HOLD 21")
	suite.Contains(out, "Trades opened: 2  closed: 1")
}
