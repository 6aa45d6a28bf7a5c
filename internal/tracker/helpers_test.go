package tracker_test

import (
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/moznion/go-optional"
)

func closedTrade(id string, entry time.Time, pnl float64) types.TradeRecord {
	return types.TradeRecord{
		TradeID:       id,
		Symbol:        "XAUUSD",
		EntryTime:     entry,
		ExitTime:      optional.Some(entry.Add(time.Hour)),
		EntryPrice:    2000,
		ExitPrice:     optional.Some(2000 + pnl*10),
		PositionType:  types.PositionTypeLong,
		PositionSize:  0.1,
		PnL:           optional.Some(pnl),
		PnLPercentage: optional.Some(pnl / 200 * 100),
		Status:        types.TradeStatusClosed,
		StrategyName:  "test",
	}
}

func openTrade(id string, entry time.Time, positionType types.PositionType) types.TradeRecord {
	return types.TradeRecord{
		TradeID:      id,
		Symbol:       "XAUUSD",
		EntryTime:    entry,
		EntryPrice:   2000,
		PositionType: positionType,
		PositionSize: 0.1,
		StopLoss:     optional.Some(1960.0),
		TakeProfit:   optional.Some(2080.0),
		Status:       types.TradeStatusOpen,
		StrategyName: "test",
	}
}

func tradesWithPnL(start time.Time, pnls ...float64) []types.TradeRecord {
	trades := make([]types.TradeRecord, 0, len(pnls))
	for i, pnl := range pnls {
		trades = append(trades, closedTrade(string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour), pnl))
	}

	return trades
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
