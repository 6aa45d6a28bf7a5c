package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// RecommendationStrategyName is recorded as the strategy of trades opened from a combined signal.
const RecommendationStrategyName = "Algorithm_Manager"

// Recommendation is a combined signal ready to act on.
type Recommendation struct {
	Signal       types.SignalType
	CurrentPrice float64
	StopLoss     optional.Option[float64]
	TakeProfit   optional.Option[float64]
	// Algorithms lists the strategies that voted, in registration order.
	Algorithms []string
	Confidence optional.Option[float64]
}

// Notes renders the recommendation summary stored on the trade.
func (r Recommendation) Notes() string {
	confidence := "N/A"
	if r.Confidence.IsSome() {
		confidence = fmt.Sprintf("%.2f", r.Confidence.Unwrap())
	}

	return fmt.Sprintf("Algorithms: %s | Confidence: %s", strings.Join(r.Algorithms, ", "), confidence)
}

// OpenFromRecommendation opens LONG on BUY and SHORT on SELL. It returns an empty
// id when the signal is HOLD or there is no price.
func (m *Monitor) OpenFromRecommendation(ctx context.Context, rec Recommendation, symbol string, size float64) (string, error) {
	positionType, ok := types.PositionTypeFromSignal(rec.Signal)
	if !ok {
		return "", nil
	}

	if rec.CurrentPrice <= 0 {
		m.logger.Warn("No current price for recommendation", zap.String("signal", string(rec.Signal)))

		return "", nil
	}

	return m.OpenTrade(ctx, OpenTradeRequest{
		Symbol:       symbol,
		EntryPrice:   rec.CurrentPrice,
		PositionType: positionType,
		PositionSize: size,
		StrategyName: RecommendationStrategyName,
		StopLoss:     rec.StopLoss,
		TakeProfit:   rec.TakeProfit,
		Notes:        rec.Notes(),
	})
}
