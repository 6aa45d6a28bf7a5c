package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/writer"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// PolygonAggsIterator is the iterator returned by ListAggs.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the Polygon REST client so tests can replace it.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	writer    writer.MarketDataWriter
	logger    *logger.Logger
	now       func() time.Time
}

func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIAdapter{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a client backed by api.
func NewPolygonClientWithAPI(api PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: api,
		writer:    nil,
		logger:    logger.NewNopLogger(),
		now:       time.Now,
	}
}

// SetLogger replaces the no-op logger.
func (c *PolygonClient) SetLogger(log *logger.Logger) {
	c.logger = log
}

func (c *PolygonClient) Name() string {
	return "Polygon"
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// PolygonTicker returns the Polygon ticker for symbol. Currency pairs use the C: prefix.
func PolygonTicker(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if strings.Contains(symbol, ":") {
		return symbol
	}

	if _, _, err := SplitPair(symbol); err == nil {
		return "C:" + strings.ReplaceAll(symbol, "/", "")
	}

	return symbol
}

// FetchOHLC returns the latest limit aggregates for symbol, oldest first.
func (c *PolygonClient) FetchOHLC(ctx context.Context, symbol string, multiplier int, timespan models.Timespan, limit int) ([]types.MarketData, error) {
	span := SpanDuration(multiplier, timespan)
	if span <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timespan for Polygon: %s", timespan)
	}

	to := c.now()
	// markets close on weekends so the window is padded
	from := to.Add(-span * time.Duration(limit) * 3)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     PolygonTicker(symbol),
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Desc).WithLimit(limit)

	it := c.apiClient.ListAggs(ctx, params)

	bars := make([]types.MarketData, 0, limit)
	for len(bars) < limit && it.Next() {
		bars = append(bars, aggToMarketData(symbol, it.Item()))
	}

	if err := it.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", err)
	}

	reverseBars(bars)

	return bars, nil
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "no writer configured for PolygonClient. Call ConfigWriter first")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil {
			if err == nil {
				err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "error closing writer", cerr)
			} else {
				c.logger.Warn("Error closing writer after another error", zap.Error(cerr))
			}
		}
	}()

	totalIterations := int(endDate.Sub(startDate).Hours()/24) + 1

	bar := progressbar.NewOptions(totalIterations, progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)), progressbar.OptionShowCount())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     PolygonTicker(ticker),
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	it := c.apiClient.ListAggs(ctx, params)

	processedCount := 0

	for it.Next() {
		agg := it.Item()

		if err := c.writer.Write(aggToMarketData(ticker, agg)); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write data", err)
		}

		processedCount++
		if processedCount%1000 == 0 {
			daysElapsed := int(time.Time(agg.Timestamp).Sub(startDate).Hours() / 24)
			bar.Set(daysElapsed)

			if onProgress != nil {
				onProgress(float64(daysElapsed), float64(totalIterations), fmt.Sprintf("Downloading %s", ticker))
			}
		}
	}

	if err := it.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", err)
	}

	bar.Finish()
	c.logger.Info("Finished downloading", zap.Int("bars", processedCount), zap.String("ticker", ticker))

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

func aggToMarketData(symbol string, agg models.Agg) types.MarketData {
	return types.MarketData{
		Id:     "",
		Symbol: symbol,
		Time:   time.Time(agg.Timestamp).UTC(),
		Open:   agg.Open,
		High:   agg.High,
		Low:    agg.Low,
		Close:  agg.Close,
		Volume: agg.Volume,
	}
}

// SpanDuration returns the length of one bar. Months count as 30 days.
// Unsupported timespans return 0.
func SpanDuration(multiplier int, timespan models.Timespan) time.Duration {
	var unit time.Duration

	switch timespan {
	case models.Second:
		unit = time.Second
	case models.Minute:
		unit = time.Minute
	case models.Hour:
		unit = time.Hour
	case models.Day:
		unit = 24 * time.Hour
	case models.Week:
		unit = 7 * 24 * time.Hour
	case models.Month:
		unit = 30 * 24 * time.Hour
	default:
		return 0
	}

	return unit * time.Duration(multiplier)
}

var (
	_ Provider     = (*PolygonClient)(nil)
	_ OHLCProvider = (*PolygonClient)(nil)
)
