package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/writer"
	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"
)

// binancePageSize is the number of klines Binance returns per request by default.
const binancePageSize = 500

// binanceSymbols maps spot symbols to the Binance pair that tracks them.
// PAXG is backed by one troy ounce of gold per token.
var binanceSymbols = map[string]string{
	"XAUUSD": "PAXGUSDT",
}

// BinanceSymbol returns the Binance pair used for symbol.
func BinanceSymbol(symbol string) string {
	if mapped, ok := binanceSymbols[strings.ToUpper(symbol)]; ok {
		return mapped
	}

	return strings.ToUpper(symbol)
}

// BinanceKlinesService is the subset of the klines service used here.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinancePricesService is the subset of the list prices service used here.
type BinancePricesService interface {
	Symbol(symbol string) BinancePricesService
	Do(ctx context.Context) ([]*binance.SymbolPrice, error)
}

// BinanceAPIClient abstracts the Binance client so tests can replace it.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
	NewListPricesService() BinancePricesService
}

type binanceAPIAdapter struct {
	client *binance.Client
}

func (a *binanceAPIAdapter) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesAdapter{svc: a.client.NewKlinesService()}
}

func (a *binanceAPIAdapter) NewListPricesService() BinancePricesService {
	return &binancePricesAdapter{svc: a.client.NewListPricesService()}
}

type binanceKlinesAdapter struct {
	svc *binance.KlinesService
}

func (a *binanceKlinesAdapter) Symbol(symbol string) BinanceKlinesService {
	a.svc.Symbol(symbol)

	return a
}

func (a *binanceKlinesAdapter) Interval(interval string) BinanceKlinesService {
	a.svc.Interval(interval)

	return a
}

func (a *binanceKlinesAdapter) StartTime(startTime int64) BinanceKlinesService {
	a.svc.StartTime(startTime)

	return a
}

func (a *binanceKlinesAdapter) EndTime(endTime int64) BinanceKlinesService {
	a.svc.EndTime(endTime)

	return a
}

func (a *binanceKlinesAdapter) Limit(limit int) BinanceKlinesService {
	a.svc.Limit(limit)

	return a
}

func (a *binanceKlinesAdapter) Do(ctx context.Context) ([]*binance.Kline, error) {
	return a.svc.Do(ctx)
}

type binancePricesAdapter struct {
	svc *binance.ListPricesService
}

func (a *binancePricesAdapter) Symbol(symbol string) BinancePricesService {
	a.svc.Symbol(symbol)

	return a
}

func (a *binancePricesAdapter) Do(ctx context.Context) ([]*binance.SymbolPrice, error) {
	return a.svc.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	writer    writer.MarketDataWriter
}

// NewBinanceClient creates a client for the public market data endpoints.
func NewBinanceClient() (*BinanceClient, error) {
	return NewBinanceClientWithAPI(&binanceAPIAdapter{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a client backed by api.
func NewBinanceClientWithAPI(api BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: api,
		writer:    nil,
	}
}

func (c *BinanceClient) Name() string {
	return "Binance"
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// CurrentPrice returns the last traded price of the pair tracking symbol.
func (c *BinanceClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	pair := BinanceSymbol(symbol)

	prices, err := c.apiClient.NewListPricesService().Symbol(pair).Do(ctx)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s price from Binance", pair)
	}

	for _, p := range prices {
		if p.Symbol != pair {
			continue
		}

		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid Binance price %q", p.Price)
		}

		return price, nil
	}

	return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "Binance returned no price for %s", pair)
}

// FetchOHLC returns the latest limit klines for the pair tracking symbol.
// Bars carry the caller's symbol, not the Binance pair.
func (c *BinanceClient) FetchOHLC(ctx context.Context, symbol string, multiplier int, timespan models.Timespan, limit int) ([]types.MarketData, error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return nil, err
	}

	klines, err := c.apiClient.NewKlinesService().
		Symbol(BinanceSymbol(symbol)).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch klines from Binance", err)
	}

	bars := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		bar, err := klineToMarketData(symbol, k)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return tail(bars, limit), nil
}

// Download downloads the historical klines for the given ticker and date range from Binance
// and writes them using the configured writer.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return "", err
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	pair := BinanceSymbol(ticker)
	endTimeMillis := endDate.UnixMilli()
	currentStartTime := startDate.UnixMilli()

	for {
		if err := ctx.Err(); err != nil {
			return "", c.abort(errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "download cancelled", err))
		}

		klines, err := c.apiClient.NewKlinesService().
			Symbol(pair).
			Interval(interval).
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Do(ctx)
		if err != nil {
			return "", c.abort(errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch klines from Binance", err))
		}

		if onProgress != nil {
			onProgress(float64(currentStartTime), float64(endTimeMillis), fmt.Sprintf("Downloading %s klines from Binance", pair))
		}

		if err := c.processKlines(ticker, klines); err != nil {
			return "", c.abort(err)
		}

		// a short page is the last one
		if len(klines) < binancePageSize {
			break
		}

		currentStartTime = klines[len(klines)-1].CloseTime + 1
		if currentStartTime >= endTimeMillis {
			break
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// abort finalizes the writer after a failed download and returns cause.
func (c *BinanceClient) abort(cause error) error {
	if _, finalizeErr := c.writer.Finalize(); finalizeErr != nil {
		return errors.Wrapf(errors.GetCode(cause), cause, "also failed to finalize writer: %v", finalizeErr)
	}

	return cause
}

func (c *BinanceClient) processKlines(ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		bar, err := klineToMarketData(ticker, k)
		if err != nil {
			return err
		}

		if err := c.writer.Write(bar); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write market data", err)
		}
	}

	return nil
}

func klineToMarketData(symbol string, k *binance.Kline) (types.MarketData, error) {
	values := make([]float64, 5)

	for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q", raw)
		}

		values[i] = v
	}

	return types.MarketData{
		Id:     "",
		Symbol: symbol,
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

// convertTimespanToBinanceInterval converts the polygon timespan and multiplier to a Binance interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func convertTimespanToBinanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		if multiplier == 1 {
			return "1w", nil
		}

		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported weekly multiplier for Binance: %d", multiplier)
	case models.Month:
		if multiplier == 1 {
			return "1M", nil
		}

		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported monthly multiplier for Binance: %d", multiplier)
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timespan for Binance: %s", timespan)
	}
}

var (
	_ Provider      = (*BinanceClient)(nil)
	_ OHLCProvider  = (*BinanceClient)(nil)
	_ PriceProvider = (*BinanceClient)(nil)
)
