package provider

import (
	"context"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/writer"
	"github.com/polygon-io/client-go/rest/models"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon      ProviderType = "polygon"
	ProviderBinance      ProviderType = "binance"
	ProviderTwelveData   ProviderType = "twelvedata"
	ProviderAlphaVantage ProviderType = "alphavantage"
	ProviderFreeForex    ProviderType = "freeforex"
	ProviderGoldAPI      ProviderType = "goldapi"
)

type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads historical bars into a writer.
type Provider interface {
	// ConfigWriter configures the writer the downloaded bars are written to.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download downloads the data for the given ticker and date range.
	// The context can be used to cancel the download operation.
	// example:
	// Download(ctx, "XAUUSD", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, models.Hour, onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error)
}

// OHLCProvider fetches the most recent bars for a symbol.
type OHLCProvider interface {
	Name() string
	// FetchOHLC returns at most limit bars ordered by time ascending.
	FetchOHLC(ctx context.Context, symbol string, multiplier int, timespan models.Timespan, limit int) ([]types.MarketData, error)
}

// PriceProvider fetches the current spot price for a symbol.
type PriceProvider interface {
	Name() string
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// NewMarketDataProvider creates a downloader based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// SplitPair splits a six letter pair such as XAUUSD into XAU and USD.
// Pairs already written as XAU/USD are split on the slash.
func SplitPair(symbol string) (base string, quote string, err error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if b, q, ok := strings.Cut(symbol, "/"); ok && b != "" && q != "" {
		return b, q, nil
	}

	if len(symbol) != 6 {
		return "", "", errors.Newf(errors.ErrCodeInvalidParameter, "symbol %q is not a currency pair", symbol)
	}

	return symbol[:3], symbol[3:], nil
}

// reverseBars reverses bars in place.
func reverseBars(bars []types.MarketData) {
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
}

// tail returns the last limit bars.
func tail(bars []types.MarketData, limit int) []types.MarketData {
	if limit > 0 && len(bars) > limit {
		return bars[len(bars)-limit:]
	}

	return bars
}
