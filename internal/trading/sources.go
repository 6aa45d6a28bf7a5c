package trading

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/config"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// BuildBarProviders creates the configured OHLC providers in fallback order.
// Providers without an API key are skipped with a warning.
func BuildBarProviders(cfg config.ProvidersConfig, log *logger.Logger, opts ...provider.HTTPOption) ([]provider.OHLCProvider, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	opts = append([]provider.HTTPOption{provider.WithTimeout(cfg.Timeout)}, opts...)
	providers := make([]provider.OHLCProvider, 0, len(cfg.Bars))

	for _, name := range cfg.Bars {
		var (
			p   provider.OHLCProvider
			err error
		)

		switch provider.ProviderType(name) {
		case provider.ProviderTwelveData:
			p, err = provider.NewTwelveDataClient(cfg.TwelveDataKey, opts...)
		case provider.ProviderAlphaVantage:
			p, err = provider.NewAlphaVantageClient(cfg.AlphaVantageKey, opts...)
		case provider.ProviderBinance:
			p, err = provider.NewBinanceClient()
		case provider.ProviderPolygon:
			p, err = provider.NewPolygonClient(cfg.PolygonKey)
		default:
			return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported bar provider: %s", name)
		}

		if err != nil {
			log.Warn("Skipping bar provider", zap.String("provider", name), zap.Error(err))

			continue
		}

		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "no usable bar provider, check the API keys")
	}

	return providers, nil
}

// BuildPriceProviders creates the configured spot price providers in fallback order.
// Providers without an API key are skipped with a warning.
func BuildPriceProviders(cfg config.ProvidersConfig, log *logger.Logger, opts ...provider.HTTPOption) ([]provider.PriceProvider, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	opts = append([]provider.HTTPOption{provider.WithTimeout(cfg.Timeout)}, opts...)
	providers := make([]provider.PriceProvider, 0, len(cfg.Prices))

	for _, name := range cfg.Prices {
		var (
			p   provider.PriceProvider
			err error
		)

		switch provider.ProviderType(name) {
		case provider.ProviderFreeForex:
			p = provider.NewFreeForexClient(opts...)
		case provider.ProviderGoldAPI:
			p, err = provider.NewGoldAPIClient(cfg.GoldAPIKey, opts...)
		case provider.ProviderAlphaVantage:
			p, err = provider.NewAlphaVantageClient(cfg.AlphaVantageKey, opts...)
		case provider.ProviderTwelveData:
			p, err = provider.NewTwelveDataClient(cfg.TwelveDataKey, opts...)
		case provider.ProviderBinance:
			p, err = provider.NewBinanceClient()
		default:
			return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported price provider: %s", name)
		}

		if err != nil {
			log.Warn("Skipping price provider", zap.String("provider", name), zap.Error(err))

			continue
		}

		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "no usable price provider, check the API keys")
	}

	return providers, nil
}
