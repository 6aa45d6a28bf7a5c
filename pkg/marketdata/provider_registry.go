package marketdata

import (
	"sort"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/schema"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name             string `json:"name"`
	DisplayName      string `json:"displayName"`
	Description      string `json:"description"`
	RequiresAuth     bool   `json:"requiresAuth"`
	SupportsDownload bool   `json:"supportsDownload"`
	SupportsBars     bool   `json:"supportsBars"`
	SupportsPrice    bool   `json:"supportsPrice"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[ProviderType]ProviderInfo{
	provider.ProviderPolygon: {
		Name:             string(provider.ProviderPolygon),
		DisplayName:      "Polygon.io",
		Description:      "Historical and recent forex aggregates, C:XAUUSD for gold",
		RequiresAuth:     true,
		SupportsDownload: true,
		SupportsBars:     true,
	},
	provider.ProviderBinance: {
		Name:             string(provider.ProviderBinance),
		DisplayName:      "Binance",
		Description:      "Crypto exchange klines, gold is tracked through PAXGUSDT",
		SupportsDownload: true,
		SupportsBars:     true,
		SupportsPrice:    true,
	},
	provider.ProviderTwelveData: {
		Name:          string(provider.ProviderTwelveData),
		DisplayName:   "Twelve Data",
		Description:   "Forex time series and real-time prices",
		RequiresAuth:  true,
		SupportsBars:  true,
		SupportsPrice: true,
	},
	provider.ProviderAlphaVantage: {
		Name:          string(provider.ProviderAlphaVantage),
		DisplayName:   "Alpha Vantage",
		Description:   "FX intraday series and realtime exchange rates",
		RequiresAuth:  true,
		SupportsBars:  true,
		SupportsPrice: true,
	},
	provider.ProviderFreeForex: {
		Name:          string(provider.ProviderFreeForex),
		DisplayName:   "FreeForexAPI",
		Description:   "Free live forex rates",
		SupportsPrice: true,
	},
	provider.ProviderGoldAPI: {
		Name:          string(provider.ProviderGoldAPI),
		DisplayName:   "GoldAPI",
		Description:   "Spot prices for precious metals",
		RequiresAuth:  true,
		SupportsPrice: true,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema for a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return schema.ToJSONSchema(PolygonDownloadConfig{})
	case ProviderBinance:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return schema.ToJSONSchema(BinanceDownloadConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "provider %s does not support downloads", providerName)
	}
}

// ParseDownloadConfig parses a JSON configuration string for the given provider
// and returns the download parameters and client configuration it describes.
func ParseDownloadConfig(providerName string, jsonConfig string, dataPath string) (DownloadParams, ClientConfig, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		cfg, err := ParsePolygonConfig(jsonConfig)
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}

		params, err := cfg.ToDownloadParams()

		return params, cfg.ToClientConfig(dataPath), err
	case ProviderBinance:
		cfg, err := ParseBinanceConfig(jsonConfig)
		if err != nil {
			return DownloadParams{}, ClientConfig{}, err
		}

		params, err := cfg.ToDownloadParams()

		return params, cfg.ToClientConfig(dataPath), err
	default:
		return DownloadParams{}, ClientConfig{}, errors.Newf(errors.ErrCodeInvalidProvider, "provider %s does not support downloads", providerName)
	}
}
