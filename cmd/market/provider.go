package main

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
)

type MarketProvider = string

const (
	MarketProviderPolygon MarketProvider = "polygon"
	MarketProviderBinance MarketProvider = "binance"
)

// downloadProvider returns the provider type for name when it supports historical downloads.
func downloadProvider(name string) (marketdata.ProviderType, error) {
	info, err := marketdata.GetProviderInfo(name)
	if err != nil {
		return "", err
	}

	if !info.SupportsDownload {
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "provider %s does not support downloads", name)
	}

	return marketdata.ProviderType(name), nil
}
