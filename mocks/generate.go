package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy Strategy
//go:generate mockgen -destination=./mock_classifier.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy/ml Classifier
//go:generate mockgen -destination=./mock_store.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker Store
//go:generate mockgen -destination=./mock_trade_listener.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor TradeListener
//go:generate mockgen -destination=./mock_notifier.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/pkg/notify Notifier
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_ohlc_provider.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider OHLCProvider
//go:generate mockgen -destination=./mock_price_provider.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata/provider PriceProvider
//go:generate mockgen -destination=./mock_price_source.go -package=mocks github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata PriceSource
