package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// DataGenerator generates gold OHLC series for tests and backtests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol, XAUUSD by default
	Symbol string
	// StartTime is the time of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.002 = 0.2% per bar)
	Volatility float64
	// Trend is the total drift over the whole series (-0.1 to 0.1 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns an hourly XAUUSD configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "XAUUSD",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Hour,
		Count:          500,
		InitialPrice:   2000.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     1000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		price := open * (1 + priceChange + drift)
		if price <= 0 {
			price = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, price) + highExtension
		low := math.Min(open, price) - lowExtension
		if low <= 0 {
			low = math.Min(open, price) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.MarketData{
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 2),
			High:   roundToDecimals(high, 2),
			Low:    roundToDecimals(low, 2),
			Close:  roundToDecimals(price, 2),
			Volume: roundToDecimals(volume, 2),
		}

		currentPrice = price
		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// FromCloses builds an hourly series whose bars open at the previous close and
// extend spread above and below the body. Strategy tests use it to script exact
// crossovers.
func FromCloses(symbol string, closes []float64, spread float64) []types.MarketData {
	start := DefaultConfig().StartTime
	data := make([]types.MarketData, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		data[i] = types.MarketData{
			Symbol: symbol,
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   math.Max(open, c) + spread,
			Low:    math.Min(open, c) - spread,
			Close:  c,
			Volume: 1000,
		}
	}

	return data
}

// Flat returns n closes at price.
func Flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}

	return out
}

// Ramp returns n closes starting at start and moving step per bar.
func Ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}

// GenerateGold generates count hourly XAUUSD bars with a fixed seed.
func GenerateGold(count int) []types.MarketData {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = count

	return gen.Generate(config)
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
