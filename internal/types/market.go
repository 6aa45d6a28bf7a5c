package types

import "time"

// MarketData is one OHLC bar. Series of bars are ordered by Time ascending.
type MarketData struct {
	Id     string    `csv:"id" json:"id,omitempty"`
	Symbol string    `csv:"symbol" json:"symbol"`
	Time   time.Time `csv:"time" json:"time"`
	Open   float64   `csv:"open" json:"open"`
	High   float64   `csv:"high" json:"high"`
	Low    float64   `csv:"low" json:"low"`
	Close  float64   `csv:"close" json:"close"`
	Volume float64   `csv:"volume" json:"volume"`
}

// IsBullish reports whether the bar closed above its open.
func (m MarketData) IsBullish() bool {
	return m.Close > m.Open
}

// IsBearish reports whether the bar closed below its open.
func (m MarketData) IsBearish() bool {
	return m.Close < m.Open
}
