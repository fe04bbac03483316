package model

import "github.com/shopspring/decimal"

// IndicatorSnapshot holds the indicator values computed for one window position.
// Close keeps the observed decimal price; the derived values are float64.
type IndicatorSnapshot struct {
	Close      decimal.Decimal
	RSI        float64
	MACD       float64
	MACDSignal float64
	SMA        float64
	EMA        float64
}

// MACDHistogram returns MACD minus its signal line.
func (s IndicatorSnapshot) MACDHistogram() float64 {
	return s.MACD - s.MACDSignal
}
