package calculator

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Params holds the indicator lookbacks.
type Params struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	SMAPeriod  int
	EMAPeriod  int
}

// DefaultParams are tuned for a one-minute index: short RSI, fast MACD.
var DefaultParams = Params{
	RSIPeriod:  7,
	MACDFast:   5,
	MACDSlow:   12,
	MACDSignal: 3,
	SMAPeriod:  10,
	EMAPeriod:  5,
}

// Validate checks that every period is usable.
func (p Params) Validate() error {
	if p.RSIPeriod <= 0 || p.MACDFast <= 0 || p.MACDSlow <= 0 || p.MACDSignal <= 0 ||
		p.SMAPeriod <= 0 || p.EMAPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive: %+v", p)
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("MACD fast period %d must be below slow period %d", p.MACDFast, p.MACDSlow)
	}
	return nil
}

// MinObservations is the window length needed for the first complete row.
// The MACD signal line is only reported after slow+signal observations.
func (p Params) MinObservations() int {
	n := p.MACDSlow + p.MACDSignal
	for _, v := range []int{p.RSIPeriod, p.SMAPeriod, p.EMAPeriod} {
		if v > n {
			n = v
		}
	}
	return n
}

// Compute derives indicator rows from prices using DefaultParams.
func Compute(prices []decimal.Decimal) []model.IndicatorSnapshot {
	return ComputeWith(DefaultParams, prices)
}

// ComputeWith derives one indicator row per price, oldest first, dropping
// rows where any indicator is still undefined.
func ComputeWith(p Params, prices []decimal.Decimal) []model.IndicatorSnapshot {
	if p.Validate() != nil {
		return nil
	}
	first := p.MinObservations() - 1
	if len(prices) <= first {
		return nil
	}

	closes := toFloats(prices)
	rsi := RSISeries(closes, p.RSIPeriod)
	macd, signal := MACDSeries(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	sma := SMASeries(closes, p.SMAPeriod)
	ema := EMASeries(closes, p.EMAPeriod)

	rows := make([]model.IndicatorSnapshot, 0, len(prices)-first)
	for i := first; i < len(prices); i++ {
		if anyNaN(rsi[i], macd[i], signal[i], sma[i], ema[i]) {
			continue
		}
		rows = append(rows, model.IndicatorSnapshot{
			Close:      prices[i],
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			SMA:        sma[i],
			EMA:        ema[i],
		})
	}
	return rows
}

func toFloats(prices []decimal.Decimal) []float64 {
	out := make([]float64, len(prices))
	for i, d := range prices {
		out[i] = d.InexactFloat64()
	}
	return out
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
