package calculator

import "math"

// RSISeries computes the Wilder-smoothed RSI at every index.
//
// Gains and losses are smoothed recursively with factor 1/period, seeded at the
// first observation whose change counts as zero. Values are defined from index
// period-1. A zero average loss yields 100.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 {
		return nanSeries(len(closes))
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	alpha := 1.0 / float64(period)
	avgGain := smooth(gains, alpha, period)
	avgLoss := smooth(losses, alpha, period)

	out := nanSeries(len(closes))
	for i := range closes {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		if l == 0 {
			out[i] = 100.0
			continue
		}
		rsi := 100.0 - 100.0/(1.0+g/l)
		out[i] = math.Max(0, math.Min(100, rsi))
	}
	return out
}
