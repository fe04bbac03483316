package calculator

import "math"

// MACDSeries returns the MACD line (EMA(fast) - EMA(slow)) and its signal line
// (EMA(signal) of the MACD line) at every index.
func MACDSeries(prices []float64, fast, slow, signal int) (line, signalLine []float64) {
	emaFast := EMASeries(prices, fast)
	emaSlow := EMASeries(prices, slow)

	line = nanSeries(len(prices))
	for i := range prices {
		if math.IsNaN(emaFast[i]) || math.IsNaN(emaSlow[i]) {
			continue
		}
		line[i] = emaFast[i] - emaSlow[i]
	}
	return line, EMASeries(line, signal)
}
