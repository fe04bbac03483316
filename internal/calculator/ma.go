package calculator

import "math"

// SMASeries returns the trailing SMA at every index; the first period-1 entries are NaN.
func SMASeries(prices []float64, period int) []float64 {
	out := nanSeries(len(prices))
	if period <= 0 {
		return out
	}
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMASeries returns the exponential moving average with smoothing 2/(period+1).
// See smooth for how NaN inputs and the warm-up are handled.
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 {
		return nanSeries(len(values))
	}
	return smooth(values, 2.0/float64(period+1), period)
}

// smooth applies y = alpha*x + (1-alpha)*y' seeded with the first defined value.
// Leading NaN inputs are skipped; an output is reported once minPeriods defined
// inputs have been absorbed.
func smooth(values []float64, alpha float64, minPeriods int) []float64 {
	out := nanSeries(len(values))
	var y float64
	seen := 0
	for i, x := range values {
		if math.IsNaN(x) {
			continue
		}
		if seen == 0 {
			y = x
		} else {
			y = alpha*x + (1-alpha)*y
		}
		seen++
		if seen >= minPeriods {
			out[i] = y
		}
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
