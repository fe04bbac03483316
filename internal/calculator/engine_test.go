package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimals(vals ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams.Validate())

	p := DefaultParams
	p.RSIPeriod = 0
	assert.Error(t, p.Validate())

	p = DefaultParams
	p.MACDFast = p.MACDSlow
	assert.Error(t, p.Validate())
}

func TestMinObservations(t *testing.T) {
	assert.Equal(t, 15, DefaultParams.MinObservations())

	p := DefaultParams
	p.SMAPeriod = 30
	assert.Equal(t, 30, p.MinObservations())
}

func TestCompute_ShortWindowIsEmpty(t *testing.T) {
	for n := 0; n < 15; n++ {
		assert.Empty(t, Compute(decimals(flat(n, 100)...)), "window of %d", n)
	}
	assert.Len(t, Compute(decimals(flat(15, 100)...)), 1)
}

func TestCompute_OneRowPerCompletePosition(t *testing.T) {
	rows := Compute(decimals(flat(50, 100)...))
	require.Len(t, rows, 36)

	last := rows[len(rows)-1]
	assert.True(t, last.Close.Equal(decimal.NewFromInt(100)))
	assert.InDelta(t, 100, last.RSI, tolerance)
	assert.InDelta(t, 0, last.MACD, tolerance)
	assert.InDelta(t, 0, last.MACDSignal, tolerance)
	assert.InDelta(t, 100, last.SMA, tolerance)
	assert.InDelta(t, 100, last.EMA, tolerance)
}

func TestCompute_RisingTail(t *testing.T) {
	prices := append(flat(14, 100), 101, 102, 103, 104, 105, 106)
	rows := Compute(decimals(prices...))
	require.Len(t, rows, 6)

	first := rows[0]
	assert.True(t, first.Close.Equal(decimal.NewFromInt(101)))
	assert.InDelta(t, 0.1794871794871824, first.MACD, tolerance)
	assert.InDelta(t, 0.0897435897435912, first.MACDSignal, tolerance)
	assert.InDelta(t, 100.1, first.SMA, tolerance)
	assert.InDelta(t, 100.33333333333334, first.EMA, tolerance)

	last := rows[5]
	assert.True(t, last.Close.Equal(decimal.NewFromInt(106)))
	assert.InDelta(t, 100, last.RSI, tolerance)
	assert.InDelta(t, 1.656943864631728, last.MACD, tolerance)
	assert.InDelta(t, 1.3717876048592883, last.MACDSignal, tolerance)
	assert.InDelta(t, 102.1, last.SMA, tolerance)
	assert.InDelta(t, 104.17558299039783, last.EMA, tolerance)
}

func TestCompute_MixedSeries(t *testing.T) {
	prices := []float64{100, 97, 99, 102, 104, 104, 106, 106, 107, 110, 110, 111, 110, 112, 110, 108, 107, 105, 108, 110}
	rows := Compute(decimals(prices...))
	require.Len(t, rows, 6)

	prev, last := rows[4], rows[5]
	assert.InDelta(t, 53.59913652119567, prev.RSI, 1e-6)
	assert.InDelta(t, 0.18926807272296742, prev.MACD, 1e-6)
	assert.InDelta(t, 0.4843112197940044, prev.MACDSignal, 1e-6)
	assert.InDelta(t, 61.34522196124383, last.RSI, 1e-6)
	assert.InDelta(t, 0.5901023057604533, last.MACD, 1e-6)
	assert.InDelta(t, 0.5372067627772288, last.MACDSignal, 1e-6)
	assert.InDelta(t, 109.1, last.SMA, 1e-6)
	assert.InDelta(t, 108.40303395001911, last.EMA, 1e-6)
}

func TestCompute_RowsFollowSeries(t *testing.T) {
	prices := []float64{100, 97, 99, 102, 104, 104, 106, 106, 107, 110, 110, 111, 110, 112, 110, 108, 107, 105, 108, 110}
	rows := Compute(decimals(prices...))
	require.NotEmpty(t, rows)

	rsi := RSISeries(prices, DefaultParams.RSIPeriod)
	sma := SMASeries(prices, DefaultParams.SMAPeriod)
	offset := len(prices) - len(rows)
	for i, row := range rows {
		assert.InDelta(t, rsi[offset+i], row.RSI, 1e-12, "row %d", i)
		assert.InDelta(t, sma[offset+i], row.SMA, 1e-12, "row %d", i)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	prices := decimals(100, 99, 97, 97, 99, 96, 93, 96, 97, 94, 93, 94, 91, 92, 90, 87, 84, 84, 84, 81)
	a := Compute(prices)
	b := Compute(prices)
	assert.Equal(t, a, b)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	prices := decimals(append(flat(14, 100), 101, 102, 103)...)
	before := make([]decimal.Decimal, len(prices))
	copy(before, prices)

	Compute(prices)

	for i := range prices {
		assert.True(t, before[i].Equal(prices[i]))
	}
}

func TestComputeWith_InvalidParams(t *testing.T) {
	p := DefaultParams
	p.EMAPeriod = -1
	assert.Nil(t, ComputeWith(p, decimals(flat(30, 100)...)))
}
