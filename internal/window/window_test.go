package window

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prices(from, to int) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, decimal.NewFromInt(int64(i)))
	}
	return out
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-3).Cap())
	assert.Equal(t, 7, New(7).Cap())
}

func TestSeed_KeepsTailInOrder(t *testing.T) {
	w := New(50)
	w.Seed(prices(1, 60))

	snap := w.Snapshot()
	require.Len(t, snap, 50)
	assert.True(t, snap[0].Equal(decimal.NewFromInt(11)))
	assert.True(t, snap[49].Equal(decimal.NewFromInt(60)))
}

func TestSeed_ReplacesContents(t *testing.T) {
	w := New(5)
	w.Seed(prices(1, 3))
	w.Seed(prices(10, 11))

	snap := w.Snapshot()
	require.Len(t, snap, 2)
	assert.True(t, snap[0].Equal(decimal.NewFromInt(10)))
}

func TestAppend_EvictsOldestFirst(t *testing.T) {
	w := New(50)
	w.Seed(prices(1, 50))

	w.Append(valid(decimal.NewFromInt(51)))

	snap := w.Snapshot()
	require.Len(t, snap, 50)
	assert.True(t, snap[0].Equal(decimal.NewFromInt(2)), "entry 1 should have been evicted")
	assert.True(t, snap[49].Equal(decimal.NewFromInt(51)))
}

func TestAppend_NeverExceedsCapacity(t *testing.T) {
	w := New(50)
	for i := 0; i < 500; i++ {
		w.Append(valid(decimal.NewFromInt(int64(i))))
		assert.LessOrEqual(t, w.Len(), 50)
	}
	latest, ok := w.Latest()
	require.True(t, ok)
	assert.True(t, latest.Equal(decimal.NewFromInt(499)))
	assert.True(t, w.Snapshot()[0].Equal(decimal.NewFromInt(450)))
}

func TestAppend_AbsentIsNoop(t *testing.T) {
	w := New(50)
	w.Seed(prices(1, 20))

	w.Append(decimal.NullDecimal{})

	assert.Equal(t, 20, w.Len())
	latest, _ := w.Latest()
	assert.True(t, latest.Equal(decimal.NewFromInt(20)))
}

func TestAppend_KeepsDecimalPrecision(t *testing.T) {
	w := New(3)
	p := decimal.RequireFromString("1234.5678901234567890123")
	w.Append(valid(p))

	latest, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, "1234.5678901234567890123", latest.String())
}

func TestSnapshot_IsCopy(t *testing.T) {
	w := New(5)
	w.Seed(prices(1, 3))

	snap := w.Snapshot()
	snap[0] = decimal.NewFromInt(99)

	assert.True(t, w.Snapshot()[0].Equal(decimal.NewFromInt(1)))
}

func TestLatest_Empty(t *testing.T) {
	_, ok := New(5).Latest()
	assert.False(t, ok)
}
