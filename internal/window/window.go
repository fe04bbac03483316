// Package window keeps the bounded, oldest-first buffer of observed prices.
package window

import "github.com/shopspring/decimal"

// DefaultCapacity is the number of observations kept when none is configured.
const DefaultCapacity = 50

// PriceWindow is a FIFO buffer of the most recent price observations.
// It is owned by a single cycle executor and is not safe for concurrent use.
type PriceWindow struct {
	prices   []decimal.Decimal
	capacity int
}

// New creates an empty window. A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *PriceWindow {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &PriceWindow{
		prices:   make([]decimal.Decimal, 0, capacity),
		capacity: capacity,
	}
}

// Seed replaces the contents with the tail of history, keeping original order.
func (w *PriceWindow) Seed(history []decimal.Decimal) {
	if len(history) > w.capacity {
		history = history[len(history)-w.capacity:]
	}
	w.prices = append(w.prices[:0], history...)
}

// Append adds obs and evicts the oldest entries beyond capacity.
// An invalid (absent) observation leaves the window unchanged.
func (w *PriceWindow) Append(obs decimal.NullDecimal) {
	if !obs.Valid {
		return
	}
	w.prices = append(w.prices, obs.Decimal)
	if over := len(w.prices) - w.capacity; over > 0 {
		// shift in place so the backing array does not grow without bound
		n := copy(w.prices, w.prices[over:])
		w.prices = w.prices[:n]
	}
}

// Snapshot returns a copy of the observations, oldest first.
func (w *PriceWindow) Snapshot() []decimal.Decimal {
	out := make([]decimal.Decimal, len(w.prices))
	copy(out, w.prices)
	return out
}

// Latest returns the newest observation, if any.
func (w *PriceWindow) Latest() (decimal.Decimal, bool) {
	if len(w.prices) == 0 {
		return decimal.Zero, false
	}
	return w.prices[len(w.prices)-1], true
}

func (w *PriceWindow) Len() int { return len(w.prices) }
func (w *PriceWindow) Cap() int { return w.capacity }
