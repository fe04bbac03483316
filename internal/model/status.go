package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a point-in-time view of the cycle executor for operators.
type Status struct {
	Feed           string
	LastSignal     Signal    // empty until a cycle has decided
	LastCycleAt    time.Time // zero before the first cycle
	LastPrice      decimal.NullDecimal
	WindowLength   int
	WindowCapacity int
	Cycles         int
	SuppressRepeat bool
}
