package model

// Signal is the discrete trading signal derived from the indicator state.
type Signal string

const (
	SignalNone      Signal = "NO_SIGNAL"
	SignalBuy       Signal = "BUY"
	SignalSell      Signal = "SELL"
	SignalBuyCross  Signal = "BUY_CROSS"
	SignalSellCross Signal = "SELL_CROSS"
)

// Label returns the human-readable text used in notifications.
func (s Signal) Label() string {
	switch s {
	case SignalBuy:
		return "BUY 📈"
	case SignalSell:
		return "SELL 📉"
	case SignalBuyCross:
		return "BUY 📈 (MACD Cross)"
	case SignalSellCross:
		return "SELL 📉 (MACD Cross)"
	default:
		return "NO SIGNAL"
	}
}

// IsCross reports whether the signal came from a MACD crossover.
func (s Signal) IsCross() bool {
	return s == SignalBuyCross || s == SignalSellCross
}

// Rule names which decision layer produced a signal.
type Rule string

const (
	RuleNone      Rule = "NONE"
	RuleBaseline  Rule = "BASELINE"
	RuleCrossover Rule = "CROSSOVER"
)

// Decision is the final output of the strategy engine.
type Decision struct {
	Signal   Signal
	Rule     Rule
	Latest   *IndicatorSnapshot
	Previous *IndicatorSnapshot // nil when only one row was available
}
