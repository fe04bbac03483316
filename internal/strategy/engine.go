package strategy

import (
	"SignalSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// RSIMidline splits bullish from bearish momentum for the baseline rule.
const RSIMidline = 50.0

// Decide returns the signal for the latest indicator rows.
func Decide(snapshots []model.IndicatorSnapshot) model.Signal {
	return Evaluate(snapshots).Signal
}

// Evaluate computes the full decision from the last two indicator rows.
// The crossover rule runs after the baseline rule and overrides it.
func Evaluate(snapshots []model.IndicatorSnapshot) *model.Decision {
	if len(snapshots) == 0 {
		return &model.Decision{Signal: model.SignalNone, Rule: model.RuleNone}
	}

	latest := snapshots[len(snapshots)-1]
	d := &model.Decision{Latest: &latest}
	if len(snapshots) > 1 {
		prev := snapshots[len(snapshots)-2]
		d.Previous = &prev
	}

	d.Signal = baseline(latest)
	if d.Signal != model.SignalNone {
		d.Rule = model.RuleBaseline
	} else {
		d.Rule = model.RuleNone
	}

	if d.Previous != nil {
		if cross := crossover(*d.Previous, latest); cross != model.SignalNone {
			d.Signal = cross
			d.Rule = model.RuleCrossover
		}
	}
	return d
}

// baseline: oversold momentum with price above its EMA buys, the mirror sells.
func baseline(s model.IndicatorSnapshot) model.Signal {
	// NewFromFloat takes the shortest decimal that round-trips to EMA, not its exact binary value.
	cmp := s.Close.Cmp(decimal.NewFromFloat(s.EMA))
	switch {
	case s.RSI < RSIMidline && cmp > 0:
		return model.SignalBuy
	case s.RSI > RSIMidline && cmp < 0:
		return model.SignalSell
	default:
		return model.SignalNone
	}
}

// crossover detects the MACD line moving strictly through its signal line.
func crossover(prev, cur model.IndicatorSnapshot) model.Signal {
	switch {
	case cur.MACD > cur.MACDSignal && prev.MACD < prev.MACDSignal:
		return model.SignalBuyCross
	case cur.MACD < cur.MACDSignal && prev.MACD > prev.MACDSignal:
		return model.SignalSellCross
	default:
		return model.SignalNone
	}
}
