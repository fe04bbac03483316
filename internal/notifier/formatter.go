package notifier

import (
	"fmt"
	"strings"
	"time"

	"SignalSentinel/internal/model"
)

// FormatSignal formats a decision into the signal message.
func FormatSignal(d *model.Decision) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 Crypto IDX Signal: %s", d.Signal.Label()))

	if s := d.Latest; s != nil {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Price: %s\n", s.Close.String()))
		b.WriteString(fmt.Sprintf("RSI: %.2f\n", s.RSI))
		b.WriteString(fmt.Sprintf("MACD: %.10f | Signal: %.10f\n", s.MACD, s.MACDSignal))
		b.WriteString(fmt.Sprintf("SMA: %.10f\n", s.SMA))
		b.WriteString(fmt.Sprintf("EMA: %.10f", s.EMA))
	}
	return b.String()
}

// FormatStatus formats the executor status for the /status command.
func FormatStatus(st model.Status) string {
	var b strings.Builder
	b.WriteString("📦 <b>Sentinel status</b>\n\n")
	b.WriteString(fmt.Sprintf("Feed: %s\n", st.Feed))
	b.WriteString(fmt.Sprintf("Window: %d/%d\n", st.WindowLength, st.WindowCapacity))
	if st.LastPrice.Valid {
		b.WriteString(fmt.Sprintf("Last price: %s\n", st.LastPrice.Decimal.String()))
	}
	if st.LastSignal == "" {
		b.WriteString("Last signal: none yet\n")
	} else {
		b.WriteString(fmt.Sprintf("Last signal: %s\n", st.LastSignal.Label()))
	}
	if !st.LastCycleAt.IsZero() {
		b.WriteString(fmt.Sprintf("Last cycle: %s\n", st.LastCycleAt.Format(time.DateTime)))
	}
	b.WriteString(fmt.Sprintf("Cycles: %d\n", st.Cycles))
	b.WriteString(fmt.Sprintf("Repeat suppression: %v", st.SuppressRepeat))
	return b.String()
}

// HelpText lists the supported commands.
const HelpText = "Available commands:\n• /status\n• /help"
