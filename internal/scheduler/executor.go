package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
	"SignalSentinel/internal/window"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Feed supplies prices with failures already reduced to "no data".
type Feed interface {
	History(ctx context.Context) []decimal.Decimal
	Latest(ctx context.Context) decimal.NullDecimal
}

// Notifier delivers signal text.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Options configures an Executor.
type Options struct {
	FeedName        string
	WindowSize      int
	MinObservations int
	SuppressRepeats bool
	Params          calculator.Params
}

// CycleResult describes what one cycle did.
type CycleResult struct {
	ID       string
	Outcome  string // one of the metrics.Outcome* values
	Decision *model.Decision
	Sent     bool
	SendErr  error
}

// Executor owns the price window and the last signal and runs one
// poll-compute-notify cycle at a time. RunCycle must not be called concurrently.
type Executor struct {
	Feed     Feed
	Notifier Notifier
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics

	opts       Options
	window     *window.PriceWindow
	lastSignal model.Signal
	cycles     int

	// guards status only; it is read by the command poller
	mu     sync.Mutex
	status model.Status
}

// NewExecutor creates an executor with an empty window.
func NewExecutor(feed Feed, n Notifier, rec recorder.Recorder, m *metrics.Metrics, opts Options) *Executor {
	if opts.Params == (calculator.Params{}) {
		opts.Params = calculator.DefaultParams
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	w := window.New(opts.WindowSize)
	return &Executor{
		Feed:     feed,
		Notifier: n,
		Recorder: rec,
		Metrics:  m,
		opts:     opts,
		window:   w,
		status: model.Status{
			Feed:           opts.FeedName,
			WindowCapacity: w.Cap(),
			SuppressRepeat: opts.SuppressRepeats,
		},
	}
}

// Bootstrap seeds the window from the feed's history. An unavailable feed
// leaves the window empty; live polls fill it over time.
func (e *Executor) Bootstrap(ctx context.Context) {
	e.window.Seed(e.Feed.History(ctx))
	log.Printf("[INFO] price window seeded with %d/%d observations", e.window.Len(), e.window.Cap())
	e.Metrics.SetWindowLength(e.window.Len())
	e.publishStatus(time.Time{})
}

// RunCycle polls the latest price, recomputes indicators and emits a signal.
// It never panics and never returns an error; failures are logged.
func (e *Executor) RunCycle(ctx context.Context) (res CycleResult) {
	start := time.Now()
	res.ID = uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] cycle %s panicked: %v", res.ID, r)
			res.Outcome = metrics.OutcomePanic
		}
		e.cycles++
		e.Metrics.ObserveCycle(res.Outcome, time.Since(start))
		e.Metrics.SetWindowLength(e.window.Len())
		e.publishStatus(start)
	}()

	latest := e.Feed.Latest(ctx)
	if !latest.Valid {
		log.Printf("[WARN] cycle %s: no live price, skipping", res.ID)
		res.Outcome = metrics.OutcomeNoData
		return res
	}
	log.Printf("[INFO] cycle %s: Crypto IDX price %s", res.ID, latest.Decimal.String())
	e.window.Append(latest)

	if n := e.window.Len(); n < e.opts.MinObservations {
		log.Printf("[INFO] cycle %s: %d/%d observations, waiting for more data", res.ID, n, e.opts.MinObservations)
		res.Outcome = metrics.OutcomeWarmingUp
		return res
	}

	rows := calculator.ComputeWith(e.opts.Params, e.window.Snapshot())
	if len(rows) == 0 {
		log.Printf("[WARN] cycle %s: not enough valid data for indicators yet", res.ID)
		res.Outcome = metrics.OutcomeWarmingUp
		return res
	}

	d := strategy.Evaluate(rows)
	res.Decision = d
	res.Outcome = metrics.OutcomeDecided
	logIndicators(res.ID, d.Latest)
	e.Metrics.ObserveDecision(d)

	if e.shouldSend(d.Signal) {
		err := e.Notifier.Send(ctx, notifier.FormatSignal(d))
		e.Metrics.NotifyResult(err)
		if err != nil {
			log.Printf("[ERROR] cycle %s: send signal %s: %v", res.ID, d.Signal, err)
			res.SendErr = err
		} else {
			log.Printf("[INFO] cycle %s: sent signal %s (%s)", res.ID, d.Signal, d.Rule)
			res.Sent = true
		}
	} else {
		log.Printf("[INFO] cycle %s: signal %s unchanged, not sent", res.ID, d.Signal)
	}
	e.lastSignal = d.Signal

	rec := &recorder.CycleRecord{
		CycleID:   res.ID,
		At:        start,
		Decision:  d,
		WindowLen: e.window.Len(),
		Sent:      res.Sent,
	}
	if res.SendErr != nil {
		rec.SendError = res.SendErr.Error()
	}
	if err := e.Recorder.RecordCycle(rec); err != nil {
		log.Printf("[ERROR] record cycle %s: %v", res.ID, err)
	}
	return res
}

// shouldSend applies the optional repeat suppression.
func (e *Executor) shouldSend(sig model.Signal) bool {
	if !e.opts.SuppressRepeats {
		return true
	}
	return sig != model.SignalNone && sig != e.lastSignal
}

// LastSignal returns the signal decided by the most recent cycle.
func (e *Executor) LastSignal() model.Signal { return e.lastSignal }

// WindowLen returns the number of observations held.
func (e *Executor) WindowLen() int { return e.window.Len() }

// Status returns a copy of the operator view. Safe for concurrent use.
func (e *Executor) Status() model.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Executor) publishStatus(at time.Time) {
	var price decimal.NullDecimal
	if p, ok := e.window.Latest(); ok {
		price = decimal.NewNullDecimal(p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.LastSignal = e.lastSignal
	e.status.LastPrice = price
	e.status.WindowLength = e.window.Len()
	e.status.Cycles = e.cycles
	if !at.IsZero() {
		e.status.LastCycleAt = at
	}
}

func logIndicators(id string, s *model.IndicatorSnapshot) {
	if s == nil {
		return
	}
	log.Printf("[INFO] cycle %s: price=%s rsi=%.2f macd=%.10f signal=%.10f sma=%.10f ema=%.10f",
		id, s.Close.String(), s.RSI, s.MACD, s.MACDSignal, s.SMA, s.EMA)
}
