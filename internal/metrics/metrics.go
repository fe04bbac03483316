// Package metrics exposes Prometheus instrumentation for the signal cycle.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"SignalSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle outcomes.
const (
	OutcomeNoData    = "skipped_no_data"
	OutcomeWarmingUp = "warming_up"
	OutcomeDecided   = "decided"
	OutcomePanic     = "panic"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	CyclesTotal       *prometheus.CounterVec // labels: outcome
	CycleDuration     prometheus.Histogram
	SignalsTotal      *prometheus.CounterVec // labels: signal
	FeedFailures      *prometheus.CounterVec // labels: op
	NotificationsSent prometheus.Counter
	NotifyFailures    prometheus.Counter
	WindowLength      prometheus.Gauge
	LatestRSI         prometheus.Gauge
	MACDHistogram     prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_cycles_total",
			Help: "Poll cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_cycle_duration_seconds",
			Help:    "Wall time of one poll-compute-notify cycle",
			Buckets: prometheus.DefBuckets,
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_signals_total",
			Help: "Decided signals by value",
		}, []string{"signal"}),
		FeedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_feed_failures_total",
			Help: "Feed requests that returned no data",
		}, []string{"op"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_notifications_sent_total",
			Help: "Signal messages delivered",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_notify_failures_total",
			Help: "Signal messages that failed to deliver",
		}),
		WindowLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_window_length",
			Help: "Observations currently held in the price window",
		}),
		LatestRSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_latest_rsi",
			Help: "RSI of the latest complete indicator row",
		}),
		MACDHistogram: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_macd_histogram",
			Help: "MACD minus signal line on the latest complete row",
		}),
	}
	reg.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.SignalsTotal,
		m.FeedFailures,
		m.NotificationsSent,
		m.NotifyFailures,
		m.WindowLength,
		m.LatestRSI,
		m.MACDHistogram,
	)
	return m
}

func (m *Metrics) ObserveCycle(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(outcome).Inc()
	m.CycleDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDecision(d *model.Decision) {
	if m == nil || d == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(string(d.Signal)).Inc()
	if d.Latest != nil {
		m.LatestRSI.Set(d.Latest.RSI)
		m.MACDHistogram.Set(d.Latest.MACDHistogram())
	}
}

func (m *Metrics) FeedFailure(op string) {
	if m == nil {
		return
	}
	m.FeedFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) NotifyResult(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.NotifyFailures.Inc()
		return
	}
	m.NotificationsSent.Inc()
}

func (m *Metrics) SetWindowLength(n int) {
	if m == nil {
		return
	}
	m.WindowLength.Set(float64(n))
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] metrics server shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] metrics listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[ERROR] metrics server: %v", err)
	}
}
