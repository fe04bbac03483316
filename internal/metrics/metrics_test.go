package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"SignalSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCycle(OutcomeDecided, 10*time.Millisecond)
	m.ObserveCycle(OutcomeNoData, time.Millisecond)
	m.FeedFailure("latest")
	m.NotifyResult(nil)
	m.NotifyResult(errors.New("boom"))
	m.SetWindowLength(42)
	m.ObserveDecision(&model.Decision{
		Signal: model.SignalBuyCross,
		Latest: &model.IndicatorSnapshot{Close: decimal.NewFromInt(1), RSI: 35, MACD: 0.5, MACDSignal: 0.2},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues(OutcomeDecided)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues(OutcomeNoData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedFailures.WithLabelValues("latest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotifyFailures))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.WindowLength))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalsTotal.WithLabelValues(string(model.SignalBuyCross))))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.LatestRSI))
	assert.InDelta(t, 0.3, testutil.ToFloat64(m.MACDHistogram), 1e-12)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCycle(OutcomePanic, time.Second)
		m.ObserveDecision(&model.Decision{Signal: model.SignalNone})
		m.FeedFailure("history")
		m.NotifyResult(nil)
		m.SetWindowLength(1)
	})
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe_ExposesMetricsAndStopsOnCancel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.SetWindowLength(7)

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Serve(ctx, addr, reg)
		close(done)
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, body, "sentinel_window_length 7")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestServe_ReturnsWhenAddressInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		Serve(ctx, l.Addr().String(), prometheus.NewRegistry())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return on listen failure")
	}
}
