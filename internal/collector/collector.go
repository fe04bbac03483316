package collector

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// MockFetcher returns controllable data for development and testing.
// Quotes are served in order; when they run out the fetcher either walks
// randomly from the last price (if built by NewRandomWalkFetcher) or
// reports the feed as unavailable.
type MockFetcher struct {
	History []decimal.Decimal
	Quotes  []decimal.Decimal
	Err     error

	mu    sync.Mutex
	calls int
	rng   *rand.Rand
	last  decimal.Decimal
}

// NewRandomWalkFetcher creates a mock feed that moves by up to ±0.1% per poll.
func NewRandomWalkFetcher(seed int64, start decimal.Decimal, historySize int) *MockFetcher {
	rng := rand.New(rand.NewSource(seed))
	history := generateWalk(rng, start, historySize)
	last := start
	if len(history) > 0 {
		last = history[len(history)-1]
	}
	return &MockFetcher{History: history, rng: rng, last: last}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context) ([]decimal.Decimal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]decimal.Decimal, len(m.History))
	copy(out, m.History)
	return out, nil
}

func (m *MockFetcher) FetchLatest(_ context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	if m.calls < len(m.Quotes) {
		q := m.Quotes[m.calls]
		m.calls++
		return q, nil
	}
	if m.rng == nil {
		return decimal.Zero, fmt.Errorf("%w: mock quotes exhausted", model.ErrFeedUnavailable)
	}
	m.last = step(m.rng, m.last)
	return m.last, nil
}

func generateWalk(rng *rand.Rand, start decimal.Decimal, count int) []decimal.Decimal {
	prices := make([]decimal.Decimal, 0, count)
	p := start
	for i := 0; i < count; i++ {
		p = step(rng, p)
		prices = append(prices, p)
	}
	return prices
}

func step(rng *rand.Rand, p decimal.Decimal) decimal.Decimal {
	// -10..+10 basis points
	bp := decimal.NewFromInt(int64(rng.Intn(21) - 10)).Div(decimal.NewFromInt(10000))
	return p.Add(p.Mul(bp)).Round(6)
}

// Collector turns feed failures into "no data" so a poll can never fail a cycle.
type Collector struct {
	Fetcher Fetcher
	Metrics *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, m *metrics.Metrics) *Collector {
	return &Collector{Fetcher: fetcher, Metrics: m}
}

// History returns the backfill, or nil when the feed is unavailable.
func (c *Collector) History(ctx context.Context) []decimal.Decimal {
	prices, err := c.Fetcher.FetchHistory(ctx)
	if err != nil {
		log.Printf("[WARN] no historical data from %s: %v", c.Fetcher.Name(), err)
		c.Metrics.FeedFailure("history")
		return nil
	}
	log.Printf("[INFO] loaded %d historical prices from %s", len(prices), c.Fetcher.Name())
	return prices
}

// Latest returns the newest price; the result is invalid when the feed has no data.
func (c *Collector) Latest(ctx context.Context) decimal.NullDecimal {
	price, err := c.Fetcher.FetchLatest(ctx)
	if err != nil {
		log.Printf("[WARN] no live price from %s: %v", c.Fetcher.Name(), err)
		c.Metrics.FeedFailure("latest")
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: price, Valid: true}
}
