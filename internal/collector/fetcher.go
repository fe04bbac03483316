package collector

import (
	"context"

	"github.com/shopspring/decimal"
)

// Fetcher defines the interface for fetching index prices.
// Implementations wrap every failure with model.ErrFeedUnavailable.
type Fetcher interface {
	// FetchHistory returns the most recent closes, oldest first.
	FetchHistory(ctx context.Context) ([]decimal.Decimal, error)
	FetchLatest(ctx context.Context) (decimal.Decimal, error)
	Name() string
}
