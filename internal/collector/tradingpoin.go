package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SignalSentinel/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// DefaultFeedURL is the tradingpoin chart endpoint for the Crypto IDX index.
const DefaultFeedURL = "https://tradingpoin.com/chart/api/data?type=json&last=50&token=&pair_code=CRYIDX.B&timeframe=60&load_count=0&source=Binomo&val=Z-CRY/IDX"

// closeIndex is the position of the close price inside a chart row.
const closeIndex = 4

// TradingPoinFetcher implements Fetcher against the tradingpoin chart API.
type TradingPoinFetcher struct {
	URL         string
	HistorySize int
	client      *resty.Client
}

// NewTradingPoinFetcher creates a fetcher with optional proxy support.
func NewTradingPoinFetcher(feedURL string, historySize int, timeout time.Duration, proxyURL string) *TradingPoinFetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &TradingPoinFetcher{
		URL:         feedURL,
		HistorySize: historySize,
		client:      client,
	}
}

func (f *TradingPoinFetcher) Name() string { return "tradingpoin" }

func (f *TradingPoinFetcher) FetchHistory(ctx context.Context) ([]decimal.Decimal, error) {
	closes, err := f.fetchCloses(ctx, f.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if len(closes) > f.HistorySize {
		closes = closes[len(closes)-f.HistorySize:]
	}
	return closes, nil
}

func (f *TradingPoinFetcher) FetchLatest(ctx context.Context) (decimal.Decimal, error) {
	closes, err := f.fetchCloses(ctx, 1)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch latest: %w", err)
	}
	return closes[len(closes)-1], nil
}

// fetchCloses requests the last n rows and returns their parsable closes.
// It never returns an empty slice without an error.
func (f *TradingPoinFetcher) fetchCloses(ctx context.Context, n int) ([]decimal.Decimal, error) {
	endpoint, err := withLast(f.URL, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFeedUnavailable, err)
	}

	resp, err := f.client.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFeedUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", model.ErrFeedUnavailable, resp.StatusCode(), truncate(resp.String(), 200))
	}

	rows, err := decodeRows(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFeedUnavailable, err)
	}

	closes := make([]decimal.Decimal, 0, len(rows))
	for _, row := range rows {
		if len(row) <= closeIndex {
			continue
		}
		if c, ok := parseClose(row[closeIndex]); ok {
			closes = append(closes, c)
		}
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("%w: no price rows in payload", model.ErrFeedUnavailable)
	}
	return closes, nil
}

// chartPayload is the JSON shape returned by the chart API.
type chartPayload struct {
	Data json.RawMessage `json:"data"`
}

// decodeRows accepts both a list of rows and a single bare row under "data".
func decodeRows(body []byte) ([][]json.RawMessage, error) {
	var payload chartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	data := bytes.TrimSpace(payload.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("payload has no data")
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(data, &rows); err == nil {
		return rows, nil
	}
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return [][]json.RawMessage{row}, nil
}

// parseClose reads a close that may be a JSON number or a numeric string.
// The literal text is parsed so no precision is lost through float64.
func parseClose(raw json.RawMessage) (decimal.Decimal, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.Zero, false
	}
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(unquoted)
		if text == "" {
			return decimal.Zero, false
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// withLast rewrites the "last" query parameter of rawURL to n.
func withLast(rawURL string, n int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("last", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
