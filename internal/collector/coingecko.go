package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"FlowState/internal/model"
)

// CoinGeckoSource fetches the daily BTC price history used for the
// trend gate and the 200-day moving average.
type CoinGeckoSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Days    int
}

// NewCoinGeckoSource creates a BTC price source. The API key is optional;
// the public tier serves daily candles without one.
func NewCoinGeckoSource(baseURL, apiKey string, days int) *CoinGeckoSource {
	return &CoinGeckoSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Days:    days,
	}
}

func (s *CoinGeckoSource) Metric() model.Metric { return model.MetricBTC }
func (s *CoinGeckoSource) Name() string         { return "coingecko" }

// marketChart is the market_chart payload: prices as [timestamp_ms, price]
// pairs.
type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

func (s *CoinGeckoSource) Fetch(ctx context.Context) ([]model.Point, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", fmt.Sprintf("%d", s.Days))
	params.Set("interval", "daily")

	u := s.BaseURL + "/coins/bitcoin/market_chart?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if s.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart marketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}

	points := make([]model.Point, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		if len(pair) < 2 {
			continue
		}
		ts := time.UnixMilli(int64(pair[0])).UTC()
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		points = append(points, model.Point{Date: date, Value: pair[1]})
	}
	return points, nil
}
