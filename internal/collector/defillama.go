package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"FlowState/internal/model"
)

// DefiLlamaSource fetches the aggregate stablecoin circulating supply
// across all chains and peg types.
type DefiLlamaSource struct {
	BaseURL string
	Client  *http.Client
}

// NewDefiLlamaSource creates a stablecoin supply source. No API key needed.
func NewDefiLlamaSource(baseURL string) *DefiLlamaSource {
	return &DefiLlamaSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *DefiLlamaSource) Metric() model.Metric { return model.MetricStablecoin }
func (s *DefiLlamaSource) Name() string         { return "defillama" }

// llamaPoint is one day of the stablecoincharts payload. The date arrives
// as a unix-seconds value that has been observed both as a string and as
// a number, so it decodes loosely.
type llamaPoint struct {
	Date                any                `json:"date"`
	TotalCirculatingUSD map[string]float64 `json:"totalCirculatingUSD"`
}

func parseLlamaDate(v any) (time.Time, bool) {
	var secs int64
	switch d := v.(type) {
	case string:
		parsed, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = parsed
	case float64:
		secs = int64(d)
	default:
		return time.Time{}, false
	}
	t := time.Unix(secs, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func (s *DefiLlamaSource) Fetch(ctx context.Context) ([]model.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/stablecoincharts/all", nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("defillama fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("defillama read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("defillama: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []llamaPoint
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("defillama decode: %w", err)
	}

	points := make([]model.Point, 0, len(raw))
	for _, entry := range raw {
		date, ok := parseLlamaDate(entry.Date)
		if !ok {
			continue
		}
		var total float64
		for _, v := range entry.TotalCirculatingUSD {
			total += v
		}
		if total <= 0 {
			continue
		}
		points = append(points, model.Point{Date: date, Value: total})
	}
	return points, nil
}
