package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"FlowState/internal/model"
)

// FRED series identifiers for the macro indicators.
const (
	FREDSeriesWALCL    = "WALCL"        // Fed balance sheet, weekly
	FREDSeriesRRP      = "RRPONTSYD"    // overnight reverse repo
	FREDSeriesHYSpread = "BAMLH0A0HYM2" // ICE BofA high yield OAS
	FREDSeriesDXY      = "DTWEXBGS"     // trade weighted dollar index
)

// FREDClient talks to the St. Louis Fed observations API. One client is
// shared across the four FRED-backed sources so the rate limiter covers
// them collectively; FRED allows 120 requests per minute per key.
type FREDClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewFREDClient creates a shared FRED API client.
func NewFREDClient(baseURL, apiKey string) *FREDClient {
	return &FREDClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// fredResponse is the observations payload. Values arrive as strings and
// missing observations are encoded as ".".
type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (c *FREDClient) fetchSeries(ctx context.Context, seriesID string, lookbackDays int) ([]model.Point, error) {
	if c.APIKey == "" {
		// Unconfigured key degrades to an empty series so the scorer can
		// still run on whatever sources are available.
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.APIKey)
	params.Set("file_type", "json")
	params.Set("observation_start", start)
	params.Set("sort_order", "asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred fetch %s: %w", seriesID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred %s: status %d, body: %s", seriesID, resp.StatusCode, string(body))
	}

	var parsed fredResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("fred decode %s: %w", seriesID, err)
	}

	points := make([]model.Point, 0, len(parsed.Observations))
	for _, obs := range parsed.Observations {
		if obs.Value == "." {
			continue // missing observation (holiday, not yet published)
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		points = append(points, model.Point{Date: date, Value: value})
	}
	return points, nil
}

// FREDSource adapts one FRED series to the Source interface.
type FREDSource struct {
	client       *FREDClient
	seriesID     string
	metric       model.Metric
	lookbackDays int
}

// NewFREDSource binds a metric to its FRED series on a shared client.
func NewFREDSource(client *FREDClient, metric model.Metric, seriesID string, lookbackDays int) *FREDSource {
	return &FREDSource{client: client, seriesID: seriesID, metric: metric, lookbackDays: lookbackDays}
}

func (s *FREDSource) Metric() model.Metric { return s.metric }
func (s *FREDSource) Name() string         { return "fred:" + s.seriesID }

func (s *FREDSource) Fetch(ctx context.Context) ([]model.Point, error) {
	return s.client.fetchSeries(ctx, s.seriesID, s.lookbackDays)
}
