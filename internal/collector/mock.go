package collector

import (
	"context"

	"FlowState/internal/model"
)

// MockSource returns canned points, for tests and offline development.
type MockSource struct {
	MetricName model.Metric
	Points     []model.Point
	Err        error
	Calls      int
}

// NewMockSource creates a mock source for the given metric.
func NewMockSource(metric model.Metric, points []model.Point) *MockSource {
	return &MockSource{MetricName: metric, Points: points}
}

func (m *MockSource) Metric() model.Metric { return m.MetricName }
func (m *MockSource) Name() string         { return "mock:" + m.MetricName.String() }

func (m *MockSource) Fetch(_ context.Context) ([]model.Point, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Points, nil
}
