package collector

import (
	"context"

	"FlowState/internal/model"
)

// Source fetches the history for one indicator. Implementations return
// points in ascending date order; the collector cleans and re-sorts
// defensively before anything downstream sees them.
type Source interface {
	// Metric identifies which series this source feeds.
	Metric() model.Metric
	// Name identifies the upstream provider for logs and metrics.
	Name() string
	// Fetch returns the series history. An empty slice with a nil error
	// means the source is unconfigured rather than broken.
	Fetch(ctx context.Context) ([]model.Point, error)
}
