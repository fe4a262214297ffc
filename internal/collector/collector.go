package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"FlowState/internal/model"
	"FlowState/internal/telemetry"
)

// Collector fans out to all configured sources concurrently and assembles
// the dataset for one evaluation cycle. A failing source degrades to an
// empty series instead of failing the cycle; the scorer treats missing
// series as neutral.
type Collector struct {
	sources []Source
}

// New creates a collector over the given sources.
func New(sources ...Source) *Collector {
	return &Collector{sources: sources}
}

// Collect fetches every series in parallel and returns the full dataset.
func (c *Collector) Collect(ctx context.Context) *model.Dataset {
	dataset := &model.Dataset{
		Series:    make(map[model.Metric][]model.Point, len(c.sources)),
		FetchedAt: time.Now(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, src := range c.sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			points, err := s.Fetch(ctx)
			if err != nil {
				telemetry.FetchErrors.WithLabelValues(s.Name()).Inc()
				log.Warn().Err(err).Str("source", s.Name()).Msg("source fetch failed, series degraded to empty")
				points = nil
			}
			cleaned := model.CleanPoints(points)
			mu.Lock()
			dataset.Series[s.Metric()] = cleaned
			mu.Unlock()
			log.Debug().Str("source", s.Name()).Int("points", len(cleaned)).Msg("series collected")
		}(src)
	}
	wg.Wait()

	return dataset
}
