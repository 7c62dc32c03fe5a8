package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the tile
// server.
type Metrics struct {
	GridsLoaded  prometheus.Counter
	LoadErrors   prometheus.Counter
	LoadDuration prometheus.Histogram
	GridsCached  prometheus.Gauge

	TilesRendered  prometheus.Counter
	RenderErrors   prometheus.Counter
	RenderDuration prometheus.Histogram
	TileCache      *prometheus.CounterVec // labels: result={hit,miss}

	PointQueries *prometheus.CounterVec // labels: outcome={value,empty}

	// Kafka ingest metrics.
	IngestNotifications *prometheus.CounterVec // labels: outcome={loaded,error,skipped}
	IngestEnabled       prometheus.Gauge
}

// NewMetrics creates and registers all tile-server metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		GridsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "grids_loaded_total",
			Help:      "Total grids decoded and published to the store.",
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "load_errors_total",
			Help:      "Total failed grid loads.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mrms_tiles",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete decode-correct-publish cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GridsCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mrms_tiles",
			Name:      "grids_cached",
			Help:      "Number of grids currently held in the store.",
		}),
		TilesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "tiles_rendered_total",
			Help:      "Total tiles rasterized (cache misses).",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "render_errors_total",
			Help:      "Total tile render or encode failures.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mrms_tiles",
			Name:      "render_duration_seconds",
			Help:      "Duration of a single tile rasterization including PNG encode.",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),
		TileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "tile_cache_total",
			Help:      "Rendered-tile cache lookups by result.",
		}, []string{"result"}),
		PointQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "point_queries_total",
			Help:      "Point value lookups by outcome.",
		}, []string{"outcome"}),
		IngestNotifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mrms_tiles",
			Name:      "ingest_notifications_total",
			Help:      "Kafka file-available notifications by outcome.",
		}, []string{"outcome"}),
		IngestEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mrms_tiles",
			Name:      "ingest_enabled",
			Help:      "1 when Kafka ingest is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.GridsLoaded,
		m.LoadErrors,
		m.LoadDuration,
		m.GridsCached,
		m.TilesRendered,
		m.RenderErrors,
		m.RenderDuration,
		m.TileCache,
		m.PointQueries,
		m.IngestNotifications,
		m.IngestEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		GridsLoaded:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "grids_loaded_total"}),
		LoadErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "load_errors_total"}),
		LoadDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "mrms_tiles", Name: "load_duration_seconds"}),
		GridsCached:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "mrms_tiles", Name: "grids_cached"}),
		TilesRendered:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "tiles_rendered_total"}),
		RenderErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "render_errors_total"}),
		RenderDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "mrms_tiles", Name: "render_duration_seconds"}),
		TileCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "tile_cache_total"}, []string{"result"}),
		PointQueries:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "point_queries_total"}, []string{"outcome"}),
		IngestNotifications: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "mrms_tiles", Name: "ingest_notifications_total"}, []string{"outcome"}),
		IngestEnabled:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "mrms_tiles", Name: "ingest_enabled"}),
	}
}
