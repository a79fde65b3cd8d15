package lib

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeometryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libgen_geometry_total",
			Help: "Geometry computations by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	GeometryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libgen_geometry_duration_seconds",
			Help:    "Time spent laying out one symbol or footprint",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
		[]string{"kind"},
	)

	EmitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libgen_emit_total",
			Help: "Emitted symbols, footprints and libraries by format and outcome",
		},
		[]string{"format", "status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libgen_geometry_cache_hits_total",
			Help: "Geometry requests answered from a component's cache",
		},
		[]string{"kind"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func recordGeometry(kind string, start time.Time, err error) {
	GeometryTotal.WithLabelValues(kind, status(err)).Inc()
	GeometryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func recordEmit(format string, err error) {
	EmitTotal.WithLabelValues(format, status(err)).Inc()
}
