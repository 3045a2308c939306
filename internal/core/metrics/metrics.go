// Package metrics exposes Prometheus collectors for review recomputation.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "redline"

// Recorder collects recomputation metrics. A nil *Recorder discards samples.
type Recorder struct {
	recomputes *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	segments   prometheus.Histogram
	skipped    prometheus.Counter
	dropped    prometheus.Counter
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		recomputes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "recomputes_total",
			Help:      "Total recomputations by mode (base, projected, manual)",
		}, []string{"mode"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "recompute_duration_seconds",
			Help:      "Recomputation latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"mode"}),
		segments: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "segments",
			Help:      "Number of segments produced per projection",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "skipped_suggestions_total",
			Help:      "Accepted suggestions that could not be applied",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remap",
			Name:      "dropped_highlights_total",
			Help:      "Highlights left out of the edited view because they touch a replaced region",
		}),
	}
}

// ObserveRecompute records one recomputation.
func (r *Recorder) ObserveRecompute(mode string, segments, skipped, dropped int, elapsed time.Duration) {
	if r == nil {
		return
	}

	r.recomputes.WithLabelValues(mode).Inc()
	r.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if segments > 0 {
		r.segments.Observe(float64(segments))
	}
	r.skipped.Add(float64(skipped))
	r.dropped.Add(float64(dropped))
}

// WriteText writes every metric family in g using the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
