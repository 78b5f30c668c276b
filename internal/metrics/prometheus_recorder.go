package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesWritten  *prom.CounterVec
	warnings      *prom.CounterVec
	removed       prom.Counter
	lrClients     prom.Gauge
	lrBroadcasts  prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "malvolio",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "malvolio",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "malvolio",
			Name:      "pages_written_total",
			Help:      "Output pages written by kind",
		}, []string{"kind"}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "malvolio",
			Name:      "build_warnings_total",
			Help:      "Recoverable skips by reason",
		}, []string{"reason"}),
		removed: prom.NewCounter(prom.CounterOpts{
			Namespace: "malvolio",
			Name:      "clean_removed_total",
			Help:      "Output files and directories removed by clean",
		}),
		lrClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: "malvolio",
			Name:      "livereload_clients",
			Help:      "Connected live-reload clients",
		}),
		lrBroadcasts: prom.NewCounter(prom.CounterOpts{
			Namespace: "malvolio",
			Name:      "livereload_broadcasts_total",
			Help:      "Reload events sent to browsers",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pagesWritten, pr.warnings, pr.removed,
		pr.lrClients, pr.lrBroadcasts)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPageWritten(kind PageKind) {
	if p == nil {
		return
	}
	p.pagesWritten.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncWarning(reason string) {
	if p == nil {
		return
	}
	p.warnings.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncRemoved() {
	if p == nil {
		return
	}
	p.removed.Inc()
}

func (p *PrometheusRecorder) SetLiveReloadClients(n int) {
	if p == nil {
		return
	}
	p.lrClients.Set(float64(n))
}

func (p *PrometheusRecorder) IncLiveReloadBroadcast() {
	if p == nil {
		return
	}
	p.lrBroadcasts.Inc()
}
