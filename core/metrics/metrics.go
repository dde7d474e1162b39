package metrics

import (
	"net/http"
	"time"

	"sales-history/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the reconciliation metrics.
type Registry struct {
	reg            *prometheus.Registry
	Passes         *prometheus.CounterVec
	Appended       prometheus.Counter
	Skipped        *prometheus.CounterVec
	PassSeconds    prometheus.Histogram
	HistoryRecords prometheus.Gauge
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	passes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_reconcile_passes_total",
		Help: "Reconciliation passes by outcome.",
	}, []string{"outcome"})
	appended := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_reconcile_appended_total",
		Help: "Records appended to the history store.",
	})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_reconcile_skipped_total",
		Help: "Detail lines not appended, by reason.",
	}, []string{"reason"})
	passSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sales_reconcile_pass_seconds",
		Help:    "Duration of reconciliation passes.",
		Buckets: prometheus.DefBuckets,
	})
	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sales_history_records",
		Help: "Records in the history store after the last pass.",
	})

	r.MustRegister(passes, appended, skipped, passSeconds, records)
	return &Registry{
		reg:            r,
		Passes:         passes,
		Appended:       appended,
		Skipped:        skipped,
		PassSeconds:    passSeconds,
		HistoryRecords: records,
	}
}

// ObservePass records the outcome of one pass. The outcome label is "success" or the
// error kind.
func (r *Registry) ObservePass(res *reconcile.Result, err error, took time.Duration) {
	r.PassSeconds.Observe(took.Seconds())
	if err != nil {
		r.Passes.WithLabelValues(string(reconcile.KindOf(err))).Inc()
		return
	}
	r.Passes.WithLabelValues("success").Inc()
	r.Appended.Add(float64(res.Appended))
	for reason, n := range res.Stats.Skipped() {
		r.Skipped.WithLabelValues(reason).Add(float64(n))
	}
	r.HistoryRecords.Set(float64(res.Total))
}

// Handler serves the exposition format.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
