// Package metrics exposes Prometheus counters for scrape runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tjrates-service/internal/application"
	"tjrates-service/internal/scrape"
)

// RunObserver counts per-source scrape outcomes.
type RunObserver struct {
	savedTotal  *prometheus.CounterVec
	failedTotal *prometheus.CounterVec
}

var _ application.RunObserver = (*RunObserver)(nil)

func NewRunObserver(reg prometheus.Registerer) *RunObserver {
	factory := promauto.With(reg)
	return &RunObserver{
		savedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tjrates_scrape_rates_saved_total",
			Help: "Rate observations written, by bank.",
		}, []string{"bank"}),
		failedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tjrates_scrape_source_failures_total",
			Help: "Source failures, by bank and failure kind.",
		}, []string{"bank", "kind"}),
	}
}

func (o *RunObserver) SourceSucceeded(bank string, saved int) {
	o.savedTotal.WithLabelValues(bank).Add(float64(saved))
}

func (o *RunObserver) SourceFailed(bank string, kind scrape.Kind) {
	o.failedTotal.WithLabelValues(bank, string(kind)).Inc()
}
