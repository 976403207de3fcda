package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	vcenterInventory = "vcenter_inventory"

	// Collection metrics
	collectRunsTotal = "collect_runs_total"
	collectedVms     = "collected_vms"

	// Labels
	runStatusLabel = "status"
)

// Run statuses reported on the collect_runs_total counter.
const (
	RunSucceeded = "succeeded"
	RunEmpty     = "empty"
	RunFailed    = "failed"
)

var collectRunsTotalLabels = []string{
	runStatusLabel,
}

/**
* Metrics definition
**/
var CollectRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: vcenterInventory,
		Name:      collectRunsTotal,
		Help:      "number of inventory collection runs by outcome",
	},
	collectRunsTotalLabels,
)

var CollectedVms = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: vcenterInventory,
		Name:      collectedVms,
		Help:      "number of virtual machines in the last successful collection",
	},
)

func IncreaseCollectRunsTotalMetric(status string) {
	labels := prometheus.Labels{
		runStatusLabel: status,
	}
	CollectRunsTotal.With(labels).Inc()
}

func UpdateCollectedVmsMetric(count int) {
	CollectedVms.Set(float64(count))
}

// PrometheusMetricsHandler exposes the default registry over HTTP.
type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(CollectRunsTotal)
	prometheus.MustRegister(CollectedVms)
}
