package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler exposing the metrics in the standard
// Prometheus exposition format, typically mounted at "/metrics" by the
// embedding process.
func (tm *TransformMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		tm.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
