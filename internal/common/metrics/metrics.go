// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_received_total",
			Help: "Total number of order submissions received by the relay",
		},
	)

	OrdersFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "Total number of order submissions that failed",
		},
		[]string{"error_code"},
	)

	OrderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "order_relay_duration_seconds",
			Help: "Duration of order relay processing in seconds",
		},
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of reference image uploads relayed to the content backend",
		},
		[]string{"outcome"},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog proxy cache lookups by result",
		},
		[]string{"result"},
	)
)
