package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchencatalog_filter_requests_total",
		Help: "The total number of stateless product filter requests",
	})
	viewActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitchencatalog_view_actions_total",
		Help: "The total number of filter actions applied to catalog views",
	}, []string{"type"})
	liveViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kitchencatalog_live_views",
		Help: "The number of catalog views currently held",
	})
	catalogReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchencatalog_catalog_reloads_total",
		Help: "The total number of wholesale catalog replacements",
	})
)
