package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framez_feed_toggles_total",
		Help: "Optimistic toggles applied by the post store.",
	}, []string{"kind"})

	rollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framez_feed_rollbacks_total",
		Help: "Optimistic toggles rolled back after a backend failure.",
	}, []string{"kind"})
)
