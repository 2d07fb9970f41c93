package like

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "framez_like_cache_lookups_total",
	Help: "Like-count cache lookups by result.",
}, []string{"result"})
