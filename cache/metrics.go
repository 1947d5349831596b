package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits counts successful lookups by backend
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astscope_cache_hits_total",
		Help: "Total cache hits by backend",
	}, []string{"backend"})

	// cacheMisses counts absent or expired lookups by backend
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astscope_cache_misses_total",
		Help: "Total cache misses by backend",
	}, []string{"backend"})

	// cacheEvictions counts capacity evictions by backend
	cacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astscope_cache_evictions_total",
		Help: "Total cache evictions by backend",
	}, []string{"backend"})

	// cacheBytes tracks bytes held by backend
	cacheBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "astscope_cache_bytes",
		Help: "Bytes currently held by cache backend",
	}, []string{"backend"})

	// cacheErrors counts backend failures by operation
	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astscope_cache_errors_total",
		Help: "Total cache backend errors by operation",
	}, []string{"backend", "operation"})
)
