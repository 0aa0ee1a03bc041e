// Package metrics exposes Prometheus counters for bookmark data operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Mutations counts successful in-memory mutations by entity and operation.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "mutations_total",
		Help:      "Mutations applied to bookmark collections.",
	}, []string{"entity", "op"})

	// PersistFailures counts collection writes that failed to reach the store.
	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "persist_failures_total",
		Help:      "Collection writes rejected by the backing store.",
	}, []string{"key"})

	// LoadFailures counts stored collections that could not be decoded.
	LoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "load_failures_total",
		Help:      "Stored collections replaced by defaults after a decode error.",
	}, []string{"key"})

	// Imports counts backup imports and version restores by outcome.
	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "imports_total",
		Help:      "Backup imports and version restores.",
	}, []string{"source", "result"})

	// HTTPRequests counts served API requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status class.",
	}, []string{"method", "status"})

	// RateLimited counts requests rejected by the per-IP limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the per-IP rate limiter.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
