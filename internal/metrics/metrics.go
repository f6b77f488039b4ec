// Package metrics provides Prometheus metrics for the API.
package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "news_portal"

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
	)

	// Content engagement
	ArticleEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "events_total",
			Help:      "Article engagement events by counter (views, likes, shares)",
		},
		[]string{"counter"},
	)

	AdEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "advertisements",
			Name:      "events_total",
			Help:      "Advertisement tracking events by counter (impressions, clicks)",
		},
		[]string{"counter"},
	)

	// Auth
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"},
	)
)

// ObserveArticleEvent counts an article counter increment.
func ObserveArticleEvent(counter string) {
	ArticleEventsTotal.WithLabelValues(counter).Inc()
}

// ObserveAdEvent counts an advertisement counter increment.
func ObserveAdEvent(counter string) {
	AdEventsTotal.WithLabelValues(counter).Inc()
}

// ObserveLogin counts a login attempt. result is "success" or "failure".
func ObserveLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

// RegisterDBStats exposes connection pool statistics read from stats on every scrape.
func RegisterDBStats(reg prometheus.Registerer, stats func() sql.DBStats) error {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "pool_connections",
			Help:        "Database connection pool stats",
			ConstLabels: prometheus.Labels{"state": "open"},
		}, func() float64 { return float64(stats().OpenConnections) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "pool_connections",
			Help:        "Database connection pool stats",
			ConstLabels: prometheus.Labels{"state": "idle"},
		}, func() float64 { return float64(stats().Idle) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "pool_connections",
			Help:        "Database connection pool stats",
			ConstLabels: prometheus.Labels{"state": "in_use"},
		}, func() float64 { return float64(stats().InUse) }),
	}
	for _, g := range gauges {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
