package main

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "stimmy"

// Metrics groups the Prometheus collectors of the server. They are registered
// on the Registerer passed to NewMetrics, so tests can use a private registry.
type Metrics struct {
	// RequestsTotal counts requests by route and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures handler latency by route, including any
	// simulated delay.
	RequestDuration *prometheus.HistogramVec

	// BumpsTotal counts /bump-count outcomes. Labels: outcome (success, failure)
	BumpsTotal *prometheus.CounterVec

	// StoredProfiles is the current size of the profile store.
	StoredProfiles prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds by route",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5},
			},
			[]string{"route"},
		),
		BumpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "hits",
				Name:      "bumps_total",
				Help:      "Hit counter bump attempts by outcome",
			},
			[]string{"outcome"},
		),
		StoredProfiles: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "profiles",
				Help:      "Number of profiles currently stored",
			},
		),
	}
}

// routeLabel collapses request paths onto their route so that usernames and
// asset names don't become label values.
func routeLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch parts[0] {
	case "":
		return "/"
	case "public", "css":
		return "/" + parts[0] + "/*"
	case "username-availability":
		return "/username-availability/{username}"
	case "profiles":
		switch {
		case len(parts) == 1:
			return "/profiles"
		case len(parts) == 2 && (parts[1] == "filter" || parts[1] == "new" || parts[1] == "find"):
			return "/profiles/" + parts[1]
		case len(parts) == 2:
			return "/profiles/{username}"
		case len(parts) == 3 && (parts[2] == "description" || parts[2] == "edit"):
			return "/profiles/{username}/" + parts[2]
		}
		return "other"
	case "optimistic-ui", "bump-count", "health", "metrics":
		if len(parts) == 1 {
			return "/" + parts[0]
		}
	}
	return "other"
}
