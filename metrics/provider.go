// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "ticketsync"
	httpNamespace    = "requests"
	syncNamespace    = "sync"
	githubNamespace  = "github"

	defaultPrometheusTimeoutSeconds = 60
)

type Provider interface {
	ObserveHTTPRequestDuration(handler, method, statusCode string, elapsed float64)

	ObserveGithubRequestDuration(handler, method, statusCode string, elapsed float64)
	IncreaseGithubCacheHits(method, handler string)
	IncreaseGithubCacheMisses(method, handler string)

	ObserveSyncPassDuration(pass string, elapsed float64)
	IncreaseSyncPassErrors(pass string)
	IncreaseTicketOutcome(pass, outcome string)
}

type PrometheusProvider struct {
	Registry *prometheus.Registry

	httpRequestsDuration *prometheus.HistogramVec

	syncPassDuration *prometheus.HistogramVec
	syncPassErrors   *prometheus.CounterVec
	ticketOutcomes   *prometheus.CounterVec

	githubRequests    *prometheus.HistogramVec
	githubCacheHits   *prometheus.CounterVec
	githubCacheMisses *prometheus.CounterVec
}

func NewPrometheusProvider() *PrometheusProvider {
	provider := &PrometheusProvider{}
	provider.Registry = prometheus.NewRegistry()
	options := prometheus.ProcessCollectorOpts{
		Namespace: metricsNamespace,
	}
	provider.Registry.MustRegister(prometheus.NewProcessCollector(options))
	provider.Registry.MustRegister(prometheus.NewGoCollector())

	provider.httpRequestsDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: httpNamespace,
			Name:      "requests",
			Help:      "Received http requests.",
		},
		[]string{"method", "handler", "status_code"},
	)
	provider.Registry.MustRegister(provider.httpRequestsDuration)

	provider.syncPassDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: syncNamespace,
			Name:      "pass_duration",
			Help:      "Duration of the executed sync passes.",
		},
		[]string{"pass"},
	)
	provider.Registry.MustRegister(provider.syncPassDuration)

	provider.syncPassErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: syncNamespace,
			Name:      "pass_errors",
			Help:      "Number of sync passes that ended with an error.",
		},
		[]string{"pass"},
	)
	provider.Registry.MustRegister(provider.syncPassErrors)

	provider.ticketOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: syncNamespace,
			Name:      "tickets",
			Help:      "Number of tickets visited by a sync pass, by outcome.",
		},
		[]string{"pass", "outcome"},
	)
	provider.Registry.MustRegister(provider.ticketOutcomes)

	provider.githubRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: githubNamespace,
			Name:      "requests",
			Help:      "Duration of the performed github http requests.",
		},
		[]string{"method", "handler", "status_code"},
	)
	provider.Registry.MustRegister(provider.githubRequests)

	provider.githubCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: githubNamespace,
			Name:      "cache_hits",
			Help:      "Number of cache hits for requested method and handler.",
		},
		[]string{"method", "handler"},
	)
	provider.Registry.MustRegister(provider.githubCacheHits)

	provider.githubCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: githubNamespace,
			Name:      "cache_miss",
			Help:      "Number of cache misses for requested method and handler.",
		},
		[]string{"method", "handler"},
	)
	provider.Registry.MustRegister(provider.githubCacheMisses)

	return provider
}

func (p *PrometheusProvider) ObserveHTTPRequestDuration(handler, method, statusCode string, elapsed float64) {
	p.httpRequestsDuration.With(
		prometheus.Labels{"method": method, "handler": handler, "status_code": statusCode},
	).Observe(elapsed)
}

func (p *PrometheusProvider) ObserveGithubRequestDuration(handler, method, statusCode string, elapsed float64) {
	p.githubRequests.With(
		prometheus.Labels{"method": method, "handler": handler, "status_code": statusCode},
	).Observe(elapsed)
}

func (p *PrometheusProvider) ObserveSyncPassDuration(pass string, elapsed float64) {
	p.syncPassDuration.With(prometheus.Labels{"pass": pass}).Observe(elapsed)
}

func (p *PrometheusProvider) IncreaseSyncPassErrors(pass string) {
	p.syncPassErrors.WithLabelValues(pass).Add(1)
}

func (p *PrometheusProvider) IncreaseTicketOutcome(pass, outcome string) {
	p.ticketOutcomes.WithLabelValues(pass, outcome).Add(1)
}

func (p *PrometheusProvider) IncreaseGithubCacheHits(method, handler string) {
	p.githubCacheHits.WithLabelValues(method, handler).Add(1)
}

func (p *PrometheusProvider) IncreaseGithubCacheMisses(method, handler string) {
	p.githubCacheMisses.WithLabelValues(method, handler).Add(1)
}

func (p *PrometheusProvider) Handler() Handler {
	handler := promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{
		Timeout:           time.Duration(defaultPrometheusTimeoutSeconds) * time.Second,
		EnableOpenMetrics: true,
	})
	return Handler{
		Path:        "/metrics",
		Description: "Prometheus Metrics",
		Handler:     handler,
	}
}
