// Package metrics описывает прометеевские метрики сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит все счётчики сервиса. Нулевой *Metrics допустим: методы ничего не делают.
type Metrics struct {
	httpRequests            *prometheus.CounterVec
	generations             *prometheus.CounterVec
	quotaDenied             prometheus.Counter
	providerDuration        *prometheus.HistogramVec
	subscriptionActivations *prometheus.CounterVec
	rateLimited             *prometheus.CounterVec
	dailyGenerations        prometheus.Gauge
	dailyActiveUsers        prometheus.Gauge
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "generations_total",
			Help: "Generation attempts by content type and outcome.",
		}, []string{"type", "status"}),
		quotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quota_denied_total",
			Help: "Generation requests rejected by the daily quota.",
		}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of calls to generation providers.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"provider"}),
		subscriptionActivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subscription_activations_total",
			Help: "Premium activations by payment method.",
		}, []string{"method"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"limiter"}),
		dailyGenerations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "daily_generations",
			Help: "Generations created during the previous day.",
		}),
		dailyActiveUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "daily_active_users",
			Help: "Distinct users who generated content during the previous day.",
		}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.generations,
		m.quotaDenied,
		m.providerDuration,
		m.subscriptionActivations,
		m.rateLimited,
		m.dailyGenerations,
		m.dailyActiveUsers,
	)
	return m
}

func (m *Metrics) HTTPRequest(route, method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusLabel(status)).Inc()
}

func (m *Metrics) Generation(contentType, status string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(contentType, status).Inc()
}

func (m *Metrics) QuotaDenied() {
	if m == nil {
		return
	}
	m.quotaDenied.Inc()
}

func (m *Metrics) ProviderDuration(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) SubscriptionActivated(method string) {
	if m == nil {
		return
	}
	m.subscriptionActivations.WithLabelValues(method).Inc()
}

func (m *Metrics) RateLimited(limiter string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(limiter).Inc()
}

func (m *Metrics) DailyStats(activeUsers, generations int) {
	if m == nil {
		return
	}
	m.dailyActiveUsers.Set(float64(activeUsers))
	m.dailyGenerations.Set(float64(generations))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
