package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Generation("image", "success")
	m.Generation("image", "success")
	m.Generation("video", "failed")
	m.QuotaDenied()
	m.HTTPRequest("/api/health", "GET", 200)
	m.HTTPRequest("/api/health", "GET", 503)
	m.RateLimited("auth")
	m.SubscriptionActivated("Stripe")
	m.ProviderDuration("openai", 2*time.Second)
	m.DailyStats(3, 11)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("image", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("video", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quotaDenied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/health", "GET", "5xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("auth")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptionActivations.WithLabelValues("Stripe")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.providerDuration))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.dailyGenerations))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dailyActiveUsers))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Generation("image", "success")
		m.QuotaDenied()
		m.HTTPRequest("/", "GET", 200)
		m.DailyStats(1, 1)
	})
}
