/*
Package metrics 定义 Prometheus 指标。所有方法对 nil 接收者安全，未启用指标时直接传 nil。
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DomainEvents        *prometheus.CounterVec
	OutboxPublished     *prometheus.CounterVec
	ExpiredAds          prometheus.Counter
	EventHandlerErrors  *prometheus.CounterVec
}

// New 在给定 registerer 上注册指标；reg 为 nil 时使用默认 registry
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		DomainEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Domain events committed by event name",
		}, []string{"event"}),

		OutboxPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_publish_total",
			Help:      "Outbox relay attempts by result", // published, failed
		}, []string{"result"}),

		ExpiredAds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advertisements_expired_total",
			Help:      "Advertisements moved to Expired by the sweeper",
		}),

		EventHandlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_errors_total",
			Help:      "In-process event handler failures after commit",
		}, []string{"event"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

func (m *Metrics) IncDomainEvent(event string) {
	if m != nil {
		m.DomainEvents.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) IncOutboxResult(result string) {
	if m != nil {
		m.OutboxPublished.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AddExpiredAdvertisements(n int) {
	if m != nil && n > 0 {
		m.ExpiredAds.Add(float64(n))
	}
}

func (m *Metrics) IncEventHandlerError(event string) {
	if m != nil {
		m.EventHandlerErrors.WithLabelValues(event).Inc()
	}
}
