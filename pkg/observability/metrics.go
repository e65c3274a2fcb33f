// Package observability provides the gateway's metrics and tracing. Both are
// optional: a nil *Metrics and a nil tracer are valid and cost nothing on the
// dispatch path.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	toolCallsTotal  *prometheus.CounterVec
}

// NewMetrics creates the gateway collectors and registers them on reg. A nil
// registerer falls back to the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcp_gateway",
			Name:      "requests_total",
			Help:      "Requests processed, by protocol method and wire error code (0 for success).",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mcp_gateway",
			Name:      "request_duration_seconds",
			Help:      "Request processing latency, by protocol method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		toolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcp_gateway",
			Name:      "tool_calls_total",
			Help:      "Tool invocations, by tool name and outcome.",
		}, []string{"tool", "outcome"}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.toolCallsTotal)
	return m
}

// ObserveRequest records one processed request. code is 0 for success.
func (m *Metrics) ObserveRequest(method string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveToolCall records one tool invocation outcome ("ok" or "error").
func (m *Metrics) ObserveToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}
