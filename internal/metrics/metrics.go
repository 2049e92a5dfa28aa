// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "finchat"

// Metrics groups every collector. A nil *Metrics is valid and records nothing,
// so components can be built without metrics in tests.
type Metrics struct {
	rpcRequests  *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	intents      *prometheus.CounterVec
	toolFailures *prometheus.CounterVec
	executions   *prometheus.CounterVec
	generated    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Chat messages by classified intent.",
		}, []string{"intent"}),
		toolFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_failures_total",
			Help:      "Tool invocations that produced a degraded response.",
		}, []string{"tool"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestion_executions_total",
			Help:      "Suggestion executions by action and status.",
		}, []string{"action", "status"}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_generated_total",
			Help:      "Transactions generated from recurring templates.",
		}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.intents, m.toolFailures, m.executions, m.generated)
	return m
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// Intent counts a classified message.
func (m *Metrics) Intent(intent string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(intent).Inc()
}

// ToolFailure counts a failed tool invocation.
func (m *Metrics) ToolFailure(tool string) {
	if m == nil {
		return
	}
	m.toolFailures.WithLabelValues(tool).Inc()
}

// Execution counts a suggestion execution outcome.
func (m *Metrics) Execution(action, status string) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(action, status).Inc()
}

// Generated counts transactions created from recurring templates.
func (m *Metrics) Generated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.generated.Add(float64(n))
}
