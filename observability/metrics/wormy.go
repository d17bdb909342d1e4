package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// WormyMetrics aggregates the counters exposed by the native modules. The RPC
// layer records one observation per accepted or rejected action.
type WormyMetrics struct {
	actionsTotal    *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	payoutsTotal    *prometheus.CounterVec
	streakCurrent   *prometheus.GaugeVec
	requestSeconds  *prometheus.HistogramVec
}

var (
	wormyOnce     sync.Once
	wormyRegistry *WormyMetrics
)

// Wormy returns the process-wide metrics registry for the native modules.
func Wormy() *WormyMetrics {
	wormyOnce.Do(func() {
		wormyRegistry = &WormyMetrics{
			actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wormy_actions_total",
				Help: "Count of accepted module actions by module and action.",
			}, []string{"module", "action"}),
			rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wormy_rejections_total",
				Help: "Count of rejected module actions by module and reason.",
			}, []string{"module", "reason"}),
			payoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wormy_payouts_total",
				Help: "Sum of token payouts by module.",
			}, []string{"module"}),
			streakCurrent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "wormy_streak_current",
				Help: "Most recently observed check-in streak length per account.",
			}, []string{"account"}),
			requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "wormy_rpc_request_seconds",
				Help:    "RPC request latency by method.",
				Buckets: prometheus.DefBuckets,
			}, []string{"method"}),
		}
		prometheus.MustRegister(
			wormyRegistry.actionsTotal,
			wormyRegistry.rejectionsTotal,
			wormyRegistry.payoutsTotal,
			wormyRegistry.streakCurrent,
			wormyRegistry.requestSeconds,
		)
	})
	return wormyRegistry
}

// ObserveAction records an accepted action.
func (m *WormyMetrics) ObserveAction(module, action string) {
	if m == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	m.actionsTotal.WithLabelValues(module, action).Inc()
}

// ObserveRejection records a denied action with its reason.
func (m *WormyMetrics) ObserveRejection(module, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.rejectionsTotal.WithLabelValues(module, reason).Inc()
}

// ObservePayout adds a completed payout amount to the module total.
func (m *WormyMetrics) ObservePayout(module string, amount float64) {
	if m == nil || amount < 0 {
		return
	}
	m.payoutsTotal.WithLabelValues(module).Add(amount)
}

// ObserveStreak records the latest streak length for an account.
func (m *WormyMetrics) ObserveStreak(account string, current uint64) {
	if m == nil || account == "" {
		return
	}
	m.streakCurrent.WithLabelValues(account).Set(float64(current))
}

// ObserveRequest records the latency of one RPC call.
func (m *WormyMetrics) ObserveRequest(method string, seconds float64) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.requestSeconds.WithLabelValues(method).Observe(seconds)
}
