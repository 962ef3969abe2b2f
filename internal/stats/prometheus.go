package stats

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for the interpreter
// =============================================================================

// Prometheus is a Collector backed by metrics registered on an injected
// registerer.
type Prometheus struct {
	// unifications counts belief searches.
	// Labels: functor, status (success, fail)
	unifications *prometheus.CounterVec

	// unifyLatency measures belief search time.
	// Labels: functor
	unifyLatency *prometheus.HistogramVec

	// rules counts achievement-rule resolutions.
	// Labels: functor, status
	rules *prometheus.CounterVec

	// ruleCandidates tracks how many rules matched a goal functor.
	// Labels: functor
	ruleCandidates *prometheus.HistogramVec

	// plans counts plan activations.
	// Labels: trigger, status
	plans *prometheus.CounterVec

	// planLatency measures plan body execution time.
	// Labels: trigger
	planLatency *prometheus.HistogramVec

	// triggers counts events handed to the agent.
	// Labels: kind (+, -, +!, -!), immediate
	triggers *prometheus.CounterVec
}

// NewPrometheus registers the interpreter metrics on reg under namespace.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	factory := promauto.With(reg)
	latency := []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

	return &Prometheus{
		unifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "unify",
			Name:      "searches_total",
			Help:      "Total belief searches by functor and outcome",
		}, []string{"functor", "status"}),
		unifyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "unify",
			Name:      "latency_seconds",
			Help:      "Belief search latency in seconds",
			Buckets:   latency,
		}, []string{"functor"}),
		rules: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rule",
			Name:      "resolutions_total",
			Help:      "Total achievement-rule resolutions by functor and outcome",
		}, []string{"functor", "status"}),
		ruleCandidates: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rule",
			Name:      "candidates",
			Help:      "Number of candidate rules per resolution",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}, []string{"functor"}),
		plans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "activations_total",
			Help:      "Total plan activations by trigger and outcome",
		}, []string{"trigger", "status"}),
		planLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "latency_seconds",
			Help:      "Plan body execution latency in seconds",
			Buckets:   latency,
		}, []string{"trigger"}),
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "triggers_total",
			Help:      "Total triggers by kind",
		}, []string{"kind", "immediate"}),
	}
}

func (p *Prometheus) ObserveUnification(functor string, matched bool, elapsed time.Duration) {
	p.unifications.WithLabelValues(functor, status(matched)).Inc()
	p.unifyLatency.WithLabelValues(functor).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveRule(functor string, candidates int, succeeded bool, _ time.Duration) {
	p.rules.WithLabelValues(functor, status(succeeded)).Inc()
	p.ruleCandidates.WithLabelValues(functor).Observe(float64(candidates))
}

func (p *Prometheus) ObservePlan(trigger string, succeeded bool, elapsed time.Duration) {
	p.plans.WithLabelValues(trigger, status(succeeded)).Inc()
	p.planLatency.WithLabelValues(trigger).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveTrigger(kind string, immediate bool) {
	p.triggers.WithLabelValues(kind, strconv.FormatBool(immediate)).Inc()
}
