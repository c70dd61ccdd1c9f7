package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storetis"

var latencyBucketsMs = []float64{
	5, 10, 25, 50, 75, 100, 150, 200, 300, 500,
	750, 1000, 1500, 2000, 3000, 5000, 10000, 30000,
}

// Registry holds every collector the service exports. A nil *Registry is a
// valid no-op so services can be constructed in tests without one.
type Registry struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	ordersCreated        prometheus.Counter
	orderTransitions     *prometheus.CounterVec
	subscriptionsCreated prometheus.Counter
	subscriptionsActive  prometheus.Counter
	consultations        *prometheus.CounterVec
	events               *prometheus.CounterVec
	processLatency       *prometheus.HistogramVec
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests processed, partitioned by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_ms",
			Help: "HTTP request latency in milliseconds.", Buckets: latencyBucketsMs,
		}, []string{"route", "method"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_created_total",
			Help: "Orders written to the ledger.",
		}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "order_transitions_total",
			Help: "Order status changes by target status.",
		}, []string{"status"}),
		subscriptionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "subscriptions_created_total",
			Help: "Subscriptions created by order confirmation.",
		}),
		subscriptionsActive: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "subscriptions_verified_total",
			Help: "Subscriptions verified by staff.",
		}),
		consultations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "consultations_total",
			Help: "Consultation requests by outcome.",
		}, []string{"outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_published_total",
			Help: "Domain events handed to the broker.",
		}, []string{"topic", "result"}),
		processLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "process_duration_ms",
			Help: "Business process latency in milliseconds.", Buckets: latencyBucketsMs,
		}, []string{"type", "subtype"}),
	}
	r.reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		r.httpRequests, r.httpLatency,
		r.ordersCreated, r.orderTransitions,
		r.subscriptionsCreated, r.subscriptionsActive,
		r.consultations, r.events, r.processLatency,
	)
	return r
}

// Gatherer exposes the underlying registry for the /metrics handler and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) OrderCreated() {
	if r == nil {
		return
	}
	r.ordersCreated.Inc()
}

func (r *Registry) OrderTransition(status string) {
	if r == nil {
		return
	}
	r.orderTransitions.WithLabelValues(status).Inc()
}

func (r *Registry) SubscriptionsCreated(n int) {
	if r == nil {
		return
	}
	r.subscriptionsCreated.Add(float64(n))
}

func (r *Registry) SubscriptionVerified() {
	if r == nil {
		return
	}
	r.subscriptionsActive.Inc()
}

// Consultation records a routing outcome: "assigned" or "unassigned".
func (r *Registry) Consultation(outcome string) {
	if r == nil {
		return
	}
	r.consultations.WithLabelValues(outcome).Inc()
}

func (r *Registry) EventPublished(topic string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.events.WithLabelValues(topic, result).Inc()
}

// ObserveProcess records ms spent in a business process.
func (r *Registry) ObserveProcess(typ, subtype string, ms float64) {
	if r == nil {
		return
	}
	r.processLatency.WithLabelValues(typ, subtype).Observe(ms)
}
