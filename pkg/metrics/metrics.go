package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const namespace = "styler"

var HistogramBuckets = []float64{
	// fast responses
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	// gateway round trips
	750, 1000, 1250, 1500, 2000,
	// slow upstreams (model replies)
	3000, 5000, 10000, 15000, 30000,
}

// Metric is a definition for the name, description, type and label names of
// a collector. NewMetric turns it into the prometheus.Collector for Type.
type Metric struct {
	MetricCollector prometheus.Collector
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case "counter_vec":
		return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case "counter":
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description})
	case "gauge":
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description})
	case "histogram_vec":
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets}, m.Args)
	case "summary_vec":
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	}
	return nil
}

var checkoutCreated = &Metric{
	Name:        "checkout_created_total",
	Description: "Gateway orders created, partitioned by plan.",
	Type:        "counter_vec",
	Args:        []string{"plan"},
}

var paymentVerification = &Metric{
	Name:        "payment_verification_total",
	Description: "Payment verifications, partitioned by result.",
	Type:        "counter_vec",
	Args:        []string{"result"},
}

var subscriptionTransition = &Metric{
	Name:        "subscription_transition_total",
	Description: "Subscription state transitions, partitioned by target status and reason.",
	Type:        "counter_vec",
	Args:        []string{"to", "reason"},
}

var webhookEvents = &Metric{
	Name:        "webhook_events_total",
	Description: "Gateway webhook events, partitioned by event type and result.",
	Type:        "counter_vec",
	Args:        []string{"event", "result"},
}

var upstreamDur = &Metric{
	Name:        "upstream_dur_ms",
	Description: "Latency of calls to the payment gateway and the model API in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"upstream", "op"},
}

// Business holds the domain counters. A nil *Business is valid and records
// nothing, which keeps services usable without a registry.
type Business struct {
	checkoutCreated        *prometheus.CounterVec
	paymentVerification    *prometheus.CounterVec
	subscriptionTransition *prometheus.CounterVec
	webhookEvents          *prometheus.CounterVec
	upstreamDur            *prometheus.HistogramVec
}

func NewBusiness(reg prometheus.Registerer) (*Business, error) {
	b := &Business{}
	targets := []struct {
		def *Metric
		set func(prometheus.Collector)
	}{
		{checkoutCreated, func(c prometheus.Collector) { b.checkoutCreated = c.(*prometheus.CounterVec) }},
		{paymentVerification, func(c prometheus.Collector) { b.paymentVerification = c.(*prometheus.CounterVec) }},
		{subscriptionTransition, func(c prometheus.Collector) { b.subscriptionTransition = c.(*prometheus.CounterVec) }},
		{webhookEvents, func(c prometheus.Collector) { b.webhookEvents = c.(*prometheus.CounterVec) }},
		{upstreamDur, func(c prometheus.Collector) { b.upstreamDur = c.(*prometheus.HistogramVec) }},
	}
	for _, t := range targets {
		c := NewMetric(t.def, "")
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, err
			}
			c = already.ExistingCollector
		}
		t.set(c)
	}
	return b, nil
}

func (b *Business) CheckoutCreated(plan string) {
	if b == nil {
		return
	}
	b.checkoutCreated.WithLabelValues(plan).Inc()
}

func (b *Business) PaymentVerification(result string) {
	if b == nil {
		return
	}
	b.paymentVerification.WithLabelValues(result).Inc()
}

func (b *Business) SubscriptionTransition(to, reason string) {
	if b == nil {
		return
	}
	b.subscriptionTransition.WithLabelValues(to, reason).Inc()
}

func (b *Business) WebhookEvent(event, result string) {
	if b == nil {
		return
	}
	b.webhookEvents.WithLabelValues(event, result).Inc()
}

func (b *Business) ObserveUpstream(upstream, op string, ms float64) {
	if b == nil {
		return
	}
	b.upstreamDur.WithLabelValues(upstream, op).Observe(ms)
}

func newDefaultBusiness() (*Business, error) {
	return NewBusiness(prometheus.DefaultRegisterer)
}

var Module = fx.Options(
	fx.Provide(newDefaultBusiness),
)
