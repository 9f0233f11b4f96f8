package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout outcomes by delivery method and result code.
	CheckoutTotal *prometheus.CounterVec
	// CheckoutDuration records checkout latency in milliseconds.
	CheckoutDuration *prometheus.HistogramVec
	// CouponEvaluationsTotal counts coupon evaluations by stage and result.
	CouponEvaluationsTotal *prometheus.CounterVec
	// PaymentVerifyTotal counts payment signature verification outcomes.
	PaymentVerifyTotal *prometheus.CounterVec
	// GeocodeRequestsTotal counts address geocoding outcomes.
	GeocodeRequestsTotal *prometheus.CounterVec
	// OTPSendTotal counts OTP dispatches by audience and result.
	OTPSendTotal *prometheus.CounterVec
	// PushDeliveriesTotal counts push notification delivery outcomes.
	PushDeliveriesTotal *prometheus.CounterVec
	// RateLimitedTotal counts requests rejected by the per-client limiter, by audience.
	RateLimitedTotal *prometheus.CounterVec
	// UpstreamCallsTotal counts third-party API calls by upstream and outcome.
	UpstreamCallsTotal *prometheus.CounterVec
	// UpstreamBreakerTransitions counts breaker moves per upstream.
	UpstreamBreakerTransitions *prometheus.CounterVec
	// UpstreamBreakerState is 0 closed, 1 open, 2 half open.
	UpstreamBreakerState *prometheus.GaugeVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by outcome.",
		}, []string{"method", "result"})
		CheckoutDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_ms",
			Help:      "Checkout latency in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method"})
		CouponEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_evaluations_total",
			Help:      "Count of coupon evaluations by stage and outcome.",
		}, []string{"stage", "result"})
		PaymentVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verify_total",
			Help:      "Count of payment verifications by outcome.",
		}, []string{"provider", "result"})
		GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Count of geocoding lookups by outcome.",
		}, []string{"result"})
		OTPSendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_send_total",
			Help:      "Count of OTP dispatches by audience and outcome.",
		}, []string{"audience", "result"})
		PushDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_deliveries_total",
			Help:      "Count of push notification deliveries by outcome.",
		}, []string{"result"})
		RateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by rate limiting.",
		}, []string{"audience"})
		UpstreamCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Count of third-party API calls by upstream and outcome.",
		}, []string{"upstream", "outcome"})
		UpstreamBreakerTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_breaker_transitions_total",
			Help:      "Count of circuit breaker transitions by upstream.",
		}, []string{"upstream", "from", "to"})
		UpstreamBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_breaker_state",
			Help:      "Circuit breaker state by upstream: 0 closed, 1 open, 2 half open.",
		}, []string{"upstream"})

		for _, c := range []**prometheus.CounterVec{
			&CheckoutTotal, &CouponEvaluationsTotal, &PaymentVerifyTotal,
			&GeocodeRequestsTotal, &OTPSendTotal, &PushDeliveriesTotal, &RateLimitedTotal,
			&UpstreamCallsTotal, &UpstreamBreakerTransitions,
		} {
			target := c
			mustRegisterCollector(reg, *target, func(existing prometheus.Collector) {
				if v, ok := existing.(*prometheus.CounterVec); ok {
					*target = v
				}
			})
		}
		mustRegisterCollector(reg, CheckoutDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				CheckoutDuration = v
			}
		})
		mustRegisterCollector(reg, UpstreamBreakerState, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.GaugeVec); ok {
				UpstreamBreakerState = v
			}
		})
	})
}

// Inc increments a counter vec when metrics are registered.
func Inc(vec *prometheus.CounterVec, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Inc()
}

// ObserveSince records the milliseconds elapsed since start when metrics are registered.
func ObserveSince(vec *prometheus.HistogramVec, start time.Time, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Observe(float64(time.Since(start).Milliseconds()))
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
