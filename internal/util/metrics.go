package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Total number of cart mutations by operation",
	}, []string{"op"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_sessions_active",
		Help: "Number of live browser sessions",
	})

	CheckoutTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_transitions_total",
		Help: "Checkout stage transitions by target stage",
	}, []string{"stage"})

	CheckoutRedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_redirects_total",
		Help: "Checkout guard redirects by reason",
	}, []string{"reason"})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_validation_failures_total",
		Help: "Rejected form submissions by checkout stage",
	}, []string{"stage"})

	SubmissionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_submissions_rejected_total",
		Help: "Submissions rejected because another one was in flight",
	}, []string{"stage"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Total number of completed checkouts",
	})

	PaymentProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_payment_processing_latency_seconds",
		Help:    "Latency of simulated payment processing",
		Buckets: prometheus.DefBuckets,
	})

	SignInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_sign_ins_total",
		Help: "Sign-in attempts by result",
	}, []string{"result"})

	EventsPublishFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_events_publish_failed_total",
		Help: "Order events that could not be published",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
