package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of cart line additions or increments",
	})

	CartItemsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_removed_total",
		Help: "Total number of cart line removals",
	})

	CartClampedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_quantity_clamped_total",
		Help: "Total number of quantity updates clamped to the stock cap",
	})

	CheckoutAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Total number of checkout attempts",
	})

	CheckoutConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_confirmed_total",
		Help: "Total number of confirmed checkouts",
	})

	CheckoutRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected_total",
		Help: "Total number of rejected checkout attempts",
	}, []string{"reason"})

	CheckoutSettleLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_settle_latency_seconds",
		Help:    "Latency from checkout start to confirmation",
		Buckets: prometheus.DefBuckets,
	})

	ToastsShownTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toasts_shown_total",
		Help: "Total number of toasts shown",
	}, []string{"type"})

	ToastsEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toasts_evicted_total",
		Help: "Total number of toasts evicted by the queue cap",
	})

	ToastsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toasts_active",
		Help: "Current number of visible toasts across sessions",
	})

	ProfileValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_validation_failures_total",
		Help: "Total number of profile field validation failures",
	}, []string{"field"})

	ProfileSavesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "profile_saves_total",
		Help: "Total number of saved profiles",
	})

	ThemeTogglesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "theme_toggles_total",
		Help: "Total number of dark-mode toggles",
	})

	OrdersArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_archived_total",
		Help: "Total number of orders archived from events",
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
