package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_orders_placed_total",
		Help: "Total number of orders placed from carts",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	OrderPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketplace_order_placement_latency_seconds",
		Help:    "Latency of the order placement transaction",
		Buckets: prometheus.DefBuckets,
	})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_order_status_updates_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	NotificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_notifications_created_total",
		Help: "Total number of notifications created",
	}, []string{"kind"})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_cart_operations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	ItemsListedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_items_listed_total",
		Help: "Total number of items listed for sale",
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_auth_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_events_consumed_total",
		Help: "Total number of order events consumed by workers",
	}, []string{"type", "result"})

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
