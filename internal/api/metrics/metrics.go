// Package metrics defines and registers all custom Prometheus metrics for the
// storefront. It is the single source of truth for metric names, labels, and
// help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestDuration measures calls to the user, menu and order services.
// Labels:
//   - service: "user", "menu" or "order"
//   - outcome: "ok", "http_error", "unavailable", "network_error",
//     "decode_error" or "canceled"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to backend services.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service", "outcome"},
)

// ── Cart & checkout ───────────────────────────────────────────────────────────

// CartMutationsTotal counts cart changes by operation (add, update, remove, clear).
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"operation"},
)

// OrdersPlacedTotal counts successful checkouts by order type.
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed, by order type.",
	},
	[]string{"order_type"},
)

// ── Tracking ──────────────────────────────────────────────────────────────────

// ActiveTrackingStreams is the number of open order tracking streams.
var ActiveTrackingStreams = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracking_streams_active",
		Help:      "Current number of open order tracking streams.",
	},
)

// ── Menu cache ────────────────────────────────────────────────────────────────

// MenuCacheTotal counts menu cache lookups.
// Label:
//   - result: "hit" or "miss"
var MenuCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "menu_cache_total",
		Help:      "Total number of menu cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Notifications ─────────────────────────────────────────────────────────────

// NotificationsTotal counts notification deliveries.
// Label:
//   - result: "delivered" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications handled by the dispatcher.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notifications per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Admin ─────────────────────────────────────────────────────────────────────

// UserStatusChangesTotal counts audited user status changes by action
// (USER_BLOCKED / USER_UNBLOCKED).
var UserStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_status_changes_total",
		Help:      "Total number of user status changes made by admins.",
	},
	[]string{"action"},
)
