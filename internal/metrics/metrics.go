package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook Metrics
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sync_webhook_deliveries_total",
			Help: "Total number of booking webhook deliveries by response status",
		},
		[]string{"status"},
	)

	WebhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_sync_webhook_duration_seconds",
			Help:    "Time spent processing a booking webhook",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CRM Metrics
	Reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sync_reconciliations_total",
			Help: "Total number of contact reconciliations by outcome",
		},
		[]string{"outcome"}, // "new", "repeat", "passenger", "failed"
	)

	CrmRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sync_crm_requests_total",
			Help: "Total number of CRM API requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sync_token_refreshes_total",
			Help: "Total number of CRM token refreshes by result",
		},
		[]string{"result"},
	)

	// Ledger Metrics
	LedgerWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sync_ledger_writes_total",
			Help: "Total number of ledger writes by mode",
		},
		[]string{"mode"}, // "append", "update", "failed"
	)

	// Booking Source Metrics
	ItemLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sync_item_lookups_total",
			Help: "Total number of booking-source item lookups by result",
		},
		[]string{"result"},
	)
)

// RecordWebhook records a handled webhook delivery.
func RecordWebhook(status int, duration time.Duration) {
	WebhookDeliveries.WithLabelValues(strconv.Itoa(status)).Inc()
	WebhookDuration.Observe(duration.Seconds())
}

func RecordReconciliation(outcome string) {
	Reconciliations.WithLabelValues(outcome).Inc()
}

// RecordCrmRequest records a CRM call. A status of 0 means no response was received.
func RecordCrmRequest(operation string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	CrmRequests.WithLabelValues(operation, label).Inc()
}

func RecordTokenRefresh(err error) {
	TokenRefreshes.WithLabelValues(result(err)).Inc()
}

func RecordLedgerWrite(mode string, err error) {
	if err != nil {
		mode = "failed"
	}
	LedgerWrites.WithLabelValues(mode).Inc()
}

func RecordItemLookup(err error) {
	ItemLookups.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
