package server

const (
	RouteWebhookBooking = "/webhooks/booking"

	RouteCrmAuthorize = "/crm/authorize"
	RouteCrmCallback  = "/crm/callback"

	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)

const (
	headerWebhookToken = "X-Webhook-Token"
	headerRequestID    = "X-Request-Id"

	contentTypeJSON = "application/json; charset=utf-8"

	maxWebhookBody = 1 << 20
)
