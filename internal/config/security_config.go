package config

import "time"

type SecurityConfig interface {
	GetWebhookSecret() string
	GetStateSecret() string
	GetStateTTL() time.Duration
	GetWebhookRateLimit() (requests int, window time.Duration)
}

type Security struct {
	security SecuritySettings
}

var _ SecurityConfig = Security{}

// GetWebhookSecret is the shared token expected in the webhook header. Empty disables the check.
func (s Security) GetWebhookSecret() string {
	return s.security.WebhookSecret
}

// GetStateSecret signs the OAuth state parameter. Empty disables state enforcement.
func (s Security) GetStateSecret() string {
	return s.security.StateSecret
}

func (s Security) GetStateTTL() time.Duration {
	return s.security.StateTTL
}

// GetWebhookRateLimit returns 0 requests when rate limiting is disabled.
func (s Security) GetWebhookRateLimit() (int, time.Duration) {
	return s.security.WebhookRateLimit, s.security.WebhookRateLimitSpan
}
