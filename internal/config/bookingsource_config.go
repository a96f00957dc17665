package config

import "maps"

type BookingSourceConfig interface {
	GetBookingSourceBaseURL() string
	GetBookingSourceCredentials() (key, secret string)
	GetBookingURLPrefix() string
	GetBookingSourceRateLimit() (perSecond float64, burst int)
	GetBookingStatusLabels() map[string]string
}

type BookingSource struct {
	source BookingSourceSettings
}

var _ BookingSourceConfig = BookingSource{}

func (b BookingSource) GetBookingSourceBaseURL() string {
	return b.source.BaseURL
}

func (b BookingSource) GetBookingSourceCredentials() (string, string) {
	return b.source.APIKey, b.source.APISecret
}

func (b BookingSource) GetBookingURLPrefix() string {
	return b.source.BookingURLPrefix
}

func (b BookingSource) GetBookingSourceRateLimit() (float64, int) {
	return b.source.RequestsPerSec, b.source.Burst
}

// GetBookingStatusLabels maps booking-source status codes (e.g. "PAID") to display labels.
func (b BookingSource) GetBookingStatusLabels() map[string]string {
	return maps.Clone(b.source.StatusLabels)
}
