package config

import "slices"

type IngestConfig interface {
	GetProductKeywords() []string
	GetVenueKeywords() []string
	GetReportingTimezone() string
}

type Ingest struct {
	ingest IngestSettings
}

var _ IngestConfig = Ingest{}

// GetProductKeywords returns the product keywords in configured order. Order matters:
// when several keywords match, the last one wins.
func (i Ingest) GetProductKeywords() []string {
	return slices.Clone(i.ingest.ProductKeywords)
}

func (i Ingest) GetVenueKeywords() []string {
	return slices.Clone(i.ingest.VenueKeywords)
}

func (i Ingest) GetReportingTimezone() string {
	return i.ingest.Timezone
}
