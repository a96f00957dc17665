package config

import "slices"

type CrmConfig interface {
	GetCrmClientID() string
	GetCrmClientSecret() string
	GetCrmRedirectURI() string
	GetCrmAuthorizeURL() string
	GetCrmTokenURL() string
	GetCrmAPIBaseURL() string
	GetCrmTags() TagConfig
}

// TagConfig holds the CRM tag ids applied after an upsert.
type TagConfig struct {
	New       []int
	Repeat    []int
	Passenger []int
}

type Crm struct {
	crm CRMSettings
}

var _ CrmConfig = Crm{}

func (c Crm) GetCrmClientID() string {
	return c.crm.ClientID
}

func (c Crm) GetCrmClientSecret() string {
	return c.crm.ClientSecret
}

func (c Crm) GetCrmRedirectURI() string {
	return c.crm.RedirectURI
}

func (c Crm) GetCrmAuthorizeURL() string {
	return c.crm.AuthorizeURL
}

func (c Crm) GetCrmTokenURL() string {
	return c.crm.TokenURL
}

func (c Crm) GetCrmAPIBaseURL() string {
	return c.crm.APIBaseURL
}

func (c Crm) GetCrmTags() TagConfig {
	return TagConfig{
		New:       slices.Clone(c.crm.NewTags),
		Repeat:    slices.Clone(c.crm.RepeatTags),
		Passenger: slices.Clone(c.crm.PassengerTags),
	}
}
