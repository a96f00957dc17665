package contacts

import (
	"fmt"
	"slices"

	"github.com/jrsteele09/go-booking-sync/crm"
)

// Kind says how a record is tagged: a primary booker gets the new or repeat
// booking tags, an additional passenger always gets the passenger tags.
type Kind int

const (
	KindPrimary Kind = iota
	KindPassenger
)

func (k Kind) String() string {
	if k == KindPassenger {
		return "passenger"
	}
	return "primary"
}

// CRM custom field ids.
const (
	FieldSkillLevel          = 9
	FieldPassenger1FirstName = 239
	FieldPassenger1Surname   = 241
	FieldPassenger1Level     = 245
	FieldPassenger2FirstName = 247
	FieldPassenger2Surname   = 249
	FieldPassenger2Level     = 255
	FieldPassenger3FirstName = 257
	FieldPassenger3Surname   = 259
	FieldBookingID           = 514
	FieldBookingURL          = 516
	FieldBookingStatus       = 518
	FieldStartDate           = 520
	FieldEndDate             = 524
	FieldEventType           = 526
	FieldClub                = 528
	FieldGroupOrganiser      = 530
	FieldCreatedDate         = 532
	FieldEventLocation       = 534
)

const (
	optInReason     = "User has authorized."
	duplicateOption = "Email"
	sourceType      = "OTHER"
	leadSourceID    = 784
)

var titles = []string{"Mr.", "Mrs.", "Dr.", "Ms.", "Miss", "Mstr", "Professor"}

// Title keeps only the salutations the CRM accepts.
func Title(title string) string {
	if slices.Contains(titles, title) {
		return title
	}
	return ""
}

type BasicInfo struct {
	Email     string
	FirstName string
	LastName  string
	Title     string
	Phone     string
}

type BillingAddress struct {
	Line1   string
	Line2   string
	City    string
	ZipCode string
	Country string // ISO 3166-1 alpha-2
}

type PassengerInfo struct {
	FirstName  string
	Surname    string
	SkillLevel string
}

type BookingSummary struct {
	ID             string
	URL            string
	Status         string
	CreatedDate    string
	StartDate      string
	EndDate        string
	EventType      string
	Club           string
	GroupOrganiser string
	EventLocation  string
}

// Record is everything needed to reconcile one person with the CRM. It is
// rebuilt from the booking on every delivery.
type Record struct {
	Kind           Kind
	Basic          BasicInfo
	Billing        BillingAddress
	Passengers     [3]PassengerInfo
	Booking        BookingSummary
	SkillLevel     string
	SkillLevelInfo string
	Product        string
	Venue          string
	BookedItems    string
}

// Note is the audit note attached after the upsert.
func (r Record) Note() string {
	return fmt.Sprintf("Booking created - %s - %s\nBooking - %s", r.Product, r.Venue, r.BookedItems)
}

func (r Record) CustomFields() []crm.CustomField {
	p := r.Passengers
	return []crm.CustomField{
		{ID: FieldSkillLevel, Content: r.SkillLevel + " - " + r.SkillLevelInfo},
		{ID: FieldPassenger1FirstName, Content: p[0].FirstName},
		{ID: FieldPassenger1Surname, Content: p[0].Surname},
		{ID: FieldPassenger1Level, Content: p[0].SkillLevel},
		{ID: FieldPassenger2FirstName, Content: p[1].FirstName},
		{ID: FieldPassenger2Surname, Content: p[1].Surname},
		{ID: FieldPassenger2Level, Content: p[1].SkillLevel},
		{ID: FieldPassenger3FirstName, Content: p[2].FirstName},
		{ID: FieldPassenger3Surname, Content: p[2].Surname},
		{ID: FieldBookingID, Content: r.Booking.ID},
		{ID: FieldBookingURL, Content: r.Booking.URL},
		{ID: FieldBookingStatus, Content: r.Booking.Status},
		{ID: FieldStartDate, Content: r.Booking.StartDate},
		{ID: FieldEndDate, Content: r.Booking.EndDate},
		{ID: FieldEventType, Content: r.Booking.EventType},
		{ID: FieldClub, Content: r.Booking.Club},
		{ID: FieldGroupOrganiser, Content: r.Booking.GroupOrganiser},
		{ID: FieldCreatedDate, Content: r.Booking.CreatedDate},
		{ID: FieldEventLocation, Content: r.Booking.EventLocation},
	}
}

// Contact builds the upsert body.
func (r Record) Contact() crm.Contact {
	return crm.Contact{
		OptInReason:     optInReason,
		DuplicateOption: duplicateOption,
		SourceType:      sourceType,
		EmailAddresses:  []crm.EmailAddress{{Email: r.Basic.Email, Field: "EMAIL1"}},
		GivenName:       r.Basic.FirstName,
		FamilyName:      r.Basic.LastName,
		LeadSourceID:    leadSourceID,
		Addresses: []crm.Address{{
			CountryCode: CountryCode(r.Billing.Country),
			Field:       "BILLING",
			Line1:       r.Billing.Line1,
			Line2:       r.Billing.Line2,
			Locality:    r.Billing.City,
			ZipCode:     r.Billing.ZipCode,
		}},
		PhoneNumbers: []crm.PhoneNumber{{Field: "PHONE1", Number: r.Basic.Phone}},
		Prefix:       Title(r.Basic.Title),
		CustomFields: r.CustomFields(),
	}
}
