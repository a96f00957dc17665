package contacts_test

import (
	"testing"

	"github.com/jrsteele09/go-booking-sync/contacts"
	"github.com/stretchr/testify/require"
)

func TestRecordContact(t *testing.T) {
	rec := contacts.Record{
		Basic:          contacts.BasicInfo{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Title: "Mrs.", Phone: "0123"},
		Billing:        contacts.BillingAddress{Line1: "1 High St", City: "Leeds", ZipCode: "LS1", Country: "GB"},
		Passengers:     [3]contacts.PassengerInfo{{FirstName: "John", Surname: "Doe", SkillLevel: "3.5"}},
		Booking:        contacts.BookingSummary{ID: "ABC123", URL: "https://example.com/booking/ABC123"},
		SkillLevel:     "Intermediate",
		SkillLevelInfo: "plays weekly",
	}

	c := rec.Contact()
	require.Equal(t, "User has authorized.", c.OptInReason)
	require.Equal(t, "Email", c.DuplicateOption)
	require.Equal(t, "OTHER", c.SourceType)
	require.Equal(t, 784, c.LeadSourceID)
	require.Equal(t, "jane@example.com", c.PrimaryEmail())
	require.Equal(t, "Mrs.", c.Prefix)
	require.Equal(t, "GBR", c.Addresses[0].CountryCode)
	require.Equal(t, "BILLING", c.Addresses[0].Field)
	require.Equal(t, "PHONE1", c.PhoneNumbers[0].Field)

	level, ok := c.CustomFieldString(contacts.FieldSkillLevel)
	require.True(t, ok)
	require.Equal(t, "Intermediate - plays weekly", level)

	bookingID, ok := c.CustomFieldString(contacts.FieldBookingID)
	require.True(t, ok)
	require.Equal(t, "ABC123", bookingID)

	first, _ := c.CustomFieldString(contacts.FieldPassenger1FirstName)
	require.Equal(t, "John", first)
	require.Len(t, c.CustomFields, 19)
}

func TestTitleAndCountry(t *testing.T) {
	require.Equal(t, "Dr.", contacts.Title("Dr."))
	require.Equal(t, "", contacts.Title("Sir"))
	require.Equal(t, "", contacts.Title("mr."))

	require.Equal(t, "PRT", contacts.CountryCode("PT"))
	require.Equal(t, "GBR", contacts.CountryCode("GB"))
	require.Equal(t, "Narnia", contacts.CountryCode("Narnia"))
	require.Equal(t, "", contacts.CountryCode(""))
}

func TestRecordNote(t *testing.T) {
	rec := contacts.Record{Product: "Tennis Holiday", Venue: "Portugal", BookedItems: "Room, Court"}
	require.Equal(t, "Booking created - Tennis Holiday - Portugal\nBooking - Room, Court", rec.Note())
}
