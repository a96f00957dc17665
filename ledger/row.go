package ledger

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jrsteele09/go-booking-sync/bookingsource"
)

// RowInput is a booking plus what the sync worked out about it.
type RowInput struct {
	Booking     bookingsource.Booking
	StatusLabel string
	Product     string
	Venue       string
	BookedItems string
	GivenName   string
	FamilyName  string
	BookingURL  string
	Location    *time.Location
}

// passengerColumns are the per slot form keys, in sheet order, for slots 3..6.
var passengerColumns = []string{"firstname", "lastname", "dob", "_email", "_phone", "tennislevel"}

// BuildRow renders the booking in the fixed column order of the ledger sheet.
// Every value is a string; empty objects in the payload become "".
func BuildRow(in RowInput) []string {
	b := in.Booking
	c := b.Customer
	f := b.Fields
	o := b.Order
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	subTotal := money(o.SubTotal)
	taxTotal := money(o.TaxTotal)
	balance := money(o.Total) - money(o.PaidTotal)

	row := []string{
		b.Code,
		in.StatusLabel,
		date(b.CreatedDate, loc, "02/01/2006"),
		"",
		"",
		in.Product,
		in.Venue,
		strconv.Itoa(o.Quantity()),
		o.SubTotal.String(),
		o.TaxTotal.String(),
		fmt.Sprintf("%.2f", subTotal+taxTotal),
		o.Discount.String(),
		"",
		"",
		o.PaidTotal.String(),
		fmt.Sprintf("%.2f", balance),
		o.Total.String(),
		in.BookedItems,
		c.Title.String(),
		in.GivenName,
		in.FamilyName,
		c.DOB.String(),
		c.Email.String(),
		c.Phone.String(),
		c.SkillLevel.String(),
		f.Get("tennis_standard__more_informat"),
		c.Address.String(),
		c.AddressLine2.String(),
		c.City.String(),
		c.PostalZip.String(),
		c.Country.String(),
	}

	row = appendFields(row, f,
		"promo",
		"how_did_hear_about_this_holida",
		"numbertravelling",
		"how_many_players",
		"tennisclub",
		"coachgroup",
	)
	row = append(row, c.GroupOrganiser.String())
	row = appendFields(row, f,
		"sales_agent",
		"linked_booking_id",
		"p5board_basis",
		"p5r1_type", "p5room1_basis", "p5r1_sharing", "room_1_id",
		"p5room2_type", "p5room2_basis", "p5r2_sharing", "room_2_id",
		"p5r3_type", "p5room3_basis", "p5r3_sharing", "room_3_id",
		"p2firstname", "p2lastname", "p2dob", "p2-email", "p2-phone", "p2tennislevel",
	)
	for slot := 3; slot <= bookingsource.LastPassengerSlot; slot++ {
		for _, col := range passengerColumns {
			row = append(row, f.Get(fmt.Sprintf("p%d%s", slot, col)))
		}
	}
	row = appendFields(row, f,
		"tenfitpackage",
		"outbound_flight_arrival_date",
		"outflighttime",
		"outbound_flight_departure_airp",
		"outbound_flight_arrival_airpor",
		"outflightnum",
		"inbound_flight_departure_date",
		"inflighttime",
		"inbound_flight_departure_airpo",
		"inbound_flight_arrival_airport",
		"inflightnum",
	)
	return append(row,
		in.BookingURL,
		"",
		date(b.StartDate, loc, "20060102"),
		date(b.EndDate, loc, "20060102"),
	)
}

func appendFields(row []string, f bookingsource.Fields, keys ...string) []string {
	for _, k := range keys {
		row = append(row, f.Get(k))
	}
	return row
}

func money(v bookingsource.Flex) float64 {
	n, err := v.Float()
	if err != nil {
		return 0
	}
	return n
}

func date(v bookingsource.Flex, loc *time.Location, layout string) string {
	t, err := v.Time()
	if err != nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(layout)
}
