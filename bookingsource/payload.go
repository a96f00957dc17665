package bookingsource

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Webhook is the body the booking source posts on every booking event.
type Webhook struct {
	Booking Booking `json:"booking"`
}

type Booking struct {
	Code        string   `json:"code" validate:"required"`
	Status      Flex     `json:"status"`
	CreatedDate Flex     `json:"created_date"`
	StartDate   Flex     `json:"start_date"`
	EndDate     Flex     `json:"end_date"`
	Customer    Customer `json:"customer"`
	Fields      Fields   `json:"fields"`
	Order       Order    `json:"order"`
}

// Customer is the lead booker.
type Customer struct {
	Email          Flex `json:"email" validate:"required"`
	Name           Flex `json:"name"`
	LastName       Flex `json:"lplastname"`
	Title          Flex `json:"lptitle"`
	DOB            Flex `json:"lpdob"`
	Phone          Flex `json:"phone"`
	Address        Flex `json:"address"`
	AddressLine2   Flex `json:"addressline2"`
	City           Flex `json:"city"`
	PostalZip      Flex `json:"postal_zip"`
	Country        Flex `json:"country"`
	SkillLevel     Flex `json:"iptennislevel"`
	Club           Flex `json:"tennisclub"`
	GroupOrganiser Flex `json:"p5grp_ldr"`
}

type Order struct {
	Items     ItemList `json:"items"`
	SubTotal  Flex     `json:"sub_total"`
	TaxTotal  Flex     `json:"tax_total"`
	Total     Flex     `json:"total"`
	PaidTotal Flex     `json:"paid_total"`
	Discount  Flex     `json:"discount"`
}

// Quantity sums the quantity of every line item.
func (o Order) Quantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Qty
	}
	return total
}

type Item struct {
	ItemID string
	Qty    int
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		Attributes struct {
			ItemID Flex `json:"item_id"`
		} `json:"@attributes"`
		ItemID Flex `json:"item_id"`
		Qty    Flex `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	i.ItemID = raw.Attributes.ItemID.String()
	if i.ItemID == "" {
		i.ItemID = raw.ItemID.String()
	}
	qty, err := raw.Qty.Int()
	if err != nil {
		return fmt.Errorf("decode item %s qty: %w", i.ItemID, err)
	}
	i.Qty = qty
	return nil
}

// ItemList accepts the order's items in any of the shapes the booking source
// sends: {"item": {...}}, {"item": [...]}, a bare list, or empty.
type ItemList []Item

func (l *ItemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isEmptyJSON(data) {
		*l = nil
		return nil
	}
	if data[0] == '{' {
		var wrapper struct {
			Item json.RawMessage `json:"item"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
		data = bytes.TrimSpace(wrapper.Item)
		if isEmptyJSON(data) {
			*l = nil
			return nil
		}
	}

	switch data[0] {
	case '[':
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
		*l = items
	case '{':
		var item Item
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*l = ItemList{item}
	default:
		return fmt.Errorf("decode items: unexpected %q", data)
	}
	return nil
}

func isEmptyJSON(data []byte) bool {
	switch strings.Join(strings.Fields(string(data)), "") {
	case "", "null", `""`, "{}", "[]":
		return true
	}
	return false
}

// Flex is a scalar the booking source may send as a string, a number, a bool,
// null or an empty object. Empty values decode to "".
type Flex string

func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case isEmptyJSON(data):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flex(s)
	default:
		// numbers, bools and non empty objects keep their JSON text
		*f = Flex(data)
	}
	return nil
}

func (f Flex) String() string {
	return string(f)
}

func (f Flex) Int() (int, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (f Flex) Float() (float64, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Time reads the value as unix seconds. An empty value gives the zero time.
func (f Flex) Time() (time.Time, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return time.Time{}, nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Unix(secs, 0), nil
}

// Fields holds the booking's custom form fields by key.
type Fields map[string]Flex

func (f Fields) Get(key string) string {
	return f[key].String()
}

// Additional passenger slots. Slot 1 is the lead booker in Customer.
const (
	FirstPassengerSlot = 2
	LastPassengerSlot  = 6
)

// Passenger is one additional passenger slot of the booking form.
type Passenger struct {
	Slot       int
	FirstName  string
	LastName   string
	Title      string
	DOB        string
	Email      string
	Phone      string
	SkillLevel string
}

// Passenger returns slot 2..6. Slot 2's contact keys use a hyphen
// ("p2-email"), the others an underscore ("p3_email").
func (f Fields) Passenger(slot int) Passenger {
	prefix := "p" + strconv.Itoa(slot)
	sep := "_"
	if slot == FirstPassengerSlot {
		sep = "-"
	}
	return Passenger{
		Slot:       slot,
		FirstName:  f.Get(prefix + "firstname"),
		LastName:   f.Get(prefix + "lastname"),
		Title:      f.Get(prefix + "title"),
		DOB:        f.Get(prefix + "dob"),
		Email:      f.Get(prefix + sep + "email"),
		Phone:      f.Get(prefix + sep + "phone"),
		SkillLevel: f.Get(prefix + "tennislevel"),
	}
}

// Passengers returns every additional passenger slot in order, filled or not.
func (f Fields) Passengers() []Passenger {
	out := make([]Passenger, 0, LastPassengerSlot-FirstPassengerSlot+1)
	for slot := FirstPassengerSlot; slot <= LastPassengerSlot; slot++ {
		out = append(out, f.Passenger(slot))
	}
	return out
}
