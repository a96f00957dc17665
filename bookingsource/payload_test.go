package bookingsource_test

import (
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-booking-sync/bookingsource"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/stretchr/testify/require"
)

func loadWebhook(t *testing.T, path string) bookingsource.Webhook {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var hook bookingsource.Webhook
	require.NoError(t, json.Unmarshal(data, &hook))
	return hook
}

func TestDecodeSingleItemWebhook(t *testing.T) {
	hook := loadWebhook(t, "testdata/webhook_single_item.json")
	b := hook.Booking

	require.Equal(t, "ABC123", b.Code)
	require.Equal(t, bookingsource.ItemList{{ItemID: "42", Qty: 2}}, b.Order.Items)
	require.Equal(t, 2, b.Order.Quantity())
	require.Equal(t, "", b.Customer.AddressLine2.String())
	require.Equal(t, "2", b.Fields.Get("numbertravelling"))

	start, err := b.StartDate.Time()
	require.NoError(t, err)
	require.Equal(t, time.Unix(1719822600, 0), start)

	require.NoError(t, hook.Validate())
}

func TestDecodeItemShapes(t *testing.T) {
	cases := map[string]bookingsource.ItemList{
		`{"items":{"item":[{"@attributes":{"item_id":"1"},"qty":"1"},{"@attributes":{"item_id":"2"},"qty":3}]}}`: {
			{ItemID: "1", Qty: 1}, {ItemID: "2", Qty: 3},
		},
		`{"items":{"item":{"item_id":7,"qty":"1"}}}`: {{ItemID: "7", Qty: 1}},
		`{"items":[{"item_id":"9","qty":"1"}]}`:     {{ItemID: "9", Qty: 1}},
		`{"items":""}`:                              nil,
		`{"items":{"item":{}}}`:                     nil,
	}
	for in, want := range cases {
		var order bookingsource.Order
		require.NoError(t, json.Unmarshal([]byte(in), &order), in)
		require.Equal(t, want, order.Items, in)
	}
}

func TestFlex(t *testing.T) {
	var v struct {
		A bookingsource.Flex `json:"a"`
		B bookingsource.Flex `json:"b"`
		C bookingsource.Flex `json:"c"`
		D bookingsource.Flex `json:"d"`
		E bookingsource.Flex `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":12.5,"c":{},"d":null,"e":true}`), &v))
	require.Equal(t, "x", v.A.String())
	require.Equal(t, "12.5", v.B.String())
	require.Equal(t, "", v.C.String())
	require.Equal(t, "", v.D.String())
	require.Equal(t, "true", v.E.String())

	f, err := v.B.Float()
	require.NoError(t, err)
	require.Equal(t, 12.5, f)

	_, err = bookingsource.Flex("soon").Time()
	require.Error(t, err)
}

func TestPassengerSlots(t *testing.T) {
	fields := bookingsource.Fields{
		"p2firstname":   "John",
		"p2-email":      "john@example.com",
		"p2-phone":      "123",
		"p2tennislevel": "Beginner",
		"p4firstname":   "Ann",
		"p4_email":      "ann@example.com",
		"p4_phone":      "456",
		"p4_email_typo": "ignored",
	}

	p2 := fields.Passenger(2)
	require.Equal(t, "john@example.com", p2.Email)
	require.Equal(t, "123", p2.Phone)
	require.Equal(t, "Beginner", p2.SkillLevel)

	p4 := fields.Passenger(4)
	require.Equal(t, "ann@example.com", p4.Email)
	require.Equal(t, "456", p4.Phone)

	all := fields.Passengers()
	require.Len(t, all, 5)
	require.Equal(t, 2, all[0].Slot)
	require.Equal(t, 6, all[4].Slot)
	require.Empty(t, all[1].Email)
}

func TestValidateRequiresCodeAndEmail(t *testing.T) {
	hook := bookingsource.Webhook{Booking: bookingsource.Booking{Code: "ABC123"}}
	require.ErrorIs(t, hook.Validate(), errors.ErrInvalidPayload)

	hook.Booking.Customer.Email = "jane@example.com"
	require.NoError(t, hook.Validate())

	hook.Booking.Code = ""
	require.ErrorIs(t, hook.Validate(), errors.ErrInvalidPayload)
}
