package bookingsource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-booking-sync/bookingsource"
	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*bookingsource.Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.New(&config.Settings{
		BookingSource: config.BookingSourceSettings{
			BaseURL:        srv.URL + "/api/3.0/",
			APIKey:         "key",
			APISecret:      "secret",
			RequestsPerSec: 1000,
			Burst:          10,
		},
	})
	return bookingsource.NewClient(cfg, srv.Client()), &hits
}

func TestItemName(t *testing.T) {
	client, hits := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" || r.URL.Path != "/api/3.0/item/42" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"item":{"item_id":42,"name":"Tennis Holiday Portugal - Double Room"}}`))
	})

	name, err := client.ItemName(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Tennis Holiday Portugal - Double Room", name)
	require.Equal(t, int32(1), hits.Load())
}

func TestItemNameNotFoundDoesNotTripBreaker(t *testing.T) {
	client, hits := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 8; i++ {
		_, err := client.ItemName(context.Background(), "missing")
		var reqErr *bookingsource.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusNotFound, reqErr.Status)
	}
	require.Equal(t, int32(8), hits.Load())
}

func TestBreakerOpensAfterRepeatedServerErrors(t *testing.T) {
	client, hits := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := client.ItemName(context.Background(), "42")
		require.Error(t, err)
	}
	_, err := client.ItemName(context.Background(), "42")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(5), hits.Load())
}
