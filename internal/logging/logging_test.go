package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/jrsteele09/go-booking-sync/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCtxCarriesDeliveryID(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info"}) })

	ctx := logging.WithDeliveryID(context.Background(), "d-123")
	logging.Ctx(ctx).Info().Msg("processing")

	require.Contains(t, buf.String(), `"delivery_id":"d-123"`)
	require.Contains(t, buf.String(), `"message":"processing"`)
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info"}) })

	logging.Ctx(context.Background()).Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, logging.ParseLevel("DEBUG"))
	require.Equal(t, zerolog.WarnLevel, logging.ParseLevel("warning"))
	require.Equal(t, zerolog.InfoLevel, logging.ParseLevel("nonsense"))
	require.Equal(t, zerolog.Disabled, logging.ParseLevel("disabled"))
}
