package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordWebhook(t *testing.T) {
	before := testutil.ToFloat64(WebhookDeliveries.WithLabelValues("207"))
	RecordWebhook(207, 15*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(WebhookDeliveries.WithLabelValues("207")))
}

func TestRecordCrmRequestWithoutResponse(t *testing.T) {
	before := testutil.ToFloat64(CrmRequests.WithLabelValues("upsert", "error"))
	RecordCrmRequest("upsert", 0)
	require.Equal(t, before+1, testutil.ToFloat64(CrmRequests.WithLabelValues("upsert", "error")))
}

func TestRecordLedgerWriteFailure(t *testing.T) {
	before := testutil.ToFloat64(LedgerWrites.WithLabelValues("failed"))
	RecordLedgerWrite("append", errors.New("quota exceeded"))
	require.Equal(t, before+1, testutil.ToFloat64(LedgerWrites.WithLabelValues("failed")))
}

func TestRecordTokenRefresh(t *testing.T) {
	ok := testutil.ToFloat64(TokenRefreshes.WithLabelValues("success"))
	failed := testutil.ToFloat64(TokenRefreshes.WithLabelValues("failure"))

	RecordTokenRefresh(nil)
	RecordTokenRefresh(errors.New("401"))

	require.Equal(t, ok+1, testutil.ToFloat64(TokenRefreshes.WithLabelValues("success")))
	require.Equal(t, failed+1, testutil.ToFloat64(TokenRefreshes.WithLabelValues("failure")))
}
