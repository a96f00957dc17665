package ingest_test

import (
	"testing"

	"github.com/jrsteele09/go-booking-sync/ingest"
	"github.com/stretchr/testify/require"
)

func TestKeywordMatcher(t *testing.T) {
	m := ingest.NewKeywordMatcher([]string{"Tennis", "Tennis Holiday", "Padel"})

	require.Equal(t, "Tennis Holiday", m.Match("Tennis Holiday Portugal"))
	require.Equal(t, "Padel", m.Match("Tennis Holiday, Padel Weekend"))
	require.Equal(t, "Tennis", m.Match("Tennis Camp"))
	require.Equal(t, "", m.Match("Golf"))
	require.Equal(t, "", ingest.NewKeywordMatcher(nil).Match("anything"))
}
