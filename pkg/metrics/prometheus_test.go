package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	m := NewCollector(zerolog.Nop())

	m.RecordFetch("accounts", OutcomeOK)
	m.RecordFetch("accounts", OutcomeOK)
	m.RecordFetch("transactions", OutcomeAuth)
	m.RecordTransfer(20*time.Millisecond, OutcomeRejected)
	m.RecordInvalidation()
	m.SetBalance("0987654321001", 50)

	require.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("accounts", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("transactions", OutcomeAuth)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transfers.WithLabelValues(OutcomeRejected)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.invalidations))
	require.Equal(t, 50.0, testutil.ToFloat64(m.accountBalance.WithLabelValues("0987654321001")))

	m.ResetBalances()
	require.Equal(t, 0, testutil.CollectAndCount(m.accountBalance))
}

func TestHandler(t *testing.T) {
	m := NewCollector(zerolog.Nop())
	m.RecordInvalidation()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	m.Handler().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, strings.Contains(recorder.Body.String(), "session_invalidations_total 1"))
}
