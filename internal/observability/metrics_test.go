package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/station-report/internal/application/port"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ReportGenerated("equipment", 0)
	m.ReportGenerated("equipment", 3)
	m.ReportGenerated("inspection", 9)
	m.ReportCopied("equipment", port.CopyOutcomeSuccess)
	m.ReportCopied("equipment", port.CopyOutcomeDenied)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("equipment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("inspection")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Copies.WithLabelValues("equipment", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Copies.WithLabelValues("equipment", "denied")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.MissingFields))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Each instance owns its registry, so building two must not panic
	a := NewMetrics()
	b := NewMetrics()

	a.ReportGenerated("emergency", 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ReportsGenerated.WithLabelValues("emergency")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ReportCopied("inspection", port.CopyOutcomeEmpty)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `station_report_report_copies_total{kind="inspection",outcome="empty"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
