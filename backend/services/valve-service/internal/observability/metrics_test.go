package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := NewMetricsForTesting()
	m.RowsRead.Add(3)
	m.RowsDropped.WithLabelValues("duplicate").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "valve_import_rows_read_total 3")
	assert.Contains(t, body, `valve_import_rows_dropped_total{reason="duplicate"} 1`)
	assert.NotContains(t, body, "go_goroutines")
}

func TestMetrics_Push(t *testing.T) {
	var (
		method, path string
		body         []byte
	)
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	m := NewMetricsForTesting()
	m.RecordsImported.Add(1500)

	require.NoError(t, m.Push(context.Background(), gw.URL, "host-1"))
	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/valve_import"), path)
	assert.Contains(t, path, "/instance/host-1")
	assert.NotEmpty(t, body)
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.RecordsImported))
}

func TestMetrics_PushBlankURLIsNoop(t *testing.T) {
	assert.NoError(t, NewMetricsForTesting().Push(context.Background(), "  ", "host-1"))
}
