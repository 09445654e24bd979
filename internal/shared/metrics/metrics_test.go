package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "supplyperf")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/suppliers/{id}/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"SUP-001", "SUP-002"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/"+id+"/stats", nil))
	}

	count := testutil.ToFloat64(m.requests.WithLabelValues("supplyperf", http.MethodGet, "/api/v1/suppliers/{id}/stats", "404"))
	assert.Equal(t, 2.0, count)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statusCategory.WithLabelValues("supplyperf", "4xx", http.MethodGet, "/api/v1/suppliers/{id}/stats")))
}

func TestDomainMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDomainMetrics(reg, "supplyperf")

	m.RecordReload("loaded")
	m.RecordReload("failed")
	m.RecordReload("failed")
	m.SetDatasetSize(120, 3)
	m.RecordPrediction("lead_time", "ok", 2*time.Millisecond)
	m.RecordFeatureDefault("is_late", "Order_Quarter")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reloads.WithLabelValues("failed")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.datasetRecords))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.excludedReceipts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("lead_time", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.featureDefaults.WithLabelValues("is_late", "Order_Quarter")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDomainMetrics(reg, "supplyperf")
	m.SetDatasetSize(5, 0)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "supplyperf_dataset_records 5"))
}
