package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocycle/recycle-api/internal/metrics"
	"github.com/ecocycle/recycle-api/internal/respond"
	"github.com/ecocycle/recycle-api/internal/workflow"
)

// compile-time checks: Metrics is the recorder for both consumers.
var (
	_ respond.Recorder  = (*metrics.Metrics)(nil)
	_ workflow.Recorder = (*metrics.Metrics)(nil)
)

func TestMetrics_ErrorsCountedByKind(t *testing.T) {
	m := metrics.New()

	m.ObserveError("NotFound", 404)
	m.ObserveError("NotFound", 404)
	m.ObserveError("Unexpected", 500)

	count, err := testutil.GatherAndCount(m.Registry(), "recycle_api_http_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per kind/status pair")
}

func TestMetrics_HandlerExposesWorkflowRuns(t *testing.T) {
	m := metrics.New()
	m.ObserveWorkflow("create-audit", workflow.OutcomePartial, "ReportFlagUpdated", 12*time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/audits", http.StatusInternalServerError, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `recycle_api_workflow_runs_total{outcome="partial",step="ReportFlagUpdated",workflow="create-audit"} 1`)
	assert.Contains(t, string(body), `recycle_api_http_requests_total{method="POST",route="/audits",status="500"} 1`)
}
