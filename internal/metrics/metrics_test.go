package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending_docs/internal/models"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveEvaluation(t *testing.T) {
	before := value(t, Evaluations.WithLabelValues("metrics_test", "false"))
	checkBefore := value(t, ComplianceChecks.WithLabelValues("Usury Limit", "critical", "false"))

	ObserveEvaluation("metrics_test", []models.ComplianceCheckResult{
		{Name: "Usury Limit", Passed: false, Severity: models.SeverityCritical},
		{Name: "LTV Limit", Passed: true, Severity: models.SeverityInfo},
	})

	assert.Equal(t, before+1, value(t, Evaluations.WithLabelValues("metrics_test", "false")))
	assert.Equal(t, checkBefore+1, value(t, ComplianceChecks.WithLabelValues("Usury Limit", "critical", "false")))
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	h := Middleware("/teapot", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := value(t, httpRequests.WithLabelValues(http.MethodGet, "/teapot", "418"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, before+1, value(t, httpRequests.WithLabelValues(http.MethodGet, "/teapot", "418")))
}
