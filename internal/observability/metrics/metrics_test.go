package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, Config{ServiceName: "hotelbill", Environment: "test"})

	m.IncInvoiceOperation(OperationCreate)
	m.IncInvoiceOperation(OperationCreate)
	m.IncInvoiceOperation(OperationDelete)
	m.IncPersistFallback("invoices", "corrupt")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoiceOps.WithLabelValues(OperationCreate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoiceOps.WithLabelValues(OperationDelete)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFallbacks.WithLabelValues("invoices", "corrupt")))
}

func TestConstLabelsAttached(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, Config{ServiceName: "hotelbill", Environment: "test"})
	m.IncLogin(false)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "hotelbill_auth_logins_total" {
			found = family
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.GetMetric(), 1)

	labels := map[string]string{}
	for _, pair := range found.GetMetric()[0].GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	assert.Equal(t, "hotelbill", labels["service"])
	assert.Equal(t, "test", labels["env"])
	assert.Equal(t, "failure", labels["result"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncInvoiceOperation(OperationUpdate)
		m.IncPersistFailure("invoices")
		m.IncAuthorizationDenied("invoice", "invoice.delete")
	})
}

func TestGinMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg, Config{})

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/invoices/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices/7", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/invoices/:id", "204")))
}
