package metrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotelbill"

const (
	OperationCreate       = "create"
	OperationUpdate       = "update"
	OperationUpdateStatus = "update_status"
	OperationDelete       = "delete"
)

// Config carries constant labels for all collectors.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics holds the application counters exported on /metrics.
type Metrics struct {
	invoiceOps       *prometheus.CounterVec
	invoiceRejects   *prometheus.CounterVec
	persistFailures  *prometheus.CounterVec
	persistFallbacks *prometheus.CounterVec
	logins           *prometheus.CounterVec
	authzDenied      *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics bound to the default registerer.
func Default(cfg Config) *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer, cfg)
	})
	return defaultMetrics
}

// New registers a fresh set of collectors on reg.
func New(reg prometheus.Registerer, cfg Config) *Metrics {
	labels := prometheus.Labels{}
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		labels["service"] = name
	}
	if env := strings.TrimSpace(cfg.Environment); env != "" {
		labels["env"] = env
	}

	m := &Metrics{
		invoiceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "invoice_operations_total",
			Help:        "Committed invoice mutations by operation.",
			ConstLabels: labels,
		}, []string{"operation"}),
		invoiceRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "invoice_rejections_total",
			Help:        "Invoice mutations rejected before commit.",
			ConstLabels: labels,
		}, []string{"operation", "reason"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "persistence_write_failures_total",
			Help:        "Failed writes of persisted collections.",
			ConstLabels: labels,
		}, []string{"key"}),
		persistFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "persistence_fixture_fallbacks_total",
			Help:        "Loads that fell back to seeded fixtures.",
			ConstLabels: labels,
		}, []string{"key", "reason"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "auth_logins_total",
			Help:        "Login attempts by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		authzDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "authorization_denied_total",
			Help:        "Denied authorization checks.",
			ConstLabels: labels,
		}, []string{"object", "action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route and status.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.invoiceOps,
			m.invoiceRejects,
			m.persistFailures,
			m.persistFallbacks,
			m.logins,
			m.authzDenied,
			m.httpRequests,
		)
	}
	return m
}

func (m *Metrics) IncInvoiceOperation(operation string) {
	if m == nil {
		return
	}
	m.invoiceOps.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncInvoiceRejected(operation, reason string) {
	if m == nil {
		return
	}
	m.invoiceRejects.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) IncPersistFailure(key string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(key).Inc()
}

func (m *Metrics) IncPersistFallback(key, reason string) {
	if m == nil {
		return
	}
	m.persistFallbacks.WithLabelValues(key, reason).Inc()
}

func (m *Metrics) IncLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncAuthorizationDenied(object, action string) {
	if m == nil {
		return
	}
	m.authzDenied.WithLabelValues(object, action).Inc()
}

// GinMiddleware counts requests per matched route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
