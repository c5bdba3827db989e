package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	authrepository "github.com/smallbiznis/hotelbill/internal/auth/repository"
	authservice "github.com/smallbiznis/hotelbill/internal/auth/service"
	"github.com/smallbiznis/hotelbill/internal/auth/session"
	"github.com/smallbiznis/hotelbill/internal/authorization"
	catalogrepository "github.com/smallbiznis/hotelbill/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/hotelbill/internal/catalog/service"
	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/config"
	"github.com/smallbiznis/hotelbill/internal/invoice/render"
	invoicerepository "github.com/smallbiznis/hotelbill/internal/invoice/repository"
	invoiceservice "github.com/smallbiznis/hotelbill/internal/invoice/service"
	"github.com/smallbiznis/hotelbill/internal/kvstore"
	"github.com/smallbiznis/hotelbill/internal/observability/metrics"
	orgrepository "github.com/smallbiznis/hotelbill/internal/organization/repository"
	orgservice "github.com/smallbiznis/hotelbill/internal/organization/service"
	"github.com/smallbiznis/hotelbill/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	store := kvstore.NewMemoryStore()
	fc := clock.NewFakeClock(testNow)
	cfg := config.Config{Environment: "test", CORSOrigins: []string{"http://localhost:5173"}}
	m := metrics.New(prometheus.NewRegistry(), metrics.Config{ServiceName: "hotelbill"})

	catalog, err := catalogservice.New(catalogservice.Params{
		Log:   log,
		Repo:  catalogrepository.New(store),
		Clock: fc,
	})
	require.NoError(t, err)

	invoices, err := invoiceservice.NewService(invoiceservice.ServiceParam{
		Log:     log,
		Config:  cfg,
		Clock:   fc,
		Repo:    invoicerepository.New(store),
		Catalog: catalog,
		Metrics: m,
	})
	require.NoError(t, err)

	holder, err := config.NewOrganizationConfigHolder(config.Config{OrganizationConfigDir: t.TempDir()}, log)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := authorization.NewEnforcer(authorization.EnforcerParams{Log: log})
	require.NoError(t, err)

	return NewServer(ServerParams{
		Gin: NewEngine(EngineParams{Cfg: cfg, Log: log, Metrics: m}),
		Cfg: cfg,
		Log: log,
		Authsvc: authservice.New(authservice.ServiceParam{
			Log:         log,
			Clock:       fc,
			GenID:       node,
			SessionRepo: authrepository.NewSessionRepository(store),
			Catalog:     catalog,
			Metrics:     m,
		}),
		Sessions:     session.NewManager(cfg),
		LoginLimiter: ratelimit.NewLoginLimiter(log, ratelimit.NewMemoryBucket(fc), 5, 4),
		AuthzSvc:     authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer, Metrics: m}),
		CatalogSvc:   catalog,
		InvoiceSvc:   invoices,
		OrganizationSvc: orgservice.NewService(orgservice.ServiceParam{
			Log:      log,
			Clock:    fc,
			Repo:     orgrepository.NewRepository(store),
			Defaults: holder,
		}),
		OrgConfig:    holder,
		HTMLRenderer: render.NewHTMLRenderer(),
		PDFRenderer:  render.NewPDFRenderer(),
	})
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, srv *Server, userID, password string) string {
	t.Helper()

	w := doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": userID, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Type)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": "OWNER001", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, w).Message)

	w = doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginIsThrottled(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 4; i++ {
		w := doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": "OWNER001", "password": "guess"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": "OWNER001", "password": "owner123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "12", w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, w).Type)

	// other accounts keep their own budget
	w = doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": "STAFF001", "password": "staff123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginSetsCookieAndMe(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/auth/login", "", gin.H{"user_id": "staff001", "password": "staff123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), session.DefaultCookieName+"=")

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: resp.Token})
	me := httptest.NewRecorder()
	srv.Engine().ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)

	var view struct {
		UserID      string `json:"user_id"`
		ExternalID  string `json:"external_id"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
		EmployeeID  *int64 `json:"employee_id"`
	}
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &view))
	assert.Equal(t, "STAFF001", view.UserID)
	assert.Equal(t, "Priya Sharma", view.DisplayName)
	assert.Equal(t, "staff", view.Role)
	assert.NotEmpty(t, view.ExternalID)
	require.NotNil(t, view.EmployeeID)
	assert.Equal(t, int64(2), *view.EmployeeID)
}

func TestLogoutRevokesSession(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "OWNER001", "owner123")

	w := doRequest(t, srv, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	srv := newTestServer(t)
	owner := login(t, srv, "OWNER001", "owner123")
	staff := login(t, srv, "STAFF001", "staff123")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"staff dashboard", http.MethodGet, "/api/dashboard", staff, nil, http.StatusForbidden},
		{"owner dashboard", http.MethodGet, "/api/dashboard", owner, nil, http.StatusOK},
		{"staff list invoices", http.MethodGet, "/api/invoices", staff, nil, http.StatusOK},
		{"staff delete invoice", http.MethodDelete, "/api/invoices/1", staff, nil, http.StatusForbidden},
		{"staff status change", http.MethodPatch, "/api/invoices/1/status", staff, gin.H{"status": "paid"}, http.StatusForbidden},
		{"staff create product", http.MethodPost, "/api/products", staff, gin.H{"name": "Lassi"}, http.StatusForbidden},
		{"staff view products", http.MethodGet, "/api/products", staff, nil, http.StatusOK},
		{"staff view organization", http.MethodGet, "/api/organization", staff, nil, http.StatusOK},
		{"staff update organization", http.MethodPut, "/api/organization", staff, gin.H{"name": "X"}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, srv, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestDashboardStats(t *testing.T) {
	srv := newTestServer(t)
	owner := login(t, srv, "OWNER001", "owner123")

	w := doRequest(t, srv, http.MethodGet, "/api/dashboard", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalRevenue  string `json:"total_revenue"`
		TotalBills    int    `json:"total_bills"`
		TotalProducts int    `json:"total_products"`
	}
	decodeData(t, w, &stats)
	assert.Equal(t, "1197", stats.TotalRevenue)
	assert.Equal(t, 3, stats.TotalBills)
	assert.Equal(t, 8, stats.TotalProducts)
}

func TestCreateInvoiceAsStaff(t *testing.T) {
	srv := newTestServer(t)
	staff := login(t, srv, "STAFF001", "staff123")

	w := doRequest(t, srv, http.MethodPost, "/api/invoices", staff, gin.H{
		"table_number": "T7",
		"items": []gin.H{
			{"product_id": 2, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var details struct {
		Invoice struct {
			ID            int64   `json:"id"`
			InvoiceNumber string  `json:"invoice_number"`
			Status        string  `json:"status"`
			OrderType     string  `json:"order_type"`
			TotalAmount   string  `json:"total_amount"`
			EmployeeID    *int64  `json:"employee_id"`
			CreatedBy     *string `json:"created_by"`
		} `json:"invoice"`
		Items        []json.RawMessage `json:"items"`
		EmployeeName string            `json:"employee_name"`
	}
	decodeData(t, w, &details)
	assert.Equal(t, int64(4), details.Invoice.ID)
	assert.Equal(t, "INV-20250301-36000001", details.Invoice.InvoiceNumber)
	assert.Equal(t, "draft", details.Invoice.Status)
	assert.Equal(t, "dine-in", details.Invoice.OrderType)
	assert.Equal(t, "525", details.Invoice.TotalAmount)
	require.NotNil(t, details.Invoice.EmployeeID)
	assert.Equal(t, int64(2), *details.Invoice.EmployeeID)
	require.NotNil(t, details.Invoice.CreatedBy)
	assert.Equal(t, "STAFF001", *details.Invoice.CreatedBy)
	assert.Len(t, details.Items, 1)
	assert.Equal(t, "Priya Sharma", details.EmployeeName)
}

func TestCreateInvoiceReportsLineErrors(t *testing.T) {
	srv := newTestServer(t)
	staff := login(t, srv, "STAFF001", "staff123")

	w := doRequest(t, srv, http.MethodPost, "/api/invoices", staff, gin.H{
		"items": []gin.H{
			{"product_id": 1, "quantity": 1},
			{"product_id": 2, "quantity": 0},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "items[1].quantity", payload.Errors[0].Field)
	assert.Equal(t, "invalid_quantity", payload.Errors[0].Code)

	w = doRequest(t, srv, http.MethodPost, "/api/invoices", staff, gin.H{
		"items": []gin.H{{"product_id": 99, "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_product", decodeError(t, w).Errors[0].Code)

	w = doRequest(t, srv, http.MethodPost, "/api/invoices", staff, gin.H{
		"order_type": "drive-thru",
		"items":      []gin.H{{"product_id": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_order_type", decodeError(t, w).Errors[0].Code)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices", staff, nil)
	var invoices []json.RawMessage
	decodeData(t, w, &invoices)
	assert.Len(t, invoices, 3)
}

func TestQuoteDoesNotCommit(t *testing.T) {
	srv := newTestServer(t)
	staff := login(t, srv, "STAFF001", "staff123")

	w := doRequest(t, srv, http.MethodPost, "/api/invoices/quote", staff, gin.H{
		"items": []gin.H{
			{"product_id": 2, "quantity": 2},
			{"product_id": 404, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var quote struct {
		Lines []struct {
			Resolved bool `json:"resolved"`
		} `json:"lines"`
		Totals struct {
			Total string `json:"total"`
		} `json:"totals"`
	}
	decodeData(t, w, &quote)
	require.Len(t, quote.Lines, 2)
	assert.True(t, quote.Lines[0].Resolved)
	assert.False(t, quote.Lines[1].Resolved)
	assert.Equal(t, "525", quote.Totals.Total)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices/4", staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListInvoiceFilters(t *testing.T) {
	srv := newTestServer(t)
	staff := login(t, srv, "STAFF001", "staff123")

	w := doRequest(t, srv, http.MethodGet, "/api/invoices?status=paid", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var invoices []struct {
		ID int64 `json:"id"`
	}
	decodeData(t, w, &invoices)
	assert.Len(t, invoices, 2)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices", staff, nil)
	decodeData(t, w, &invoices)
	require.Len(t, invoices, 3)
	assert.Equal(t, int64(3), invoices[0].ID)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices?status=bogus", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices?date=01-01-2024", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices?min_total=abc", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerInvoiceLifecycle(t *testing.T) {
	srv := newTestServer(t)
	owner := login(t, srv, "OWNER001", "owner123")

	w := doRequest(t, srv, http.MethodPatch, "/api/invoices/3/status", owner, gin.H{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var inv struct {
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
	}
	decodeData(t, w, &inv)
	assert.Equal(t, "paid", inv.Status)
	assert.Equal(t, "677.6", inv.TotalAmount)

	w = doRequest(t, srv, http.MethodPatch, "/api/invoices/3/status", owner, gin.H{"status": "eaten"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodPut, "/api/invoices/3", owner, gin.H{
		"status":     "served",
		"order_type": "takeaway",
		"items":      []gin.H{{"product_id": 4, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var details struct {
		Invoice struct {
			TotalAmount string `json:"total_amount"`
			OrderType   string `json:"order_type"`
		} `json:"invoice"`
		Items []json.RawMessage `json:"items"`
	}
	decodeData(t, w, &details)
	assert.Equal(t, "56", details.Invoice.TotalAmount)
	assert.Equal(t, "takeaway", details.Invoice.OrderType)
	assert.Len(t, details.Items, 1)

	w = doRequest(t, srv, http.MethodPut, "/api/invoices/99", owner, gin.H{
		"items": []gin.H{{"product_id": 4, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, srv, http.MethodDelete, "/api/invoices/3", owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices/3", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, srv, http.MethodDelete, "/api/invoices/3", owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReceiptFormats(t *testing.T) {
	srv := newTestServer(t)
	staff := login(t, srv, "STAFF001", "staff123")

	w := doRequest(t, srv, http.MethodGet, "/api/invoices/1/receipt", staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "INV-2024-001")
	assert.Contains(t, w.Body.String(), "Grand Hotel &amp; Restaurant")

	w = doRequest(t, srv, http.MethodGet, "/api/invoices/1/receipt?format=pdf", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-2024-001.pdf")

	w = doRequest(t, srv, http.MethodGet, "/api/invoices/1/receipt?format=docx", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/invoices/42/receipt", staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductManagement(t *testing.T) {
	srv := newTestServer(t)
	owner := login(t, srv, "OWNER001", "owner123")

	w := doRequest(t, srv, http.MethodPost, "/api/products", owner, gin.H{
		"name":               "Paneer Tikka",
		"category_id":        1,
		"tax_slab_id":        2,
		"current_unit_price": "260",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		ID  int64  `json:"id"`
		SKU string `json:"sku"`
	}
	decodeData(t, w, &product)
	assert.Equal(t, int64(9), product.ID)
	assert.Equal(t, "paneer-tikka", product.SKU)

	w = doRequest(t, srv, http.MethodPost, "/api/products", owner, gin.H{
		"name":               "Paneer Tikka Again",
		"sku":                "PANEER-TIKKA",
		"category_id":        1,
		"tax_slab_id":        2,
		"current_unit_price": "260",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, srv, http.MethodPost, "/api/products", owner, gin.H{
		"name":               "Ghost",
		"category_id":        1,
		"tax_slab_id":        9,
		"current_unit_price": "10",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_tax_slab", decodeError(t, w).Errors[0].Code)

	w = doRequest(t, srv, http.MethodPut, "/api/products/9", owner, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/products?active=true", owner, nil)
	var products []json.RawMessage
	decodeData(t, w, &products)
	assert.Len(t, products, 8)

	w = doRequest(t, srv, http.MethodDelete, "/api/products/9", owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/products/9", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReferenceLists(t *testing.T) {
	srv := newTestServer(t)
	staff := login(t, srv, "STAFF002", "staff123")

	for _, path := range []string{"/api/tax-slabs", "/api/categories", "/api/employees"} {
		w := doRequest(t, srv, http.MethodGet, path, staff, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		var rows []json.RawMessage
		decodeData(t, w, &rows)
		assert.NotEmpty(t, rows, path)
	}
}

func TestOrganizationProfile(t *testing.T) {
	srv := newTestServer(t)
	owner := login(t, srv, "OWNER001", "owner123")

	w := doRequest(t, srv, http.MethodGet, "/api/organization", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	decodeData(t, w, &profile)
	assert.Equal(t, "Grand Hotel & Restaurant", profile.Name)

	w = doRequest(t, srv, http.MethodPut, "/api/organization", owner, gin.H{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email", decodeError(t, w).Errors[0].Code)

	w = doRequest(t, srv, http.MethodPut, "/api/organization", owner, gin.H{"phone": "+91-80-99999999"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &profile)
	assert.Equal(t, "+91-80-99999999", profile.Phone)
	assert.Equal(t, "Grand Hotel & Restaurant", profile.Name)
}

func TestMapErrorDefaultsToInternal(t *testing.T) {
	status, payload := mapError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", payload.Type)
	assert.Equal(t, "internal_error", classifyErrorForLog(assert.AnError))
}
