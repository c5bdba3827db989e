package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/smallbiznis/hotelbill/internal/auth/domain"
	"github.com/smallbiznis/hotelbill/internal/auth/session"
	"github.com/smallbiznis/hotelbill/internal/authorization"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	"github.com/smallbiznis/hotelbill/internal/config"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	"github.com/smallbiznis/hotelbill/internal/invoice/render"
	obslogger "github.com/smallbiznis/hotelbill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/hotelbill/internal/observability/metrics"
	"github.com/smallbiznis/hotelbill/internal/observability/tracing"
	organizationdomain "github.com/smallbiznis/hotelbill/internal/organization/domain"
	"github.com/smallbiznis/hotelbill/internal/ratelimit"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics      `optional:"true"`
	Tracer  *sdktrace.TracerProvider `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(p.Cfg)))
	r.Use(obslogger.GinMiddleware(p.Log.Named("http"), obslogger.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	var tp trace.TracerProvider
	if p.Tracer != nil {
		tp = p.Tracer
	}
	r.Use(tracing.GinMiddleware(tp))
	r.Use(obsmetrics.GinMiddleware(p.Metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "Origin", obslogger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", obslogger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, srv *Server) {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	authsvc         authdomain.Service
	sessions        *session.Manager
	loginLimiter    *ratelimit.LoginLimiter
	authzSvc        authorization.Service
	catalogSvc      catalogdomain.Service
	invoiceSvc      invoicedomain.Service
	organizationSvc organizationdomain.Service
	orgConfig       *config.OrganizationConfigHolder
	htmlRenderer    render.Renderer
	pdfRenderer     render.Renderer
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	LoginLimiter    *ratelimit.LoginLimiter `optional:"true"`
	AuthzSvc        authorization.Service
	CatalogSvc      catalogdomain.Service
	InvoiceSvc      invoicedomain.Service
	OrganizationSvc organizationdomain.Service
	OrgConfig       *config.OrganizationConfigHolder
	HTMLRenderer    *render.HTMLRenderer
	PDFRenderer     *render.PDFRenderer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.handler"),
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		loginLimiter:    p.LoginLimiter,
		authzSvc:        p.AuthzSvc,
		catalogSvc:      p.CatalogSvc,
		invoiceSvc:      p.InvoiceSvc,
		organizationSvc: p.OrganizationSvc,
		orgConfig:       p.OrgConfig,
		htmlRenderer:    p.HTMLRenderer,
		pdfRenderer:     p.PDFRenderer,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Dashboard --------
	api.GET("/dashboard", s.authorize(authorization.ObjectDashboard, authorization.ActionDashboardView), s.GetDashboard)

	// -------- Catalog --------
	api.GET("/products", s.authorize(authorization.ObjectProduct, authorization.ActionProductView), s.ListProducts)
	api.POST("/products", s.authorize(authorization.ObjectProduct, authorization.ActionProductCreate), s.CreateProduct)
	api.GET("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionProductView), s.GetProductByID)
	api.PUT("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionProductUpdate), s.UpdateProduct)
	api.DELETE("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionProductDelete), s.DeleteProduct)
	api.GET("/tax-slabs", s.authorize(authorization.ObjectProduct, authorization.ActionProductView), s.ListTaxSlabs)
	api.GET("/categories", s.authorize(authorization.ObjectProduct, authorization.ActionProductView), s.ListCategories)
	api.GET("/employees", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.ListEmployees)

	// -------- Invoices --------
	api.GET("/invoices", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.ListInvoices)
	api.POST("/invoices", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceCreate), s.CreateInvoice)
	api.POST("/invoices/quote", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceCreate), s.QuoteInvoice)
	api.GET("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.GetInvoiceByID)
	api.PUT("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceUpdate), s.ReplaceInvoice)
	api.PATCH("/invoices/:id/status", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceUpdate), s.UpdateInvoiceStatus)
	api.DELETE("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceDelete), s.DeleteInvoice)
	api.GET("/invoices/:id/receipt", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.RenderReceipt)

	// -------- Organization --------
	api.GET("/organization", s.authorize(authorization.ObjectOrganization, authorization.ActionOrganizationView), s.GetOrganization)
	api.PUT("/organization", s.authorize(authorization.ObjectOrganization, authorization.ActionOrganizationUpdate), s.UpdateOrganization)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
