package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/config"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/logger"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/dto"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/handler"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the stakeholder handlers mounted under the API base path
type Handlers struct {
	Farmer     *handler.FarmerHandler
	Warehouse  *handler.WarehouseHandler
	Compliance *handler.ComplianceHandler
	Buyer      *handler.BuyerHandler
	Exporter   *handler.ExporterHandler
	Regulator  *handler.RegulatorHandler
	Batch      *handler.BatchHandler
	Health     *handler.HealthHandler
}

// Groups builds one domain group per portal
func Groups(h Handlers) []*DomainGroup {
	farmers := NewDomainGroup("farmers", "/farmers").
		GET("/:farmerId/crop-schedules", h.Farmer.ListSchedules).
		POST("/crop-schedules", h.Farmer.CreateSchedule).
		PUT("/crop-schedules/:id/status", h.Farmer.AdvanceSchedule).
		PUT("/crop-schedules/:id/harvest", h.Farmer.Harvest).
		GET("/:farmerId/crop-listings", h.Farmer.ListListings).
		POST("/crop-listings", h.Farmer.CreateListing).
		GET("/:farmerId/harvest-alerts", h.Farmer.HarvestAlerts).
		POST("/lot-proposals/:batchCode/accept", h.Farmer.AcceptLot).
		POST("/payment-confirmation", h.Farmer.ConfirmPayment)

	warehouse := NewDomainGroup("warehouse", "/warehouse").
		POST("/delivery-registration", h.Warehouse.RegisterDelivery).
		POST("/qr-batch-approval", h.Warehouse.ApproveQRBatch).
		POST("/product-registration", h.Warehouse.RegisterProduct).
		POST("/delivery-authorization", h.Warehouse.AuthorizeDelivery).
		POST("/delivery-initiation", h.Warehouse.InitiateDelivery)

	landInspector := NewDomainGroup("land-inspector", "/land-inspector").
		POST("/compliance-data", h.Compliance.Submit)

	buyer := NewDomainGroup("buyer", "/buyer").
		POST("/marketplace-listing", h.Buyer.CreateMarketplaceListing).
		GET("/:buyerId/warehouse-products", h.Buyer.WarehouseProducts).
		GET("/:buyerId/marketplace-listings", h.Buyer.MarketplaceListings).
		POST("/export-proposals/:batchCode/accept", h.Buyer.AcceptExportProposal)

	exporter := NewDomainGroup("exporter", "/exporter").
		GET("/marketplace-listings", h.Exporter.ActiveListings).
		POST("/receipt-confirmation", h.Exporter.ConfirmReceipt).
		POST("/payment-confirmation", h.Exporter.ConfirmPayment).
		POST("/fee-payment", h.Exporter.PayFees)

	ddgots := NewDomainGroup("ddgots", "/ddgots").
		POST("/port-inspections", h.Regulator.AssignPortInspection).
		POST("/fee-intimation", h.Regulator.IntimateFees).
		POST("/document-release", h.Regulator.ReleaseDocuments).
		POST("/batches/:batchCode/withdraw", h.Regulator.Withdraw).
		GET("/compliance-data", h.Compliance.List).
		GET("/compliance-data/:recordId", h.Compliance.Get).
		POST("/compliance-data/:recordId/review", h.Compliance.Review).
		GET("/reports/traceability.xlsx", h.Regulator.TraceabilityReport)

	portInspector := NewDomainGroup("port-inspector", "/port-inspector").
		POST("/inspection-report", h.Regulator.SubmitInspectionReport)

	batches := NewDomainGroup("batches", "/batches").
		GET("/:batchCode", h.Batch.Trace)

	notifications := NewDomainGroup("notifications", "/notifications").
		GET("", h.Batch.Notifications)

	return []*DomainGroup{farmers, warehouse, landInspector, buyer, exporter, ddgots, portInspector, batches, notifications}
}

// EngineOptions carry the ambient collaborators of the HTTP engine
type EngineOptions struct {
	HTTP           config.HTTPConfig
	Logger         *zap.Logger
	Meter          metric.Meter
	TracingEnabled bool
	ServiceName    string
	// Limiter overrides the limiter built from HTTP when set
	Limiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware chain, the API routes
// under /api, the health probes and the JSON 404.
func NewEngine(opts EngineOptions, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			opts.Logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	cors := middleware.DefaultCORSConfig()
	if len(opts.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	}
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(opts.Logger),
		middleware.TracingWithConfig(middleware.TracingConfig{Enabled: opts.TracingEnabled, ServiceName: opts.ServiceName}),
		middleware.SpanErrorMarker(),
		middleware.TracingAttributeInjector(),
		middleware.HTTPMetrics(opts.Meter),
		logger.GinMiddleware(opts.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
	)

	engine.GET("/health", h.Health.Health)
	engine.GET("/health/ready", h.Health.Ready)

	api := []gin.HandlerFunc{middleware.BodyLimit(opts.HTTP.MaxBodySize)}
	limiter := opts.Limiter
	if limiter == nil && opts.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
	}
	if limiter != nil {
		api = append(api, middleware.RateLimit(limiter))
	}

	r := NewRouter(engine)
	for _, g := range Groups(h) {
		r.Register(g.Use(api...))
	}
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound,
			"no route for "+c.Request.Method+" "+c.Request.URL.Path, middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeBadRequest,
			"method "+c.Request.Method+" not allowed", middleware.GetRequestID(c)))
	})
	return engine
}
