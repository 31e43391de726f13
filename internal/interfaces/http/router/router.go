package router

import (
	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/interfaces/http/handler"
	"github.com/facturio/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Organization  *handler.OrganizationHandler
	Invoice       *handler.InvoiceHandler
	Quote         *handler.QuoteHandler
	DeliveryNote  *handler.DeliveryNoteHandler
	CreditNote    *handler.CreditNoteHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Partner       *handler.PartnerHandler
	Stock         *handler.StockHandler
	Tax           *handler.TaxHandler
	Currency      *handler.CurrencyHandler
	Numbering     *handler.NumberingHandler
}

// Options carries the router's cross-cutting dependencies.
type Options struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	Blacklist   auth.TokenBlacklist
	Idempotency cache.IdempotencyStore
	ServiceName string
}

// New builds the gin engine with the full middleware chain and all routes.
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.GinMiddleware(opts.Logger))
	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(middleware.RequestID())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = opts.Config.HTTP.CORSAllowOrigins
	if len(opts.Config.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = opts.Config.HTTP.CORSAllowMethods
	}
	if len(opts.Config.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = opts.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if opts.Config.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.Config.HTTP.MaxBodySize))
	}
	if opts.Config.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(
			opts.Config.HTTP.RateLimitRequests,
			opts.Config.HTTP.RateLimitWindow,
		)
		engine.Use(limiter.Middleware())
	}
	if opts.Config.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	// Signup and login happen before any token exists.
	public := engine.Group("/api/v1")
	public.POST("/auth/login", h.Auth.Login)
	public.POST("/auth/refresh", h.Auth.Refresh)
	public.POST("/organizations", h.Organization.Register)

	api := engine.Group("/api/v1")

	jwtConfig := middleware.DefaultJWTConfig(opts.JWTService)
	jwtConfig.TokenBlacklist = opts.Blacklist
	jwtConfig.Logger = opts.Logger
	api.Use(middleware.JWTAuthWithConfig(jwtConfig))
	api.Use(middleware.OrganizationMiddleware())
	if opts.Idempotency != nil {
		api.Use(middleware.Idempotency(opts.Idempotency, opts.Logger))
	}

	registerAuthRoutes(api, h.Auth)
	registerOrganizationRoutes(api, h.Organization)
	registerBillingRoutes(api, h)
	registerPartnerRoutes(api, h.Partner)
	registerStockRoutes(api, h.Stock)
	registerSettingsRoutes(api, h)

	return engine
}

func registerAuthRoutes(api *gin.RouterGroup, h *handler.AuthHandler) {
	group := api.Group("/auth")
	group.POST("/logout", h.Logout)
	group.POST("/users", h.RegisterUser)
}

func registerOrganizationRoutes(api *gin.RouterGroup, h *handler.OrganizationHandler) {
	group := api.Group("/organizations")
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("/:id/activate", h.Activate)
	group.POST("/:id/suspend", h.Suspend)
	group.POST("/:id/extend-subscription", h.ExtendSubscription)
}

func registerBillingRoutes(api *gin.RouterGroup, h Handlers) {
	invoices := api.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.POST("/mark-overdue", h.Invoice.MarkOverdue)
	invoices.GET("/:id", h.Invoice.Get)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.POST("/:id/items", h.Invoice.AddItem)
	invoices.DELETE("/:id/items/:itemID", h.Invoice.RemoveItem)
	invoices.POST("/:id/send", h.Invoice.Send)
	invoices.POST("/:id/validate", h.Invoice.Validate)
	invoices.POST("/:id/payments", h.Invoice.RecordPayment)

	quotes := api.Group("/quotes")
	quotes.POST("", h.Quote.Create)
	quotes.GET("", h.Quote.List)
	quotes.GET("/:id", h.Quote.Get)
	quotes.DELETE("/:id", h.Quote.Delete)
	quotes.POST("/:id/send", h.Quote.Send)
	quotes.POST("/:id/approve", h.Quote.Approve)
	quotes.POST("/:id/accept", h.Quote.Accept)
	quotes.POST("/:id/reject", h.Quote.Reject)
	quotes.POST("/:id/cancel", h.Quote.Cancel)
	quotes.POST("/:id/convert", h.Quote.Convert)

	deliveryNotes := api.Group("/delivery-notes")
	deliveryNotes.POST("", h.DeliveryNote.Create)
	deliveryNotes.GET("", h.DeliveryNote.List)
	deliveryNotes.GET("/:id", h.DeliveryNote.Get)
	deliveryNotes.DELETE("/:id", h.DeliveryNote.Delete)
	deliveryNotes.POST("/:id/send", h.DeliveryNote.Send)
	deliveryNotes.POST("/:id/deliver", h.DeliveryNote.MarkDelivered)
	deliveryNotes.POST("/:id/sign", h.DeliveryNote.MarkSigned)

	creditNotes := api.Group("/credit-notes")
	creditNotes.POST("", h.CreditNote.Create)
	creditNotes.GET("", h.CreditNote.List)
	creditNotes.GET("/:id", h.CreditNote.Get)
	creditNotes.DELETE("/:id", h.CreditNote.Delete)
	creditNotes.POST("/:id/send", h.CreditNote.Send)
	creditNotes.POST("/:id/apply", h.CreditNote.Apply)
	creditNotes.POST("/:id/cancel", h.CreditNote.Cancel)

	purchaseOrders := api.Group("/purchase-orders")
	purchaseOrders.POST("", h.PurchaseOrder.Create)
	purchaseOrders.GET("", h.PurchaseOrder.List)
	purchaseOrders.GET("/:id", h.PurchaseOrder.Get)
	purchaseOrders.DELETE("/:id", h.PurchaseOrder.Delete)
	purchaseOrders.POST("/:id/submit", h.PurchaseOrder.Submit)
	purchaseOrders.POST("/:id/validate", h.PurchaseOrder.Validate)
	purchaseOrders.POST("/:id/send-email", h.PurchaseOrder.SendEmail)
	purchaseOrders.POST("/:id/receive", h.PurchaseOrder.Receive)
	purchaseOrders.POST("/:id/cancel", h.PurchaseOrder.Cancel)
}

func registerPartnerRoutes(api *gin.RouterGroup, h *handler.PartnerHandler) {
	clients := api.Group("/clients")
	clients.POST("", h.CreateClient)
	clients.GET("", h.ListClients)
	clients.GET("/:id", h.GetClient)
	clients.PUT("/:id", h.UpdateClient)
	clients.POST("/:id/archive", h.ArchiveClient)

	suppliers := api.Group("/suppliers")
	suppliers.POST("", h.CreateSupplier)
	suppliers.GET("", h.ListSuppliers)
	suppliers.GET("/:id", h.GetSupplier)
	suppliers.PUT("/:id", h.UpdateSupplier)
	suppliers.POST("/:id/archive", h.ArchiveSupplier)
}

func registerStockRoutes(api *gin.RouterGroup, h *handler.StockHandler) {
	group := api.Group("/stock-items")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/low", h.ListLowStock)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/receive", h.Receive)
	group.POST("/:id/withdraw", h.Withdraw)
	group.PUT("/:id/min-quantity", h.SetMinQuantity)
}

func registerSettingsRoutes(api *gin.RouterGroup, h Handlers) {
	taxes := api.Group("/taxes")
	taxes.POST("", h.Tax.Create)
	taxes.GET("", h.Tax.List)
	taxes.POST("/compute", h.Tax.Compute)
	taxes.PATCH("/:id/active", h.Tax.SetActive)
	taxes.DELETE("/:id", h.Tax.Delete)

	rates := api.Group("/exchange-rates")
	rates.PUT("", h.Currency.UpsertRate)
	rates.GET("", h.Currency.ListRates)
	rates.POST("/convert", h.Currency.Convert)
	rates.DELETE("/:id", h.Currency.DeleteRate)

	policies := api.Group("/numbering-policies")
	policies.GET("", h.Numbering.List)
	policies.PUT("", h.Numbering.Upsert)
	policies.GET("/:documentType", h.Numbering.Get)
	policies.DELETE("/:id", h.Numbering.Delete)
}
