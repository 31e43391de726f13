package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/facturio/backend/internal/application/billing"
	currencyapp "github.com/facturio/backend/internal/application/currency"
	identityapp "github.com/facturio/backend/internal/application/identity"
	inventoryapp "github.com/facturio/backend/internal/application/inventory"
	"github.com/facturio/backend/internal/application/notification"
	numberingapp "github.com/facturio/backend/internal/application/numbering"
	organizationapp "github.com/facturio/backend/internal/application/organization"
	partnerapp "github.com/facturio/backend/internal/application/partner"
	taxapp "github.com/facturio/backend/internal/application/tax"
	"github.com/facturio/backend/internal/domain/currency"
	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/facturio/backend/internal/infrastructure/email"
	"github.com/facturio/backend/internal/infrastructure/event"
	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/infrastructure/pdf"
	"github.com/facturio/backend/internal/infrastructure/persistence"
	"github.com/facturio/backend/internal/infrastructure/storage"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/facturio/backend/internal/interfaces/http/handler"
	"github.com/facturio/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Facturio backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Error("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	// Redis is optional; without it the token blacklist falls back to
	// memory and exchange rates are read straight from the database.
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected")
	}

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	stockRepo := persistence.NewGormStockItemRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	deliveryNoteRepo := persistence.NewGormDeliveryNoteRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	stockLinkStore := persistence.NewGormStockLinkStore(db.DB)
	policyRepo := persistence.NewGormPolicyRepository(db.DB)
	taxRepo := persistence.NewGormTaxRepository(db.DB)

	var rateRepo currency.ExchangeRateRepository = persistence.NewGormExchangeRateRepository(db.DB)
	if redisClient != nil {
		rateRepo = cache.NewCachedExchangeRateRepository(rateRepo, redisClient, 10*time.Minute, log)
	}

	// Event bus with the audit subscriber
	eventBus := event.NewInMemoryBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))

	// Authentication
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Double-submit absorption for document-creating POSTs
	var idempotencyStore cache.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, "")
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Notification stack
	var renderer notification.PDFRenderer
	if cfg.PDF.Enabled {
		chromeRenderer, err := pdf.NewChromedpRenderer(cfg.PDF, log)
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer chromeRenderer.Close()
		renderer = chromeRenderer
	} else {
		renderer = pdf.NewStubRenderer()
	}

	var archive notification.ObjectStorage
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3Storage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		archive = s3Storage
	} else {
		archive = storage.NewStubStorage()
	}

	var mailer notification.EmailSender
	if cfg.Email.Enabled {
		resendSender, err := email.NewResendSender(cfg.Email, log)
		if err != nil {
			log.Fatal("Failed to initialize email sender", zap.Error(err))
		}
		mailer = resendSender
	} else {
		mailer = email.NewNoopSender(log)
	}

	notifier := notification.NewService(renderer, archive, mailer, clientRepo, supplierRepo, log)

	// Application services
	resolver := numberingapp.NewResolver(policyRepo, log)
	policyService := numberingapp.NewPolicyService(policyRepo, log)
	organizationService := organizationapp.NewOrganizationService(orgRepo, log)
	authService := identityapp.NewAuthService(userRepo, orgRepo, jwtService, blacklist, log)
	partnerService := partnerapp.NewPartnerService(clientRepo, supplierRepo, log)
	stockService := inventoryapp.NewStockService(stockRepo, log)
	taxService := taxapp.NewTaxService(taxRepo, log)
	currencyService := currencyapp.NewCurrencyService(rateRepo, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, clientRepo, resolver, notifier, eventBus, log)
	quoteService := billingapp.NewQuoteService(quoteRepo, invoiceRepo, clientRepo, resolver, notifier, eventBus, log)
	deliveryNoteService := billingapp.NewDeliveryNoteService(deliveryNoteRepo, clientRepo, stockRepo, resolver, notifier, eventBus, log)
	creditNoteService := billingapp.NewCreditNoteService(creditNoteRepo, invoiceRepo, resolver, notifier, eventBus, log)
	purchaseOrderService := billingapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, stockRepo, stockLinkStore, resolver, notifier, eventBus, log)

	// HTTP surface
	handlers := router.Handlers{
		Health:        handler.NewHealthHandler(db.DB, redisClient, version),
		Auth:          handler.NewAuthHandler(authService),
		Organization:  handler.NewOrganizationHandler(organizationService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Quote:         handler.NewQuoteHandler(quoteService),
		DeliveryNote:  handler.NewDeliveryNoteHandler(deliveryNoteService),
		CreditNote:    handler.NewCreditNoteHandler(creditNoteService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Partner:       handler.NewPartnerHandler(partnerService),
		Stock:         handler.NewStockHandler(stockService),
		Tax:           handler.NewTaxHandler(taxService),
		Currency:      handler.NewCurrencyHandler(currencyService),
		Numbering:     handler.NewNumberingHandler(policyService),
	}

	engine := router.New(router.Options{
		Config:      cfg,
		Logger:      log,
		JWTService:  jwtService,
		Blacklist:   blacklist,
		Idempotency: idempotencyStore,
		ServiceName: cfg.Telemetry.ServiceName,
	}, handlers)

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
