package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookingapp "github.com/freightops/backend/internal/application/booking"
	documentapp "github.com/freightops/backend/internal/application/document"
	invoicingapp "github.com/freightops/backend/internal/application/invoicing"
	"github.com/freightops/backend/internal/domain/document"
	"github.com/freightops/backend/internal/infrastructure/accounting"
	"github.com/freightops/backend/internal/infrastructure/config"
	"github.com/freightops/backend/internal/infrastructure/docstore"
	"github.com/freightops/backend/internal/infrastructure/event"
	"github.com/freightops/backend/internal/infrastructure/logger"
	"github.com/freightops/backend/internal/infrastructure/persistence"
	"github.com/freightops/backend/internal/interfaces/http/handler"
	"github.com/freightops/backend/internal/interfaces/http/middleware"
	"github.com/freightops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FreightOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Shared services, constructed once and passed explicitly
	bus := event.NewInMemoryEventBus(log.Named("eventbus"))
	store := docstore.New()

	bookingRepo := persistence.NewMemoryBookingRepository()
	if err := persistence.Seed(context.Background(), bookingRepo); err != nil {
		log.Fatal("Failed to seed bookings", zap.Error(err))
	}

	connStore, err := buildConnectionStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize connection store", zap.Error(err))
	}

	gateway := accounting.NewGateway(accounting.Config{
		FailureRate:       cfg.Accounting.FailureRate,
		MinLatency:        cfg.Accounting.MinLatency,
		MaxLatency:        cfg.Accounting.MaxLatency,
		ConnectLatency:    cfg.Accounting.ConnectLatency,
		DisconnectLatency: cfg.Accounting.DisconnectLatency,
	}, connStore, log.Named("accounting"))

	matcher := document.NewMatcher(document.MatcherConfig{
		HighMin: cfg.Matcher.HighMin,
		HighMax: cfg.Matcher.HighMax,
		LowMin:  cfg.Matcher.LowMin,
		LowMax:  cfg.Matcher.LowMax,
	})

	bookingService := bookingapp.NewService(bookingRepo, bus, log.Named("booking"))
	documentService := documentapp.NewService(matcher, store, bus, log.Named("document"), cfg.Matcher.OCRDelay)
	batchService := invoicingapp.NewBatchService(gateway, bus, log.Named("invoicing"), cfg.Accounting.ItemTimeout)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewBookingHandler(bookingService, persistence.SeedDrivers()))
	r.Register(handler.NewDocumentHandler(documentService))
	r.Register(handler.NewInvoicingHandler(batchService))
	r.Register(handler.NewAccountingHandler(gateway))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// buildConnectionStore picks Redis when configured, falling back to the
// in-process store for local development
func buildConnectionStore(cfg *config.Config, log *zap.Logger) (accounting.ConnectionStore, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, accounting connection flag held in memory")
		return accounting.NewInMemoryConnectionStore(), nil
	}
	return accounting.NewRedisConnectionStore(accounting.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
