package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/broker"
	"storefront/internal/redisclient"
	"storefront/internal/scope"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer(cfg.Observ.TracingEnabled, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx := context.Background()
	var readiness = map[string]api.ReadinessCheck{}

	var products service.ProductSource = service.SeedProducts{}
	if cfg.Database.CatalogURL != "" {
		db, err := store.NewStore(cfg.Database.CatalogURL)
		if err != nil {
			logger.Fatal("Failed to connect to catalog database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Catalog database connected")

		products = db
		readiness["catalog_db"] = db.Ping
	}

	catalog, err := service.LoadCatalog(ctx, products)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	var backend scope.Backend
	switch cfg.Redis.ScopeBackend {
	case "redis":
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))

		backend = scope.NewRedis(redisClient, cfg.Redis.ScopeTTL)
		readiness["redis"] = redisClient.Ping
	case "memory":
		backend = scope.NewMemory()
	default:
		logger.Fatal("Unknown scope backend", zap.String("backend", cfg.Redis.ScopeBackend))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	history := service.NewOrderHistory()
	var publisher service.OrderPublisher = history
	var historyWorker *worker.OrderHistoryWorker

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		publisher = broker.NewEventPublisher(producer)

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		historyWorker = worker.NewOrderHistoryWorker(consumer, history)
		go func() {
			if err := historyWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Order history worker error", zap.Error(err))
			}
		}()
	}

	pricing := service.Pricing{
		ShippingFlatFee: cfg.Business.ShippingFlatFee,
		TaxRate:         cfg.Business.TaxRate,
	}
	delays := service.Delays{
		CheckoutStart: cfg.Business.CheckoutStartDelay,
		Address:       cfg.Business.AddressDelay,
		Payment:       cfg.Business.PaymentDelay,
		Auth:          cfg.Business.AuthDelay,
	}

	sessions := service.NewSessionManager(service.SessionDeps{
		Backend:   backend,
		Pricing:   pricing,
		Delays:    delays,
		Payments:  service.NewPaymentProcessor(delays.Payment),
		Publisher: publisher,
		TTL:       cfg.Auth.SessionTTL,
	})

	reaper := worker.NewSessionReaper(sessions, cfg.Auth.SessionTTL/4)
	go func() {
		if err := reaper.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Session reaper error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalog, sessions, service.NewTokenIssuer(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL), history, pricing)
	for name, check := range readiness {
		handler.AddReadinessCheck(name, check)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	metricsSrv := api.NewMetricsServer(cfg.Observ.PrometheusPort)
	go func() {
		logger.Info("Starting metrics server", zap.String("port", cfg.Observ.PrometheusPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Metrics server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if historyWorker != nil {
		if err := historyWorker.Stop(); err != nil {
			logger.Warn("Error stopping order history worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
