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

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/profile"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/theme"
	"storefront-service/internal/timers"
	"storefront-service/internal/toast"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	registry := timers.NewRegistry()
	defer registry.Stop()

	// Construction order follows dependency order: theme, toasts, profile,
	// cart, catalog, then checkout on top of cart.
	themeStore := theme.NewStore(redisClient)
	toastHub := toast.NewHub(registry, cfg.Storefront.ToastMaxVisible,
		time.Duration(cfg.Storefront.ToastDurationMS)*time.Millisecond)
	profileService := profile.NewService(db)
	cartManager := cart.NewManager(redisClient, cfg.Storefront.DefaultStockCap)
	catalogService := catalog.NewService(db)

	checkoutFlow := checkout.NewFlow(cartManager, registry, eventPublisher, db,
		time.Duration(cfg.Storefront.CheckoutDelayMS)*time.Millisecond)
	checkoutFlow.OnConfirmed(func(sessionID, orderNumber string) {
		toastHub.ForSession(sessionID).Success("Order " + orderNumber + " placed")
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	archiveConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders, cfg.Kafka.ConsumerGroup)
	archiveWorker := worker.NewArchiveWorker(archiveConsumer, worker.NewArchiver(db, redisClient))
	go func() {
		if err := archiveWorker.Start(workerCtx); err != nil {
			log.Printf("Archive worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, cartManager, checkoutFlow, toastHub,
		profileService, themeStore, db)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	archiveWorker.Stop()
	registry.Stop()

	log.Println("Server exited")
}
