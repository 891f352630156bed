package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-storefront/internal/client"
	"gallery-storefront/internal/config"
	"gallery-storefront/internal/faq"
	"gallery-storefront/internal/logger"
	"gallery-storefront/internal/repository"
	"gallery-storefront/internal/server"
	"gallery-storefront/internal/service"
	"gallery-storefront/internal/session"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment.Name, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitDB(&cfg.Store)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	var kvRepo repository.KVRepository
	switch cfg.Store.KVBackend {
	case "redis":
		rdb, err := client.InitRedisClient(context.Background(), cfg.Store.RedisURL)
		if err != nil {
			log.Fatal("init redis", zap.Error(err))
		}
		defer rdb.Close()
		kvRepo = repository.NewRedisKVRepository(rdb)
	case "db", "":
		kvRepo = repository.NewKVRepository(db)
	default:
		log.Fatal("unsupported kv backend", zap.String("backend", cfg.Store.KVBackend))
	}
	attemptRepo := repository.NewPaymentAttemptRepository(db)

	galleryClient := client.NewGalleryClient(&cfg.GalleryAPI)
	relayClient := client.NewRelayClient(&cfg.WhatsApp, log.Named("relay"))

	sessions := session.NewRegistry(kvRepo, galleryClient, log)

	catalogService := service.NewCatalogService(galleryClient)
	paymentService := service.NewPaymentService(galleryClient, sessions, attemptRepo, &cfg.Mpesa, log)
	authService := service.NewAuthService(sessions)

	srv := server.NewServer(cfg, &server.Services{
		Auth:     authService,
		Catalog:  catalogService,
		Checkout: service.NewCheckoutService(catalogService, sessions, cfg.Checkout.DeliveryFee, log),
		Payment:  paymentService,
		Admin:    service.NewAdminService(galleryClient, sessions, log),
		Chat:     service.NewChatService(faq.Default(), relayClient, galleryClient, cfg.WhatsApp.AdminNumber, log),
		Contact:  service.NewContactService(galleryClient, log),
		Profile:  service.NewProfileService(galleryClient, sessions),
	}, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("Starting HTTP server",
		zap.String("addr", serverAddr),
		zap.String("backend", cfg.GalleryAPI.BaseURL),
		zap.String("kv_backend", cfg.Store.KVBackend),
	)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	paymentService.Close()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("shutdown complete")
}
