package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"orderflow/internal/client"
	"orderflow/internal/config"
	"orderflow/internal/repository"
	"orderflow/internal/server"
	"orderflow/internal/service"
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

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db := client.InitDB(cfg.DatabaseURL)
	gatewayClient := client.NewGatewayClient(&cfg.Gateway)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	automationRepo := repository.NewAutomationRepository(db)

	dispatcher := service.NewDispatcher(automationRepo, logger, cfg.Webhook.Timeout)

	checkoutService := service.NewCheckoutService(
		gatewayClient, cfg.Gateway.Name, cfg.BaseURL, cfg.Gateway.ValidateTimeout,
		productRepo,
		orderRepo,
		dispatcher,
		logger,
	)
	manualService := service.NewManualPaymentService(orderRepo, productRepo, dispatcher, logger)
	automationService := service.NewAutomationService(automationRepo, dispatcher)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg, checkoutService, manualService, automationService)

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Error("HTTP server shutdown", zap.Error(err))
	}

	// let webhook deliveries still in flight finish
	dispatcher.Close()
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg.Encoding = "console"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
