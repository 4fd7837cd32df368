// Package main provides the API server entry point for the asset dashboard service.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asset-dashboard/internal/api"
	"github.com/asset-dashboard/internal/config"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/market"
	"github.com/asset-dashboard/internal/news"
	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/service"
	"github.com/asset-dashboard/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections
	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Upstream provider clients
	finnhub := provider.NewFinnhubClient(cfg.Providers.FinnhubAPIKey)
	polygon := provider.NewPolygonClient(cfg.Providers.PolygonAPIKey)
	coingecko := provider.NewCoinGeckoClient(cfg.Providers.CoinGeckoAPIKey)

	// Storage and repositories
	snapshotCache := storage.NewSnapshotCache(redis, cfg.Cache.StaleRetention)
	newsRepo := storage.NewNewsRepository(postgres)

	// Services
	aggregator := market.NewAggregator(finnhub, polygon, coingecko, cfg.Market)
	assetService := service.NewAssetService(snapshotCache, aggregator, finnhub, coingecko, polygon, coingecko, cfg.Cache)
	newsService := news.NewService(finnhub, newsRepo, &cfg.News)

	logger.Info("Services initialized")

	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		NewsFetchAPIKey: cfg.News.FetchAPIKey,
	}

	server := api.NewServer(serverConfig, assetService, newsService, newsRepo)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
