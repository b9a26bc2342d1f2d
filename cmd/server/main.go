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

	"github.com/alimgiray/phonebook/internal/handlers"
	"github.com/alimgiray/phonebook/internal/middleware"
	"github.com/alimgiray/phonebook/internal/repositories"
	"github.com/alimgiray/phonebook/internal/services"
	"github.com/alimgiray/phonebook/pkg/config"
	"github.com/alimgiray/phonebook/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level)

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize storage
	selector := repositories.NewSelector(cfg.Database)
	contactRepo, err := selector.Repository()
	if err != nil {
		logger.Fatalf("Failed to initialize %s storage: %v", selector.Adapter(), err)
	}
	defer func() {
		if err := selector.Close(); err != nil {
			logger.WithError(err).Warnf("Failed to close storage")
		}
	}()

	// Initialize dependencies
	contactService := services.NewContactService(contactRepo)
	exportService := services.NewExportService(contactService)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	// Setup routes
	handlers.SetupRoutes(router, contactService, exportService, selector)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.CORS(router, cfg.Server.CORSAllowedOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.WithField("adapter", selector.Adapter()).Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Warnf("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}
