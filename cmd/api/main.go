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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pickup-address/app/config"
	"github.com/pickup-address/app/controllers"
	"github.com/pickup-address/app/services"
	"github.com/pickup-address/helpers/utils"
	"github.com/pickup-address/internal/metrics"
	"github.com/pickup-address/routes"
	"go.uber.org/zap"
)

func main() {
	// 1. Load .env (nếu có) và cấu hình
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Cannot read .env: %v", err)
	}
	cfg, err := config.Load(os.Getenv("PICKUP_CONFIG"))
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// 2. Khởi tạo logger
	logger, err := utils.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Pickup Address Parser Service", zap.String("env", cfg.App.Env))

	// 3. Metrics
	metrics.InitMetrics()

	// 4. Parser + juso resolver + cache
	pipeline, err := services.NewPipeline(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Error("Error closing cache", zap.Error(err))
		}
	}()

	// 5. Services + controllers
	adminService := services.NewAdminService(pipeline.AddressService, pipeline.Store, pipeline.Backend, logger)
	addressController := controllers.NewAddressController(pipeline.AddressService, logger)
	adminController := controllers.NewAdminController(adminService, logger)

	// 6. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController)

	// 7. HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
