package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/config"
	"github.com/arriendo-app/api/internal/database"
	"github.com/arriendo-app/api/internal/handlers"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/arriendo-app/api/internal/services"
	"github.com/arriendo-app/api/internal/storage"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Arriendo API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	blobs := storage.NewClient(cfg.Storage)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository layer
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	contractRepo := repository.NewContractRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize service layer
	authService := services.NewAuthService(userRepo, tokens, log)
	propertyService := services.NewPropertyService(propertyRepo, log)
	contractService := services.NewContractService(contractRepo, propertyRepo, documentRepo, userRepo, log)
	paymentService := services.NewPaymentService(paymentRepo, contractRepo, log)
	documentService := services.NewDocumentService(documentRepo, contractRepo, blobs, log)
	ticketService := services.NewTicketService(ticketRepo, propertyRepo, contractRepo, log)
	dashboardService := services.NewDashboardService(statsRepo, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	contractHandler := handlers.NewContractHandler(contractService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/auth/token", authHandler.Token)
		v1.POST("/users", authHandler.Register)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.Auth(tokens))
		{
			properties := authed.Group("/properties", middleware.RequireRole(models.RoleLandlord))
			{
				properties.POST("", propertyHandler.Create)
				properties.GET("", propertyHandler.List)
				properties.GET("/:id", propertyHandler.Get)
			}

			contracts := authed.Group("/contracts")
			{
				contracts.POST("", middleware.RequireRole(models.RoleLandlord), contractHandler.Create)
				contracts.GET("", contractHandler.List)
				contracts.GET("/:id", contractHandler.Get)
				contracts.POST("/:id/sign", contractHandler.Sign)
				contracts.POST("/:id/finalize", contractHandler.Finalize)
				contracts.POST("/:id/terminate", contractHandler.Terminate)
				contracts.POST("/:id/reject", contractHandler.Reject)
			}

			payments := authed.Group("/payments")
			{
				payments.POST("", paymentHandler.Record)
				payments.GET("/my-history", middleware.RequireRole(models.RoleTenant), paymentHandler.MyHistory)
				payments.GET("/contract/:id", paymentHandler.ListByContract)
			}

			documents := authed.Group("/documents")
			{
				documents.POST("/upload", documentHandler.Upload)
				documents.GET("/my-documents", documentHandler.ListMine)
				documents.GET("/user/:id", middleware.RequireRole(models.RoleLandlord), documentHandler.ListForUser)
				documents.PATCH("/:id/status", middleware.RequireRole(models.RoleLandlord), documentHandler.Review)
			}

			tickets := authed.Group("/tickets")
			{
				tickets.POST("", ticketHandler.Create)
				tickets.GET("", ticketHandler.List)
				tickets.PATCH("/:id/status", middleware.RequireRole(models.RoleLandlord), ticketHandler.UpdateStatus)
			}

			dashboard := authed.Group("/dashboard", middleware.RequireRole(models.RoleLandlord))
			{
				dashboard.GET("/stats", dashboardHandler.Stats)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
