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

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/debtfree/engine/internal/config"
	"github.com/debtfree/engine/internal/handler"
	"github.com/debtfree/engine/internal/notify"
	"github.com/debtfree/engine/internal/repository"
	"github.com/debtfree/engine/internal/service"
	"github.com/debtfree/engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize service
	debtService := service.NewDebtService(debtRepo, paymentRepo, redisClient, notify.NewLogNotifier(), cfg)
	debtHandler := handler.NewDebtHandler(debtService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(debtHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.LoggingMiddleware(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(debtHandler *handler.DebtHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/debts", debtHandler.CreateDebt).Methods("POST")
	api.HandleFunc("/debts", debtHandler.ListDebts).Methods("GET")
	api.HandleFunc("/payments", debtHandler.ListPayments).Methods("GET")
	api.HandleFunc("/debts/{debtId}", debtHandler.GetDebt).Methods("GET")
	api.HandleFunc("/debts/{debtId}", debtHandler.UpdateDebt).Methods("PUT")
	api.HandleFunc("/debts/{debtId}", debtHandler.DeleteDebt).Methods("DELETE")
	api.HandleFunc("/debts/{debtId}/schedule", debtHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/debts/{debtId}/payments/{paymentId}/complete", debtHandler.CompletePayment).Methods("POST")
	api.HandleFunc("/debts/{debtId}/projection", debtHandler.GetProjection).Methods("GET")
	api.HandleFunc("/debts/{debtId}/breakdown", debtHandler.GetCostBreakdown).Methods("GET")
	api.HandleFunc("/debts/{debtId}/breakdown/monthly", debtHandler.GetMonthlyBreakdown).Methods("GET")
	api.HandleFunc("/debts/{debtId}/progress", debtHandler.GetProgress).Methods("GET")

	return router
}
