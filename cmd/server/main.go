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
	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/config"
	"github.com/junta-app/junta-engine/internal/handler"
	"github.com/junta-app/junta-engine/internal/repository"
	"github.com/junta-app/junta-engine/internal/service"
	"github.com/junta-app/junta-engine/pkg/response"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments inject environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := initRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer redisClient.Close()

	store := repository.NewStore(db)
	cache := service.NewSummaryCache(redisClient, cfg.GetSummaryCacheTTL())
	clk := clock.System()

	loanService := service.NewLoanService(store, clk, cfg, cache)
	paymentService := service.NewPaymentService(store, clk, cache)
	capitalService := service.NewCapitalService(store, clk, cache)
	shareService := service.NewShareService(store, clk, cfg, cache)
	fineService := service.NewFineService(store, clk, cfg, cache)
	memberService := service.NewMemberService(store, clk)
	summaryService := service.NewSummaryService(store, clk, cache)

	apiHandler := handler.New(
		loanService,
		paymentService,
		capitalService,
		shareService,
		fineService,
		memberService,
		summaryService,
	)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(apiHandler, healthHandler, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), nil
}

func setupRoutes(h *handler.Handler, healthHandler *handler.HealthHandler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.JSONMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/members", h.RegisterMember).Methods("POST")
	api.HandleFunc("/members/{memberId}", h.GetMember).Methods("GET")
	api.HandleFunc("/members/{memberId}/summary", h.GetMemberSummary).Methods("GET")
	api.HandleFunc("/members/{memberId}/shares", h.TransactShares).Methods("POST")
	api.HandleFunc("/members/{memberId}/fines", h.LevyFine).Methods("POST")

	api.HandleFunc("/loans", h.RequestLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}", h.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/status", h.GetLoanStatus).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", h.ApplyPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", h.GetPaymentHistory).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", h.ReversePayment).Methods("DELETE")

	api.HandleFunc("/fines/{fineId}/pay", h.PayFine).Methods("POST")
	api.HandleFunc("/fines/{fineId}/cancel", h.CancelFine).Methods("POST")

	api.HandleFunc("/juntas/{juntaId}/capital", h.GetJuntaCapital).Methods("GET")
	api.HandleFunc("/juntas/{juntaId}/capital/contributions", h.Contribute).Methods("POST")

	return router
}
