package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/junta-app/junta-engine/internal/clock"
	"github.com/junta-app/junta-engine/internal/config"
	"github.com/junta-app/junta-engine/internal/repository"
	"github.com/junta-app/junta-engine/internal/service"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
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

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := repository.NewStore(db)
	// The sweep runs without a cache; fines levied here become visible
	// to summaries when their cached entries expire.
	fineService := service.NewFineService(store, clock.System(), cfg, nil)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatal("Invalid scheduler timezone", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, fineService, logger)

	c.Start()
	logger.Info("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("Scheduler stopped")
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func setupCronJobs(c *cron.Cron, fines *service.FineService, logger *zap.Logger) {
	// Daily sweep that levies the flat late-payment fine on every
	// overdue installment that does not already carry one.
	_, err := c.AddFunc("0 0 1 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		levied, err := fines.SweepLateFees(ctx)
		if err != nil {
			logger.Error("Late fee sweep failed", zap.Error(err))
			return
		}
		logger.Info("Late fee sweep completed", zap.Int("fines_levied", levied))
	})
	if err != nil {
		logger.Fatal("Error scheduling late fee sweep", zap.Error(err))
	}

	logger.Info("Cron jobs scheduled")
}
