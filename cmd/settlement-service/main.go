package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pashubazaar/settlement-service/internal/app/background"
	"github.com/pashubazaar/settlement-service/internal/client"
	"github.com/pashubazaar/settlement-service/internal/config"
	deliveryhttp "github.com/pashubazaar/settlement-service/internal/delivery/http"
	"github.com/pashubazaar/settlement-service/internal/delivery/http/handlers"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/logger"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/metrics"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/migrate"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/repository"
	"github.com/pashubazaar/settlement-service/internal/usecase/ledger"
	"github.com/pashubazaar/settlement-service/internal/usecase/settlement"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg)
	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.SettlementDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.SettlementDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	sub := publisher.NewDefaultKafkaSubscriber(brokers)

	// Init repos
	auctionRepo := repository.NewDefaultAuctionRepository(db)
	bidRepo := repository.NewDefaultBidRepository(db)
	settlementRepo := repository.NewDefaultSettlementRepository(db)

	// Init payment processor client
	paymentProcessor, err := client.NewHTTPPaymentProcessor(fmt.Sprintf("%s:%s", cfg.PaymentService.Host, cfg.PaymentService.Port))
	if err != nil {
		log.Fatalf("failed to init payment processor client: %v", err)
	}
	// Init bidder directory client
	bidderDirectory, err := client.NewHTTPBidderDirectory(fmt.Sprintf("%s:%s", cfg.UserService.Host, cfg.UserService.Port))
	if err != nil {
		log.Fatalf("failed to init bidder directory client: %v", err)
	}

	settlementMetrics := metrics.NewSettlementMetrics()

	// Init bid ledger usecase
	bidLedger := ledger.NewDefaultBidLedgerUsecase(auctionRepo, bidRepo, bidderDirectory, pub, settlementMetrics)

	// The scheduler calls back into the engine, so wire the callback
	// through a variable assigned after the engine exists.
	var engine *settlement.DefaultSettlementUsecase
	scheduler := settlement.NewTimerScheduler(func(windowID string) {
		if err := engine.ExpireWindow(context.Background(), windowID); err != nil {
			slog.Error("window expiry failed", "window_id", windowID, "error", err.Error())
		}
	})

	engine = settlement.NewDefaultSettlementUsecase(
		settlementRepo,
		auctionRepo,
		bidLedger,
		paymentProcessor,
		bidderDirectory,
		pub,
		settlementMetrics,
		scheduler,
		time.Duration(cfg.Cascade.WindowMinutes)*time.Minute,
		time.Duration(cfg.Cascade.StuckAfterMinutes)*time.Minute,
	)

	// Windows persisted before a restart resume on their stored deadlines
	if err := engine.RescheduleOpenWindows(context.Background()); err != nil {
		log.Fatalf("failed to reschedule open windows: %v", err)
	}

	// Background workers
	tasks := background.NewBackgroundTasks(
		bidLedger,
		engine,
		sub,
		time.Duration(cfg.Cascade.CloseSweepSeconds)*time.Second,
		time.Duration(cfg.Cascade.StuckSweepSeconds)*time.Second,
	)
	tasks.StartAll(context.Background())

	// HTTP server
	eventLogger := logger.NewPGSettlementEventLogger(db)
	bidHandler := handlers.NewBidHandler(bidLedger)
	settlementHandler := handlers.NewSettlementHandler(engine, eventLogger)
	router := deliveryhttp.NewRouter(bidHandler, settlementHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("settlement service listening", "addr", addr)
	if err := stdhttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func setupLogger(cfg *config.SettlementConfig) {
	level := slog.LevelInfo
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
