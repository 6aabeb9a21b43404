package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/api"
	"github.com/jonesrussell/llmsgen/internal/config"
	"github.com/jonesrussell/llmsgen/internal/discovery"
	"github.com/jonesrussell/llmsgen/internal/enrich"
	"github.com/jonesrussell/llmsgen/internal/handler"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/payment"
	"github.com/jonesrussell/llmsgen/internal/storage"
	"github.com/jonesrussell/llmsgen/internal/sweeper"

	_ "github.com/lib/pq"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	store := storage.NewRunStore(db, log)

	var crawler discovery.Crawler
	if cfg.Crawl.APIKey != "" {
		crawler = discovery.NewFirecrawlClient(cfg.Crawl)
	}
	discoveryService := discovery.NewService(crawler, cfg.Crawl.UseStub, log)

	var chat enrich.ChatClient
	if client := enrich.NewOpenAIClient(cfg.LLM); client != nil {
		chat = client
	}
	enrichService := enrich.NewService(chat, cfg.LLM.Timeout, log)

	checkoutClient := payment.NewCheckoutClient(cfg.Payment)
	verifier := payment.NewWebhookVerifier(cfg.Payment.WebhookSecret)

	handlers := api.Handlers{
		Generate: handler.NewGenerateHandler(discoveryService, enrichService, store, cfg.Payment, log),
		Checkout: handler.NewCheckoutHandler(store, checkoutClient, cfg.Payment, cfg.Service.PublicURL, log),
		Run:      handler.NewRunHandler(store, log),
		Webhook:  handler.NewWebhookHandler(verifier, store, cfg.Payment.WebhookSecret != "", log),
		Cleanup:  handler.NewCleanupHandler(store, cfg.Service.CleanupToken, log),
		Health:   handler.NewHealthHandler(cfg.Service.Version),
	}

	sweep, err := sweeper.New(store, cfg.Service.SweepSchedule, log)
	if err != nil {
		log.Error("Failed to create expiry sweeper", logger.Error(err))
		return 1
	}
	sweep.Start()
	defer sweep.Stop()

	server := api.NewServer(cfg, log, func(router *gin.Engine) {
		api.SetupRoutes(router, handlers)
	})

	log.Info("llms.txt generator starting",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("stub_crawl", cfg.Crawl.UseStub || cfg.Crawl.APIKey == ""),
		logger.Bool("enrichment", cfg.LLM.APIKey != ""),
		logger.Bool("payments", cfg.Payment.Configured()),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("llms.txt generator exited cleanly")
	return 0
}
