package main

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"aytoleon_scraper/internal/category"
	"aytoleon_scraper/internal/config"
	"aytoleon_scraper/internal/ingest"
	"aytoleon_scraper/internal/metrics"
	"aytoleon_scraper/internal/publisher"
	"aytoleon_scraper/internal/service"
	"aytoleon_scraper/internal/source/aytoleon"
	"aytoleon_scraper/internal/storage/postgres"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sqlx.DB
	rabbitMQ *publisher.RabbitMQ
	metrics  *metrics.Metrics
	pipeline *service.Pipeline
}

func newApp(configPath string) (*app, error) {
	logger := setupLogger("info")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	logger.Info("connected to database")

	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		a.rabbitMQ, err = publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		pub = a.rabbitMQ
	}

	fetcher := aytoleon.NewHTTPFetcher(aytoleon.FetcherConfig{
		Timeout:   cfg.Source.Timeout,
		UserAgent: cfg.Source.UserAgent,
		RateLimit: cfg.Source.RateLimit,
		Burst:     cfg.Source.Burst,
	})

	source, err := aytoleon.New(aytoleon.Config{
		BaseURL: cfg.Source.BaseURL,
		Paths:   cfg.Source.Paths,
	}, fetcher, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create source: %w", err)
	}

	store := postgres.NewStore(db)

	a.pipeline = service.NewPipeline(
		source,
		ingest.NewEngine(store, a.metrics, logger),
		store,
		postgres.NewSyncStateStore(db),
		category.New(category.DefaultRules),
		pub,
		a.metrics,
		logger,
		cfg.Sync,
	)

	return a, nil
}

func (a *app) Close() {
	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}
