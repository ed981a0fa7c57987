// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"datescout/internal/adapter/provider"
	"datescout/internal/adapter/storage"
	"datescout/internal/config"
	"datescout/internal/domain/event"
	"datescout/internal/logger"
	"datescout/internal/server"
	"datescout/internal/service/analysis"
	"datescout/internal/service/dedup"
	"datescout/internal/service/location"
	"datescout/internal/service/overlap"
	venueService "datescout/internal/service/venue"
)

func main() {
	// Load .env if present; absence is fine in containerized deployments
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "text")
		logger.Fatal("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	eventStore := storage.NewEventStore(db)
	analysisStore := storage.NewAnalysisStore(db)

	// Initialize event-data providers
	providers := []event.Provider{
		provider.NewCityEventsClient(cfg.Providers.CityEventsBaseURL, cfg.Providers.CityEventsAPIKey, cfg.Providers.RequestTimeout),
		provider.NewTicketFeedClient(cfg.Providers.TicketFeedBaseURL, cfg.Providers.TicketFeedAPIKey, cfg.Providers.RequestTimeout),
		provider.NewStoreProvider(eventStore),
	}

	// Initialize analysis collaborators
	normalizer := location.NewNormalizer()
	deduper := dedup.NewDeduplicator(cfg.Analysis.TitleSimilarityThreshold)
	fallbackPredictor := overlap.NewHeuristicPredictor()
	venueIntel := venueService.NewService(venueService.Config{
		DefaultCapacity:         cfg.Venue.DefaultCapacity,
		HighUtilizationFraction: cfg.Venue.HighUtilizationFraction,
	})

	analysisCfg := analysisConfig(cfg)

	// No external overlap model is wired in yet, so the heuristic
	// estimator carries all overlap predictions at fallback weight.
	scorer := analysis.NewScorer(analysisCfg, nil, fallbackPredictor)

	// Initialize the analysis engine
	engine := analysis.NewEngine(
		providers,
		normalizer,
		deduper,
		scorer,
		venueIntel,
		natsConn,
		analysisCfg,
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		engine,
		analysisStore,
		eventStore,
		cfg.Analysis.EventsTopic,
	)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error: %v", err)
	}

	logger.Info("Shutdown complete")
}

// analysisConfig maps the loaded configuration onto the engine's config
func analysisConfig(cfg config.Config) analysis.Config {
	return analysis.Config{
		OffsetDays:                    cfg.Analysis.OffsetDays,
		SweepStride:                   cfg.Analysis.SweepStride,
		TopCompetitors:                cfg.Analysis.TopCompetitors,
		SignificanceVenueWeight:       cfg.Analysis.SignificanceVenueWeight,
		SignificanceImageWeight:       cfg.Analysis.SignificanceImageWeight,
		SignificanceDescriptionWeight: cfg.Analysis.SignificanceDescriptionWeight,
		BaseContribution:              cfg.Analysis.BaseContribution,
		CategoryBonus:                 cfg.Analysis.CategoryBonus,
		VenueBonus:                    cfg.Analysis.VenueBonus,
		ImageBonus:                    cfg.Analysis.ImageBonus,
		DescriptionBonus:              cfg.Analysis.DescriptionBonus,
		TailContribution:              cfg.Analysis.TailContribution,
		LongDescriptionLength:         cfg.Analysis.LongDescriptionLength,
		LargeAttendeeThreshold:        cfg.Analysis.LargeAttendeeThreshold,
		MediumAttendeeThreshold:       cfg.Analysis.MediumAttendeeThreshold,
		LargeAttendeeMultiplier:       cfg.Analysis.LargeAttendeeMultiplier,
		MediumAttendeeMultiplier:      cfg.Analysis.MediumAttendeeMultiplier,
		RiskLowMax:                    cfg.Analysis.RiskLowMax,
		RiskMediumMax:                 cfg.Analysis.RiskMediumMax,
		BackfillThreshold:             cfg.Analysis.BackfillThreshold,
		MaxRecommendations:            cfg.Analysis.MaxRecommendations,
		MaxHighRisk:                   cfg.Analysis.MaxHighRisk,
		MaxReasons:                    cfg.Analysis.MaxReasons,
		OverlapTimeout:                cfg.Overlap.PredictionTimeout,
		OverlapPrimaryWeight:          cfg.Overlap.PrimaryWeight,
		OverlapFallbackWeight:         cfg.Overlap.FallbackWeight,
		HighOverlapThreshold:          cfg.Overlap.HighOverlapThreshold,
		EventsTopic:                   cfg.Analysis.EventsTopic,
		ProgressBatchSize:             cfg.Analysis.ProgressBatchSize,
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
