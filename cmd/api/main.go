package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dscatalog/internal/cache"
	"dscatalog/internal/config"
	"dscatalog/internal/database"
	"dscatalog/internal/events"
	"dscatalog/internal/handler"
	"dscatalog/internal/repository"
	"dscatalog/internal/router"
	"dscatalog/internal/seed"
	"dscatalog/internal/service"
	"dscatalog/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environment variables take precedence
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting dscatalog server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations
	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)

	// Seed the catalogue on an empty database
	if cfg.Seed.Enabled {
		if err := seedCatalog(ctx, cfg, productRepo, categoryRepo, logger); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	// Initialize product cache
	productCache := cache.NewNopProductCache()
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(cfg.Redis)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, product cache will miss until it recovers")
		}
		productCache = cache.NewRedisProductCache(redisClient, cfg.Redis.ProductTTL, logger)
	} else {
		logger.Info().Msg("product cache disabled")
	}

	// Initialize product event publisher
	publisher := events.NewNopPublisher()
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka, logger)
	} else {
		logger.Info().Msg("product events disabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize services
	productService := service.NewProductService(productRepo, productCache, publisher, logger)
	categoryService := service.NewCategoryService(categoryRepo, productCache, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	webHandler := web.NewHandler(productService, cfg.Web.DefaultLang, logger)

	// Initialize router
	mux := router.New(productHandler, categoryHandler, webHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCatalog loads the configured seed files, from S3 when enabled with the
// local file system as fallback, and inserts them into an empty catalogue.
func seedCatalog(
	ctx context.Context,
	cfg *config.Config,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger zerolog.Logger,
) error {
	fileLoader := seed.NewFileLoader(logger)

	var s3Loader seed.Loader
	if cfg.S3.Enabled {
		loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for seed files (S3 disabled)")
	}

	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
	seeder := seed.NewSeeder(loader, productRepo, categoryRepo, logger)

	seeded, err := seeder.Run(ctx, cfg.Seed.Files)
	if err != nil {
		return err
	}

	logger.Info().Int("products", seeded).Msg("seed step finished")
	return nil
}
