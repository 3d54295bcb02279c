package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bv-connector/internal/application"
	"bv-connector/internal/infrastructure/admin"
	"bv-connector/internal/infrastructure/metrics"
	"bv-connector/internal/infrastructure/repository"
	"bv-connector/internal/infrastructure/runlock"
	"bv-connector/internal/infrastructure/upload"
	"bv-connector/internal/infrastructure/xmlfeed"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	once := flag.Bool("once", false, "run a single feed generation pass and exit (cron mode)")
	flag.Parse()

	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := getenv("MONGODB_URI", "mongodb://localhost:27017")
	mongoDB := getenv("MONGODB_DATABASE", "storefront")
	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	exportDir := getenv("BV_EXPORT_DIR", "var/export/bvfeeds")
	uploadURL := getenv("BV_UPLOAD_URL", "https://sftp.bazaarvoice.com")
	uploadKey := os.Getenv("BV_UPLOAD_KEY")
	inboxPath := getenv("BV_INBOX_PATH", "/ppe/inbox")
	platformCode := getenv("BV_PLATFORM_CODE", "storefront")
	adminPort := getenv("ADMIN_PORT", "8080")
	interval := getduration("FEED_INTERVAL", 24*time.Hour, logger)
	lockTTL := getduration("FEED_LOCK_TTL", 2*time.Hour, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(mongoDB)

	// Connect to redis (run lock)
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	// Initialize repositories
	orderRepo := repository.NewMongoOrderRepository(db)
	storeRepo := repository.NewMongoStoreRepository(db)
	catalog := repository.NewMongoProductCatalog(db, storeRepo)
	configRepo := repository.NewMongoFeedConfigRepository(db)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// Initialize pipeline components
	scopes := application.NewScopeResolver(storeRepo, logger)
	filter := application.NewOrderFilter(configRepo, logger)
	assembler := application.NewFeedAssembler(orderRepo, catalog, configRepo, logger)
	uploader := upload.NewHTTPUploader(uploadURL, uploadKey, logger)
	lock := runlock.NewRedisLock(redisClient, "bv:purchase_feed:run_lock", lockTTL)

	orchestrator := application.NewOrchestrator(
		scopes,
		filter,
		assembler,
		orderRepo,
		configRepo,
		xmlfeed.NewFactory(),
		uploader,
		lock,
		m,
		application.OrchestratorConfig{
			ExportDir:    exportDir,
			InboxPath:    inboxPath,
			PlatformCode: platformCode,
		},
		logger,
	)

	run := func() {
		if _, err := orchestrator.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("Purchase feed run failed")
		}
	}

	if *once {
		if _, err := orchestrator.Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Purchase feed run failed")
		}
		return
	}

	// Daemon mode: scheduled runs plus the admin surface.
	server := &http.Server{
		Addr:    ":" + adminPort,
		Handler: admin.NewRouter(run, registry, logger),
	}
	go func() {
		logger.Info().Str("port", adminPort).Msg("Starting admin server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start admin server")
		}
	}()

	logger.Info().Dur("interval", interval).Msg("Starting purchase feed scheduler")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run()
	for {
		select {
		case <-ticker.C:
			run()
		case <-ctx.Done():
			logger.Info().Msg("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
			return
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration, logger zerolog.Logger) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}
