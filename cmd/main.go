package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/playtube/playtube/internal/blobstore"
	"github.com/playtube/playtube/internal/handlers"
	"github.com/playtube/playtube/internal/jwt"
	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/repositories"
	"github.com/playtube/playtube/internal/services"
	"github.com/playtube/playtube/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/playtube/playtube/docs"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title playtube API
// @version 1.0.0
// @description Media-sharing service backend: session/token lifecycle and channel aggregation
// @host localhost:8080
// @BasePath /api/v1/users
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		statsCacheTTL,
		kafkaBrokers, kafkaTopic,
		s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey, s3PublicURL,
		accessSecret, refreshSecret, accessExpSecond, refreshExpSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		statsCacheTTL,
		kafkaBrokers, kafkaTopic,
		s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey, s3PublicURL,
		accessSecret, refreshSecret, accessExpSecond, refreshExpSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, S3, logging, and token
// configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	statsCacheTTL int,
	kafkaBrokers, kafkaTopic string,
	s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey, s3PublicURL string,
	accessSecret, refreshSecret string, accessExpSecond, refreshExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "playtube")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if statsCacheTTL, err = strconv.Atoi(getEnv("CHANNEL_STATS_TTL_SECOND", "60")); err != nil {
		return
	}

	// Kafka config; empty brokers disable audit publishing
	kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	kafkaTopic = getEnv("KAFKA_AUDIT_TOPIC", "auth-events")

	// S3 media host config
	s3Region = getEnv("S3_REGION", "us-east-1")
	s3Endpoint = getEnv("S3_ENDPOINT", "")
	s3Bucket = getEnv("S3_BUCKET", "playtube-media")
	s3AccessKey = getEnv("S3_ACCESS_KEY", "")
	s3SecretKey = getEnv("S3_SECRET_KEY", "")
	s3PublicURL = getEnv("S3_PUBLIC_URL", "http://localhost:9000")

	// Token config
	accessSecret = getEnv("ACCESS_TOKEN_SECRET", "access_dev_secret")
	refreshSecret = getEnv("REFRESH_TOKEN_SECRET", "refresh_dev_secret")
	if accessExpSecond, err = strconv.Atoi(getEnv("ACCESS_TOKEN_EXP_SECOND", "900")); err != nil {
		return
	}
	if refreshExpSecond, err = strconv.Atoi(getEnv("REFRESH_TOKEN_EXP_SECOND", "864000")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, blob store, and
// HTTP server. It sets up routes, applies middleware, and handles
// graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	statsCacheTTL int,
	kafkaBrokers, kafkaTopic string,
	s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey, s3PublicURL string,
	accessSecret, refreshSecret string, accessExpSecond, refreshExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Apply migrations
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Log.Fatal("migrations failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka audit writer; nil disables publishing
	var auditWriter services.KafkaWriter
	if kafkaBrokers != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(kafkaBrokers, ",")...),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		auditWriter = w
		logger.Log.Infof("Kafka audit writer configured for topic %s", kafkaTopic)
	}

	// S3 blob store for avatars and cover images
	blobs, err := blobstore.New(ctx, blobstore.Config{
		Region:       s3Region,
		BaseEndpoint: s3Endpoint,
		Bucket:       s3Bucket,
		AccessKey:    s3AccessKey,
		SecretKey:    s3SecretKey,
		PublicURL:    s3PublicURL,
	})
	if err != nil {
		logger.Log.Fatal("blob store init error:", err)
	}

	// Initialize token service
	accessExp := time.Duration(accessExpSecond) * time.Second
	refreshExp := time.Duration(refreshExpSecond) * time.Second
	tokens := jwt.New(accessSecret, refreshSecret, accessExp, refreshExp)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	subscriptionRepo := repositories.NewSubscriptionReadRepository(db)
	watchHistoryRepo := repositories.NewWatchHistoryRepository(db)
	statsCache := repositories.NewChannelStatsCacheRepository(rdb, time.Duration(statsCacheTTL)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens, auditWriter)
	profileService := services.NewProfileService(userReadRepo, userWriteRepo, blobs)
	channelService := services.NewChannelService(userReadRepo, subscriptionRepo, statsCache, watchHistoryRepo)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService, profileService)
	loginHandler := handlers.NewLoginHandler(authService, accessExp, refreshExp)
	refreshHandler := handlers.NewRefreshHandler(authService, accessExp, refreshExp)
	logoutHandler := handlers.NewLogoutHandler(authService)
	changePasswordHandler := handlers.NewChangePasswordHandler(authService)
	currentUserHandler := handlers.NewCurrentUserHandler()
	updateAccountHandler := handlers.NewUpdateAccountHandler(profileService)
	updateAvatarHandler := handlers.NewUpdateAvatarHandler(profileService)
	updateCoverHandler := handlers.NewUpdateCoverHandler(profileService)
	channelProfileHandler := handlers.NewChannelProfileHandler(channelService)
	watchHistoryHandler := handlers.NewWatchHistoryHandler(channelService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	authMiddleware := middlewares.AuthMiddleware(tokens, userReadRepo)
	optionalAuth := middlewares.OptionalAuthMiddleware(tokens, userReadRepo)

	r.Route("/api/v1/users", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)
		r.Post("/refresh-tokens", refreshHandler)

		// Channel profiles vary with the viewer but never require one
		r.With(optionalAuth).Get("/channel/{username}", channelProfileHandler)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", logoutHandler)
			r.Post("/change-password", changePasswordHandler)
			r.Get("/current-user", currentUserHandler)
			r.Patch("/update-account", updateAccountHandler)
			r.Patch("/update-profile", updateAvatarHandler)
			r.Patch("/update-cover", updateCoverHandler)
			r.Get("/watch-history", watchHistoryHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
