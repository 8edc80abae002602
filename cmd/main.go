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
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/dnd-connect/internal/handlers"
	"github.com/sbilibin2017/dnd-connect/internal/jwt"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
	"github.com/sbilibin2017/dnd-connect/internal/middlewares"
	"github.com/sbilibin2017/dnd-connect/internal/repositories"
	"github.com/sbilibin2017/dnd-connect/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sbilibin2017/dnd-connect/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// rateLimitKeyPrefix namespaces limiter counters in a shared Redis.
const rateLimitKeyPrefix = "dnd-connect:ratelimit:"

// config holds everything read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaBrokers       []string
	KafkaLocationTopic string

	JWTSecretKey string
	JWTExpSecond int

	RateLimitRequests     int
	RateLimitWindowSecond int

	NearbyDefaultRadiusKm float64
}

// @title dnd-connect API
// @version 1.0.0
// @description Player accounts, location sharing and nearby player search for D&D Connect
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// the application, database, Redis, Kafka, JWT and search configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	cfg := &config{}
	var err error

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return nil, fmt.Errorf("POSTGRES_PORT: %w", err)
	}
	if cfg.PGMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return nil, fmt.Errorf("POSTGRES_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.PGMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return nil, fmt.Errorf("POSTGRES_MAX_IDLE_CONNS: %w", err)
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.RedisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return nil, fmt.Errorf("REDIS_PORT: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return nil, fmt.Errorf("REDIS_POOL_SIZE: %w", err)
	}
	if cfg.RedisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return nil, fmt.Errorf("REDIS_MIN_IDLE_CONNS: %w", err)
	}

	// Kafka config, empty brokers disables event publishing
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaLocationTopic = getEnv("KAFKA_LOCATION_TOPIC", "location.updated")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.JWTExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return nil, fmt.Errorf("JWT_EXP_SECOND: %w", err)
	}

	// Rate limit config
	if cfg.RateLimitRequests, err = strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "60")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RateLimitWindowSecond, err = strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECOND", "60")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_SECOND: %w", err)
	}

	// Search config
	if cfg.NearbyDefaultRadiusKm, err = strconv.ParseFloat(getEnv("NEARBY_DEFAULT_RADIUS_KM", "10"), 64); err != nil {
		return nil, fmt.Errorf("NEARBY_DEFAULT_RADIUS_KM: %w", err)
	}

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka writer, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, "dnd-connect"); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	if err := repositories.Migrate(ctx, db); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer for location events
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		kw := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaLocationTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		defer kw.Close()
		kafkaWriter = kw
		logger.Log.Infow("Kafka writer configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaLocationTopic)
	} else {
		logger.Log.Warn("KAFKA_BROKERS not set, location events are not published")
	}

	// Initialize JWT service
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(time.Duration(cfg.JWTExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext)
	rateLimitRepo := repositories.NewRateLimitRepository(rdb, rateLimitKeyPrefix)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens)
	proximityService := services.NewProximityService(userReadRepo, cfg.NearbyDefaultRadiusKm)
	locationService := services.NewLocationService(userWriteRepo, kafkaWriter)
	profileService := services.NewProfileService(userReadRepo, userWriteRepo)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	profileHandler := handlers.NewGetProfileHandler(profileService, middlewares.GetUserIDFromContext)
	updateProfileHandler := handlers.NewUpdateProfileHandler(profileService, middlewares.GetUserIDFromContext)
	userHandler := handlers.NewGetUserHandler(profileService)
	updateLocationHandler := handlers.NewUpdateLocationHandler(locationService, middlewares.GetUserIDFromContext)
	nearbyHandler := handlers.NewNearbyUsersHandler(proximityService, middlewares.GetUserIDFromContext)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))
			r.Get("/users/me", profileHandler)
			r.With(middlewares.TxMiddleware(db)).Put("/users/me", updateProfileHandler)
			r.With(middlewares.TxMiddleware(db)).Post("/users/location", updateLocationHandler)
			r.With(middlewares.RateLimitMiddleware(
				rateLimitRepo,
				"nearby",
				int64(cfg.RateLimitRequests),
				time.Duration(cfg.RateLimitWindowSecond)*time.Second,
			)).Get("/users/nearby", nearbyHandler)
			r.Get("/users/{id}", userHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
