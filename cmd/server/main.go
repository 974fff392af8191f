package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shortlink/internal/cache"
	"shortlink/internal/config"
	"shortlink/internal/handler"
	"shortlink/internal/server"
	"shortlink/internal/service"
	"shortlink/internal/store"
	"shortlink/internal/store/postgres"
	"shortlink/internal/store/sqlite"
	"shortlink/internal/worker"
	"shortlink/pkg/logger"
)

// gormWriter adapts our logger to gorm's logger.Writer interface.
type gormWriter struct {
	logger *logger.Logger
}

func (w *gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

func main() {
	// Load environment variables from .env file (development only)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()
	appLogger.Info("Starting shortlink service")

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", "error", err)
	}

	// Durable backends run behind the worker pool so connection handlers
	// never block on disk or network I/O.
	pool := worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerQueueDepth)
	defer pool.Close()

	urlStore, cleanup, err := buildStore(cfg, pool, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize store", "backend", cfg.StoreBackend, "error", err)
	}
	defer cleanup()

	var resolveCache cache.Cache
	if cfg.CacheEnabled {
		resolveCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Warn("Failed to initialize Redis cache, continuing without cache", "error", err)
			resolveCache = nil
		}
	}

	svc := service.NewShortener(urlStore, resolveCache, cfg.CacheTTL, appLogger)
	router := handler.NewRouter(svc, appLogger)
	srv := server.New(router, appLogger, cfg.RateLimitPerMinute)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	if err := srv.Listen("tcp", address); err != nil {
		appLogger.Fatal("Failed to bind listener", "address", address, "error", err)
	}

	go func() {
		appLogger.Info("Server listening", "address", address, "backend", cfg.StoreBackend)
		if err := srv.Serve(); err != nil {
			appLogger.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if err := srv.Shutdown(30 * time.Second); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	if resolveCache != nil {
		if err := resolveCache.Close(); err != nil {
			appLogger.Error("Error closing Redis connection", "error", err)
		}
	}

	appLogger.Info("Server exited successfully")
}

// buildStore constructs the configured store variant. Durable variants are
// wrapped in the offload decorator; the in-memory variant holds its lock
// only for map operations and needs no offloading.
func buildStore(cfg *config.Config, pool *worker.Pool, log *logger.Logger) (store.URLStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := s.Close(); err != nil {
				log.Error("Error closing SQLite store", "error", err)
			}
		}
		return store.NewOffloaded(s, pool), cleanup, nil

	case config.BackendPostgres:
		db, err := openPostgres(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		s, err := postgres.New(db)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store.NewOffloaded(s, pool), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// openPostgres connects with retries; the database may still be starting
// when this service comes up.
func openPostgres(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		&gormWriter{logger: log},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	var db *gorm.DB
	var err error

	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
			Logger:         gormLog,
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Warn("Failed to connect to database, retrying...", "attempt", i+1, "error", err)
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
