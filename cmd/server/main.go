/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the recognition service. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load YAML config with env overrides
  2. Initialize SQLite store
  3. Connect the optional Redis summary cache
  4. Create API handler and the scheduled summary refresher
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: config.yaml; missing file is fine)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the refresher, close Redis and the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/recognition.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  PORT, SQLITE_PATH, REDIS_ADDR, JWT_SECRET override the config file.

SEE ALSO:
  - api/server.go: Router configuration
  - api/refresher.go: Scheduled summary re-evaluation
  - config/config.go: Config file format
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/recognition-engine/api"
	"github.com/warp/recognition-engine/config"
	rediscache "github.com/warp/recognition-engine/store/redis"
	"github.com/warp/recognition-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "config.yaml", "YAML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.SQLitePath = *dbPath
	}
	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET not set, using an insecure development default")
		cfg.JWT.Secret = "dev-secret-do-not-use-in-production"
	}

	// Initialize store
	st, err := sqlite.New(cfg.Database.SQLitePath)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer st.Close()

	// Optional Redis cache
	var cache *rediscache.Cache
	if cfg.Redis.Addr != "" {
		cache = rediscache.New(cfg.Redis.Addr, time.Duration(cfg.Redis.TTLMinutes)*time.Minute)
		defer cache.Close()
		logger.WithField("addr", cfg.Redis.Addr).Info("summary cache enabled")
	}

	// Initialize handler
	handler := api.NewHandler(st, logger)
	handler.Cache = cache
	handler.JWTSecret = cfg.JWT.Secret
	handler.JWTTTL = time.Duration(cfg.JWT.TTLHours) * time.Hour

	// Scheduled summary refresher
	refresher := api.NewRefresher(st, cache, logger)
	handler.Refresher = refresher
	if cfg.Refresh.Enabled {
		if err := refresher.Start(cfg.Refresh.Cron); err != nil {
			logger.WithError(err).Fatal("failed to start summary refresher")
		}
		defer refresher.Stop()
	}

	// Create router
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server stopped")
}
