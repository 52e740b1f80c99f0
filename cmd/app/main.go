package main

import (
	"context"
	"crypto/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/config"
	"github.com/BloggingApp/post-web/internal/handler"
	"github.com/BloggingApp/post-web/internal/repository"
	"github.com/BloggingApp/post-web/internal/repository/postgres"
	"github.com/BloggingApp/post-web/internal/repository/sqlite"
	"github.com/BloggingApp/post-web/internal/server"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const csrfKeyLength = 32

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Infof("No .env file loaded: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Panicf("failed to load config: %s", err.Error())
	}

	var db *pgxpool.Pool
	if cfg.Session.Driver == repository.DriverPostgres {
		db, err = postgres.DB(ctx, config.DBConfigFromEnv())
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
		}
		defer db.Close()
		logger.Info("Successfully connected to PostgreSQL")
	}

	var lite *sqlite.TokenRepo
	if cfg.Session.Driver == repository.DriverSQLite {
		lite, err = sqlite.Open(cfg.Session.SQLitePath)
		if err != nil {
			logger.Sugar().Panicf("failed to open sqlite session store: %s", err.Error())
		}
		defer lite.Close()
		logger.Sugar().Infof("Session tokens stored in %s", cfg.Session.SQLitePath)
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" || cfg.Session.Driver == repository.DriverRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr: addr,
		})
		pong, err := rdb.Ping(ctx).Result()
		switch {
		case err == nil:
			logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
		case cfg.Session.Driver == repository.DriverRedis:
			logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
		default:
			logger.Sugar().Errorf("failed to ping redis, login rate limiting is off: %s", err.Error())
			rdb.Close()
			rdb = nil
		}
	}
	if rdb != nil {
		defer rdb.Close()
	}

	repos, err := repository.New(cfg.Session.Driver, db, rdb, lite, logger)
	if err != nil {
		logger.Sugar().Panicf("failed to initialize repositories: %s", err.Error())
	}

	api := client.New(logger, cfg.APIBaseURL, cfg.APITimeout)
	services := service.New(logger, api, repos.Tokens, cfg.Session.TTL)
	handlers := handler.New(logger, services, repos.Limiter(), handler.Options{
		ClientOrigin:   cfg.ClientOrigin,
		CookieName:     cfg.Session.CookieName,
		CookieSecure:   cfg.Session.CookieSecure,
		LoginRateLimit: cfg.Login.RateLimit,
		LoginWindow:    cfg.Login.Window,
	})

	if expirer := repos.Expirer(); expirer != nil {
		go service.StartTokenSweeper(ctx, logger, expirer, time.Hour)
	}

	srv := server.New(config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.Protect(csrfKey(cfg.CSRFKey, logger), handlers.InitRoutes()),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})
	go func() {
		if err := srv.Run(); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Sugar().Infof("Server started on port %s, posts api at %s", cfg.Port, api.BaseURL())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}

// csrfKey returns the configured key, or a random one when it is not 32
// bytes long. A random key invalidates open forms on every restart.
func csrfKey(configured string, logger *zap.Logger) []byte {
	if len(configured) == csrfKeyLength {
		return []byte(configured)
	}

	logger.Warn("CSRF_KEY is not 32 bytes long, using a random key")
	key := make([]byte, csrfKeyLength)
	if _, err := rand.Read(key); err != nil {
		logger.Sugar().Panicf("failed to generate csrf key: %s", err.Error())
	}
	return key
}
