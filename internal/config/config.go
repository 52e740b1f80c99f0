package config

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrAPIBaseURLRequired = errors.New("API_BASE_URL is required")

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type SessionConfig struct {
	Driver       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
	SQLitePath   string
}

type LoginConfig struct {
	RateLimit int64
	Window    time.Duration
}

// AppConfig is everything the web front end reads from app.yaml and the
// environment.
type AppConfig struct {
	Port         string
	ClientOrigin string
	APIBaseURL   string
	APITimeout   time.Duration
	CSRFKey      string
	Session      SessionConfig
	Login        LoginConfig
}

func SetDefaults() {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("client.origin", "http://localhost:8080")
	viper.SetDefault("api.timeout", "10s")
	viper.SetDefault("session.driver", "redis")
	viper.SetDefault("session.ttl", "24h")
	viper.SetDefault("session.cookie", "session_id")
	viper.SetDefault("session.sqlite_path", "data/sessions.db")
	viper.SetDefault("cookie.secure", false)
	viper.SetDefault("login.rate_limit", 5)
	viper.SetDefault("login.window", "1m")
}

// Load reads the app config from viper. API_BASE_URL comes from the
// environment only, as the single deployment variable naming the posts API.
func Load() (*AppConfig, error) {
	SetDefaults()

	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("API_BASE_URL")), "/")
	if baseURL == "" {
		return nil, ErrAPIBaseURLRequired
	}

	return &AppConfig{
		Port:         viper.GetString("app.port"),
		ClientOrigin: viper.GetString("client.origin"),
		APIBaseURL:   baseURL,
		APITimeout:   viper.GetDuration("api.timeout"),
		CSRFKey:      os.Getenv("CSRF_KEY"),
		Session: SessionConfig{
			Driver:       viper.GetString("session.driver"),
			TTL:          viper.GetDuration("session.ttl"),
			CookieName:   viper.GetString("session.cookie"),
			CookieSecure: viper.GetBool("cookie.secure"),
			SQLitePath:   viper.GetString("session.sqlite_path"),
		},
		Login: LoginConfig{
			RateLimit: viper.GetInt64("login.rate_limit"),
			Window:    viper.GetDuration("login.window"),
		},
	}, nil
}

func DBConfigFromEnv() DBConfig {
	return DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}
