package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	AppEnv       string
	DBDriver     string
	DatabasePath string
	MySQLDSN     string
	ResetDB      bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionSecret string
	SessionTTL    time.Duration
	BaseURL       string

	EmailJS EmailJSConfig

	SwaggerHost string
}

// EmailJSConfig holds credentials for the EmailJS REST API.
type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

// Enabled reports whether enough credentials are present to send mail.
func (c EmailJSConfig) Enabled() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// Load builds Config from environment (and an optional .env file) with sensible defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: failed to read .env: %v", err)
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "production"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabasePath:  getEnv("DATABASE_PATH", defaultDatabasePath()),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/travel?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:       getEnvBool("RESET_DB", false),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		SessionSecret: getEnv("SESSION_SECRET", getEnv("JWT_SECRET", "change-me")),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),
		EmailJS: EmailJSConfig{
			ServiceID:  strings.TrimSpace(os.Getenv("EMAILJS_SERVICE_ID")),
			TemplateID: strings.TrimSpace(os.Getenv("EMAILJS_TEMPLATE_ID")),
			PublicKey:  strings.TrimSpace(os.Getenv("EMAILJS_PUBLIC_KEY")),
			PrivateKey: strings.TrimSpace(os.Getenv("EMAILJS_PRIVATE_KEY")),
		},
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Serverless platforms only allow writes under /tmp.
func defaultDatabasePath() string {
	if os.Getenv("VERCEL") == "1" {
		return "/tmp/database.db"
	}
	return "database.db"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
