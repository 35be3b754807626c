package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Telegram transport modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Dialog   DialogConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// TelegramConfig holds bot API connection values.
type TelegramConfig struct {
	Token          string
	Mode           string
	WebhookPath    string
	WebhookSecret  string
	PollTimeoutSec int
	OffsetRedisKey string
}

// DialogConfig defines conversation parameters.
type DialogConfig struct {
	AdminIDs       []int64
	PageSize       int
	ConfirmCodeLen int
	StoreDriver    string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	adminIDs, err := ParseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "org-directory-bot"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Telegram: TelegramConfig{
			Token:          os.Getenv("TELEGRAM_TOKEN"),
			Mode:           getEnv("TELEGRAM_MODE", ModePolling),
			WebhookPath:    getEnv("TELEGRAM_WEBHOOK_PATH", "/telegram/webhook"),
			WebhookSecret:  os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
			PollTimeoutSec: getEnvAsInt("TELEGRAM_POLL_TIMEOUT_SECONDS", 30),
			OffsetRedisKey: getEnv("TELEGRAM_OFFSET_KEY", "orgbot:update_offset"),
		},
		Dialog: DialogConfig{
			AdminIDs:       adminIDs,
			PageSize:       getEnvAsInt("PAGE_SIZE", 5),
			ConfirmCodeLen: getEnvAsInt("CONFIRM_CODE_LENGTH", 4),
			StoreDriver:    getEnv("STORE_DRIVER", StorePostgres),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Dialog.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive")
	}
	if cfg.Dialog.ConfirmCodeLen <= 0 {
		return nil, fmt.Errorf("CONFIRM_CODE_LENGTH must be positive")
	}
	if cfg.Telegram.Mode != ModePolling && cfg.Telegram.Mode != ModeWebhook {
		return nil, fmt.Errorf("unknown TELEGRAM_MODE %q", cfg.Telegram.Mode)
	}
	if cfg.Dialog.StoreDriver != StorePostgres && cfg.Dialog.StoreDriver != StoreMemory {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Dialog.StoreDriver)
	}

	return cfg, nil
}

// IsAdmin reports whether the user id is in the admin allowlist.
func (d DialogConfig) IsAdmin(userID int64) bool {
	for _, id := range d.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ParseAdminIDs parses a comma-separated list of user ids.
func ParseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("admin id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
