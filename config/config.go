package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ForumDatabaseURL      string
	TournamentDatabaseURL string
	ServerPort            int

	DBConnectTimeout time.Duration
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	RunMigrations    bool

	LogLevel           slog.Level
	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// ExportEnabled reports whether every object storage setting is present.
func (c *Config) ExportEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	forumURL := getenv("FORUM_DATABASE_URL")
	if forumURL == "" {
		return nil, fmt.Errorf("FORUM_DATABASE_URL environment variable is not set")
	}

	tournamentURL := getenv("TOURNAMENT_DATABASE_URL")
	if tournamentURL == "" {
		return nil, fmt.Errorf("TOURNAMENT_DATABASE_URL environment variable is not set")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	timeout := 5 * time.Second
	if v := getenv("DB_CONNECT_TIMEOUT"); v != "" {
		timeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT environment variable: %w", err)
		}
	}

	maxOpen, err := intOrDefault(getenv, "DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdle, err := intOrDefault(getenv, "DB_MAX_IDLE_CONNS", 25)
	if err != nil {
		return nil, err
	}

	runMigrations := true
	if v := getenv("RUN_MIGRATIONS"); v != "" {
		runMigrations, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RUN_MIGRATIONS environment variable: %w", err)
		}
	}

	var level slog.Level
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	origins := []string{"*"}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS contains no origins: %q", v)
		}
	}

	cfg := &Config{
		ForumDatabaseURL:      forumURL,
		TournamentDatabaseURL: tournamentURL,
		ServerPort:            port,
		DBConnectTimeout:      timeout,
		DBMaxOpenConns:        maxOpen,
		DBMaxIdleConns:        maxIdle,
		RunMigrations:         runMigrations,
		LogLevel:              level,
		CORSAllowedOrigins:    origins,
		R2AccountID:           getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intOrDefault(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	return n, nil
}
