package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/roster-optimizer/pkg/scheduler"
	"github.com/joho/godotenv"
)

// Config covers process level configuration read from environment variables
type Config struct {
	Environment string
	Port        string
	GinMode     string

	DatabaseURL string // postgres DSN; sqlite at DataPath when empty
	DataPath    string

	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string

	WindowStart      string
	WindowEnd        string
	RequestTimeout   time.Duration
	DefaultRateLimit int
}

// LoadEnvFile loads the first .env found in the working directory or its parents
func LoadEnvFile() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads environment variables, applies defaults, and validates the result
func Load() (*Config, error) {
	LoadEnvFile()

	cfg := &Config{
		Environment:      getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8000"),
		GinMode:          getEnv("GIN_MODE", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DataPath:         getEnv("DATA_PATH", "roster.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		APIMasterSecret:  getEnv("API_MASTER_SECRET", ""),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		WindowStart:      getEnv("OPTIMIZER_WINDOW_START", scheduler.DefaultWindowStart),
		WindowEnd:        getEnv("OPTIMIZER_WINDOW_END", scheduler.DefaultWindowEnd),
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		DefaultRateLimit: getEnvInt("DEFAULT_RATE_LIMIT", 10000),
	}

	cfg.WindowStart = scheduler.NormalizeTime(cfg.WindowStart)
	cfg.WindowEnd = scheduler.NormalizeTime(cfg.WindowEnd)
	if scheduler.ToMinutes(cfg.WindowStart) >= scheduler.ToMinutes(cfg.WindowEnd) {
		return nil, fmt.Errorf("OPTIMIZER_WINDOW_START (%s) must be before OPTIMIZER_WINDOW_END (%s)", cfg.WindowStart, cfg.WindowEnd)
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be provided in production")
		}
		if cfg.APIMasterSecret == "" {
			return nil, fmt.Errorf("API_MASTER_SECRET must be provided in production")
		}
		if cfg.AdminPassword == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be provided in production")
		}
	} else if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}

	return cfg, nil
}

// IsProduction reports whether the process runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// OptimizerOptions returns the scheduler options derived from the config
func (c *Config) OptimizerOptions() scheduler.Options {
	return scheduler.Options{
		WindowStart: c.WindowStart,
		WindowEnd:   c.WindowEnd,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
